package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Process exit codes of ets-gpkg12.
const (
	ExitSuccess      = 0 // container conforms to every evaluated requirement
	ExitFailure      = 1 // at least one verdict failed
	ExitCommandError = 2 // no verdicts were produced
)

// Values accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Codes of the JSON error envelope.
const (
	ErrCodeGeneric   = "E001"
	ErrCodeConfig    = "E002" // run configuration unreadable or invalid
	ErrCodeContainer = "E003" // no container given, or it cannot be opened
	ErrCodeRun       = "E004" // run aborted before aggregation
	ErrCodeFormat    = "E005" // --format not supported by the command
)

// ExitError ends a command with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// nonConformant is the error of a run whose container failed requirements.
func nonConformant(failed, total int) *ExitError {
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d requirement(s) failed", failed, total))
}

// GetExitCode maps the error of a command to the process exit code.
// Errors without a code come from flag and argument parsing, so they exit
// with ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// CLIResponse is the envelope written by --format json.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	TraceID string    `json:"trace_id,omitempty"` // run id, also present in every log line
}

// CLIError describes a failed command in the JSON envelope.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes results to Writer and diagnostics to ErrWriter.
// Reports and envelopes are the only bytes written to Writer, so stdout
// stays machine-readable for json and xml.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Writer when nil
	Verbose   bool
}

func newOutputFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// Success writes data. For json it is wrapped in an "ok" envelope carrying
// traceID; an empty traceID is omitted.
func (f *OutputFormatter) Success(data any, traceID string) error {
	if f.Format != FormatJSON {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	return f.encode(CLIResponse{Status: "ok", Data: data, TraceID: traceID})
}

// Error writes a command failure. Text output shows details only with
// --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == FormatJSON {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// VerboseLog writes a diagnostic line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.diagnostics(), format+"\n", args...)
	}
}

// Logger returns the run logger: slog text records on the diagnostic
// writer, each tagged with traceID.
func (f *OutputFormatter) Logger(level slog.Level, traceID string) *slog.Logger {
	h := slog.NewTextHandler(f.diagnostics(), &slog.HandlerOptions{Level: level})
	return slog.New(h).With("trace_id", traceID)
}

func (f *OutputFormatter) diagnostics() io.Writer {
	if f.ErrWriter == nil {
		return f.Writer
	}
	return f.ErrWriter
}

// fail reports a command error through the formatter and returns it with
// exitCode attached.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, code+": "+message, err)
}
