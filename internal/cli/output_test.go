package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccessCarriesTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}

	err := formatter.Success(map[string]int{"failed": 0}, "run-1")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.TraceID)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONSuccessOmitsEmptyTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}

	require.NoError(t, formatter.Success([]string{"Core"}, ""))
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}

	err := formatter.Error(ErrCodeContainer, "cannot open container", "no such file")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E003", resp.Error.Code)
	assert.Equal(t, "cannot open container", resp.Error.Message)
	assert.Equal(t, "no such file", resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: FormatText, Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error(ErrCodeConfig, "invalid run configuration", "log_level"))
			assert.Contains(t, buf.String(), "Error [E002]: invalid run configuration")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details: log_level")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("Validating %s", "data.gpkg")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Validating data.gpkg")

	formatter.Verbose = false
	errOut.Reset()
	formatter.VerboseLog("hidden")
	assert.Empty(t, errOut.String())
}

func TestOutputFormatter_JSONDoesNotEscapeHTML(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}

	require.NoError(t, formatter.Success("<author>_<extension>", ""))
	assert.Contains(t, buf.String(), "<author>_<extension>")
}

func TestOutputFormatter_LoggerTagsTraceID(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: out, ErrWriter: errOut}

	logger := formatter.Logger(slog.LevelInfo, "run-7")
	logger.Debug("hidden")
	logger.Info("run starting", "target", "data.gpkg")

	assert.Empty(t, out.String())
	assert.NotContains(t, errOut.String(), "hidden")
	assert.Contains(t, errOut.String(), "msg=\"run starting\"")
	assert.Contains(t, errOut.String(), "trace_id=run-7")
}

func TestNonConformantMessage(t *testing.T) {
	err := nonConformant(2, 40)
	assert.Equal(t, "2 of 40 requirement(s) failed", err.Error())
	assert.Equal(t, ExitFailure, err.Code)
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatText, Writer: buf}
	cause := errors.New("disk I/O error")

	err := formatter.fail(ExitCommandError, ErrCodeContainer, "cannot open container", cause)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "E003: cannot open container: disk I/O error", err.Error())
	assert.Contains(t, buf.String(), "Error [E003]: cannot open container")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitCommandError, "bad"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "failed")), ExitFailure},
		{"non-conformant", nonConformant(2, 40), ExitFailure},
		{"flag parsing error", errors.New("unknown flag: --bogus"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
