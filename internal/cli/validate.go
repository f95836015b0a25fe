package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venicegeo/ets-gpkg12/internal/catalog"
	"github.com/venicegeo/ets-gpkg12/internal/config"
	"github.com/venicegeo/ets-gpkg12/internal/engine"
	"github.com/venicegeo/ets-gpkg12/internal/report"
	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ICS    string // comma-separated conformance class names
	Config string // run configuration file

	// RunIDs generates the trace id of each run. Default: UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ValidateResult is the JSON payload of the validate command.
type ValidateResult struct {
	Result map[string]any `json:"result"`
	Digest string         `json:"digest"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return newValidateCommand(&ValidateOptions{RootOptions: rootOpts, RunIDs: engine.UUIDv7Generator{}})
}

func newValidateCommand(opts *ValidateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [container]",
		Short: "Validate a GeoPackage container",
		Long: `Validate a GeoPackage container against the conformance classes of the
GeoPackage 1.2 standard.

The container is a path or a file: URI. It may also be given as "iut" in
the run configuration file; the argument takes precedence.

Exit codes:
  0 - Every evaluated requirement passed
  1 - One or more requirements failed
  2 - Command error (bad config, unreadable container, etc.)

Examples:
  ets-gpkg12 validate data.gpkg
  ets-gpkg12 validate data.gpkg --ics "Core,Extension Mechanism"
  ets-gpkg12 validate --config run.yaml --format xml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var container string
			if len(args) == 1 {
				container = args[0]
			}
			return runValidate(opts, container, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ICS, "ics", "", "comma-separated conformance classes to enable (default: all)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "run configuration file (YAML)")

	return cmd
}

func runValidate(opts *ValidateOptions, container string, cmd *cobra.Command) error {
	formatter := newOutputFormatter(opts.RootOptions, cmd)

	var cfg *config.RunConfig
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeConfig, "invalid run configuration", err)
		}
		cfg = loaded
	}

	cat := catalog.Default()
	settings, err := config.Resolve(cfg, config.Overrides{
		Container: container,
		ICS:       opts.ICS,
		ICSSet:    cmd.Flags().Changed("ics"),
		Verbose:   opts.Verbose,
	}, classNames(cat))
	if err != nil {
		code := ErrCodeConfig
		if errors.Is(err, config.ErrNoContainer) {
			code = ErrCodeContainer
		}
		return formatter.fail(ExitCommandError, code, err.Error(), nil)
	}

	traceID := opts.RunIDs.Generate()
	logger := formatter.Logger(settings.LogLevel, traceID)

	gpkg, err := store.Open(settings.Container)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeContainer, "cannot open container", err)
	}
	defer gpkg.Close()

	formatter.VerboseLog("Validating %s (classes: %v)", settings.Container, settings.ICS.Names())

	result, err := engine.New(cat, gpkg, settings.Container, engine.WithLogger(logger)).
		Execute(cmd.Context(), settings.ICS)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeRun, "run aborted", err)
	}

	if err := outputValidateResult(formatter, result, traceID); err != nil {
		return err
	}

	if !result.Conformant() {
		return nonConformant(result.Failed, result.Total)
	}
	return nil
}

func outputValidateResult(formatter *OutputFormatter, result *engine.RunResult, traceID string) error {
	switch formatter.Format {
	case FormatJSON:
		digest, err := report.Digest(result)
		if err != nil {
			return err
		}
		return formatter.Success(ValidateResult{Result: report.ToMap(result), Digest: digest}, traceID)
	case FormatXML:
		return report.WriteXML(formatter.Writer, result)
	default:
		_, err := fmt.Fprint(formatter.Writer, report.RenderText(result))
		return err
	}
}

func classNames(cat *catalog.Catalog) []string {
	classes := cat.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return names
}
