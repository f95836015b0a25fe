package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "xml"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatXML}

// NewRootCommand creates the root command for the ets-gpkg12 CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ets-gpkg12",
		Short: "GeoPackage 1.2 conformance test suite",
		Long: `Validate SQLite GeoPackage containers against the OGC GeoPackage 1.2
encoding standard.

Requirements are grouped into conformance classes. By default every
class is evaluated; --ics names the classes the container claims to
implement. A class left out of --ics that must be enabled is reported
as a failed verdict.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logs on stderr)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|xml)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewClassesCommand(opts))

	return cmd
}
