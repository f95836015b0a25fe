package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venicegeo/ets-gpkg12/internal/catalog"
)

// ClassInfo describes a conformance class in JSON output.
type ClassInfo struct {
	Name           string            `json:"name"`
	RequireEnabled bool              `json:"require_enabled"`
	Requirements   []RequirementInfo `json:"requirements"`
}

// RequirementInfo describes a requirement in JSON output.
type RequirementInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Clause      string   `json:"clause"`
	DependsOn   []string `json:"depends_on,omitempty"`
}

// NewClassesCommand creates the classes command.
func NewClassesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List conformance classes and their requirements",
		Long: `List the conformance classes of the catalog in evaluation order.

Class names are the values accepted by --ics.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(rootOpts, cmd)
		},
	}
}

func runClasses(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newOutputFormatter(opts, cmd)

	classes := describeClasses(catalog.Default())

	switch opts.Format {
	case FormatJSON:
		return formatter.Success(classes, "")
	case FormatXML:
		return formatter.fail(ExitCommandError, ErrCodeFormat, "classes does not support xml output", nil)
	}

	w := formatter.Writer
	for i, class := range classes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		note := ""
		if class.RequireEnabled {
			note = ", must be enabled"
		}
		fmt.Fprintf(w, "%s (%d requirements%s)\n", class.Name, len(class.Requirements), note)
		for _, req := range class.Requirements {
			fmt.Fprintf(w, "  %-40s %s\n", req.ID, req.Description)
			if opts.Verbose {
				fmt.Fprintf(w, "  %-40s %s", "", req.Clause)
				if len(req.DependsOn) > 0 {
					fmt.Fprintf(w, "; depends on %s", strings.Join(req.DependsOn, ", "))
				}
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

func describeClasses(cat *catalog.Catalog) []ClassInfo {
	classes := cat.Classes()
	out := make([]ClassInfo, len(classes))
	for i, class := range classes {
		info := ClassInfo{
			Name:           class.Name,
			RequireEnabled: class.RequireEnabled,
			Requirements:   make([]RequirementInfo, len(class.Requirements)),
		}
		for j, req := range class.Requirements {
			info.Requirements[j] = RequirementInfo{
				ID:          req.ID,
				Description: req.Description,
				Clause:      req.Clause,
				DependsOn:   req.DependsOn,
			}
		}
		out[i] = info
	}
	return out
}
