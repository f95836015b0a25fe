package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/venicegeo/ets-gpkg12/internal/engine"
)

var (
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	dim     = lipgloss.Color("#6B7280")
	accent  = lipgloss.Color("#D97706")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	classStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	passStyle  = lipgloss.NewStyle().Foreground(success)
	failStyle  = lipgloss.NewStyle().Foreground(danger)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
)

// RenderText renders a result for a terminal.
func RenderText(r *engine.RunResult) string {
	var b strings.Builder

	status := passStyle.Render("CONFORMANT")
	if !r.Conformant() {
		status = failStyle.Render("NOT CONFORMANT")
	}
	b.WriteString(titleStyle.Render(r.Target) + "  " + status + "\n")

	class := ""
	for _, v := range r.Verdicts {
		if v.Class != class {
			class = v.Class
			b.WriteString("\n  " + classStyle.Render(class) + "\n")
		}
		if v.Pass {
			fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("✓"), v.RequirementID)
			continue
		}
		fmt.Fprintf(&b, "    %s %s  %s\n", failStyle.Render("✗"), v.RequirementID, dimStyle.Render(string(v.Fault)))
		if v.Diagnostic != "" {
			fmt.Fprintf(&b, "      %s\n", v.Diagnostic)
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\n  " + dimStyle.Render("skipped: "+strings.Join(r.Skipped, ", ")) + "\n")
	}
	if len(r.Unknown) > 0 {
		b.WriteString("\n  " + failStyle.Render("unknown classes: "+strings.Join(r.Unknown, ", ")) + "\n")
	}

	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return b.String()
}
