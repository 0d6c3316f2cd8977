package rules

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statusStyles = map[Status]lipgloss.Style{
		StatusPass: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")),
		StatusWarn: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00")),
		StatusFail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
	}

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF00FF"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)
)

// RenderText formats a report for a terminal. Styling is dropped
// automatically when the output has no color profile.
func RenderText(r *Report) string {
	status := r.Status()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Validation report"))
	b.WriteString("  ")
	b.WriteString(statusStyles[status].Render(string(status)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d hard failure(s), %d soft warning(s)", len(r.HardFailures), len(r.SoftWarnings))

	sections := []struct {
		title    string
		findings []Finding
	}{
		{"Hard failures", r.HardFailures},
		{"Soft warnings", r.SoftWarnings},
	}
	for _, s := range sections {
		if len(s.findings) == 0 {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render(s.title))
		for _, f := range s.findings {
			fmt.Fprintf(&b, "\n  %s %s\n    %s",
				ruleStyle.Render(f.Rule),
				locationStyle.Render(f.Location),
				f.Message)
		}
	}

	return boxStyle.Render(b.String())
}
