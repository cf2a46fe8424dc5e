package quality

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olympus-coder/olympusval/pkg/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderReport formats a quality assessment as a styled terminal report.
func RenderReport(language string, a models.QualityAssessment) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Code Quality Report (%s)", language)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")

	gradeStyle := passStyle
	if !a.Grade.Passing() {
		gradeStyle = failStyle
	}
	b.WriteString(fmt.Sprintf("%s %s  (score %.2f)\n",
		sectionStyle.Render("Grade:"),
		gradeStyle.Render(string(a.Grade)),
		a.OverallScore))

	b.WriteString(sectionStyle.Render("Syntax: "))
	switch {
	case !a.Syntax.Checked:
		b.WriteString(warnStyle.Render("not checked"))
	case a.Syntax.Valid:
		b.WriteString(passStyle.Render("valid"))
	default:
		b.WriteString(failStyle.Render(fmt.Sprintf("%d error(s)", len(a.Syntax.Errors))))
	}
	b.WriteString("\n")
	for _, e := range a.Syntax.Errors {
		b.WriteString(fmt.Sprintf("  %s %s\n", failStyle.Render("✗"), e))
	}

	b.WriteString(fmt.Sprintf("%s %.2f", sectionStyle.Render("Style:"), a.Style.Score))
	if n := len(a.Style.Violations); n > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d violation(s))", n)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %.2f  (%d/%d functions, %d/%d classes documented)\n",
		sectionStyle.Render("Docs:"),
		a.Documentation.Score,
		a.Documentation.FunctionDocCount, a.Documentation.TotalFunctions,
		a.Documentation.ClassDocCount, a.Documentation.TotalClasses))

	if len(a.Recommendations) > 0 {
		b.WriteString(sectionStyle.Render("Recommendations:"))
		b.WriteString("\n")
		for _, r := range a.Recommendations {
			b.WriteString(fmt.Sprintf("  %s %s\n", warnStyle.Render("•"), r))
		}
	}

	return b.String()
}
