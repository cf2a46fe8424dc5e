// Package tui provides the terminal user interface for olympusval's
// watch mode: a live feed of validation results as response files and
// the project inventory change.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olympus-coder/olympusval/pkg/models"
)

// ResultMsg is sent when a response file has been validated.
type ResultMsg struct {
	Source string
	Report *models.ValidationReport
}

// ValidatingMsg is sent when validation of a response file starts.
type ValidatingMsg struct {
	Source string
}

// InventoryMsg is sent when the project inventory has been rescanned.
type InventoryMsg struct {
	FileCount int
}

// ErrMsg is sent when reading or validating a response file fails.
type ErrMsg struct {
	Source string
	Err    error
}

// resultRow is one displayed validation outcome.
type resultRow struct {
	at     time.Time
	source string
	report *models.ValidationReport
}

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	watchStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	validStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	invalidStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("236"))
	detailStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// maxRows caps the history kept on screen.
const maxRows = 50

// Watch is the bubbletea model for watch mode.
type Watch struct {
	spinner   spinner.Model
	detail    viewport.Model
	rows      []resultRow
	selected  int
	busy      string // source currently being validated, "" when idle
	inventory int
	lastErr   string
	width     int
	height    int
	quitting  bool
}

// NewWatch creates the watch model.
func NewWatch() *Watch {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Watch{
		spinner: sp,
		detail:  viewport.New(80, 12),
	}
}

// Init implements tea.Model.
func (w *Watch) Init() tea.Cmd {
	return w.spinner.Tick
}

// Update implements tea.Model.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			w.quitting = true
			return w, tea.Quit
		case "up", "k":
			if w.selected > 0 {
				w.selected--
				w.syncDetail()
			}
		case "down", "j":
			if w.selected < len(w.rows)-1 {
				w.selected++
				w.syncDetail()
			}
		}

	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		w.detail.Width = msg.Width - 4
		w.detail.Height = msg.Height / 2

	case ValidatingMsg:
		w.busy = msg.Source

	case ResultMsg:
		w.busy = ""
		w.lastErr = ""
		w.rows = append([]resultRow{{at: time.Now(), source: msg.Source, report: msg.Report}}, w.rows...)
		if len(w.rows) > maxRows {
			w.rows = w.rows[:maxRows]
		}
		w.selected = 0
		w.syncDetail()

	case InventoryMsg:
		w.inventory = msg.FileCount

	case ErrMsg:
		w.busy = ""
		w.lastErr = fmt.Sprintf("%s: %v", msg.Source, msg.Err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	var cmd tea.Cmd
	w.detail, cmd = w.detail.Update(msg)
	return w, cmd
}

// View implements tea.Model.
func (w *Watch) View() string {
	if w.quitting {
		return "Goodbye!\n"
	}

	header := watchTitleStyle.Render("olympusval watch")
	status := watchStatusStyle.Render(fmt.Sprintf("inventory: %d files", w.inventory))
	if w.busy != "" {
		status = fmt.Sprintf("%s validating %s", w.spinner.View(), w.busy)
	}

	body := "Waiting for response files..."
	if len(w.rows) > 0 {
		body = w.viewRows()
	}
	if w.lastErr != "" {
		body += "\n" + invalidStyle.Render("error: "+w.lastErr)
	}

	out := fmt.Sprintf("%s  %s\n\n%s", header, status, body)
	if len(w.rows) > 0 {
		out += "\n\n" + detailStyle.Render(w.detail.View())
	}
	out += "\n" + watchStatusStyle.Render("up/down select · q quit")
	return out
}

func (w *Watch) viewRows() string {
	var out string
	for i, row := range w.rows {
		verdict := validStyle.Render("valid")
		if !row.report.OverallValid {
			verdict = invalidStyle.Render("invalid")
		}
		line := fmt.Sprintf("%s  %-30s %-12s %s",
			row.at.Format("15:04:05"), truncate(row.source, 30), row.report.ResponseType, verdict)
		if i == w.selected {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}
	return out
}

// syncDetail rebuilds the viewport content for the selected row.
func (w *Watch) syncDetail() {
	if w.selected < 0 || w.selected >= len(w.rows) {
		return
	}
	w.detail.SetContent(renderDetail(w.rows[w.selected].report))
	w.detail.GotoTop()
}

// renderDetail summarizes one report for the detail pane.
func renderDetail(r *models.ValidationReport) string {
	out := fmt.Sprintf("type: %s   segments: %d   duration: %s\n",
		r.ResponseType, len(r.Segments), r.Duration.Round(time.Millisecond))
	for _, e := range r.Errors {
		out += invalidStyle.Render("error: "+e) + "\n"
	}
	for _, warning := range r.Warnings {
		out += watchStatusStyle.Render("warning: "+warning) + "\n"
	}
	for _, tr := range r.ToolRequests {
		name := "?"
		if tr.Request != nil {
			name = tr.Request.ToolName
		}
		out += fmt.Sprintf("tool %s: valid=%v confidence=%.2f\n", name, tr.Valid, tr.Confidence)
		for _, e := range tr.Errors {
			out += "  " + invalidStyle.Render(e) + "\n"
		}
	}
	for _, ca := range r.CodeAssessments {
		out += fmt.Sprintf("code (%s): grade %s, score %.2f\n",
			ca.Segment.Language, ca.Quality.Grade, ca.Quality.OverallScore)
		for _, rec := range ca.Quality.Recommendations {
			out += "  - " + rec + "\n"
		}
		for _, f := range ca.Findings {
			if f.Exists {
				continue
			}
			out += "  " + invalidStyle.Render("unresolved: "+f.ReferencedPath) + "\n"
			for _, s := range f.Suggestions {
				out += fmt.Sprintf("    did you mean %s (%.2f)?\n", s.Candidate, s.Similarity)
			}
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
