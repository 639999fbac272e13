package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette for report output.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")
)

// styles renders report output. All styles are no-ops off a terminal
// so redirected output stays plain text.
type styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return &styles{
			Title:   plain,
			Label:   plain.Width(12),
			Muted:   plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
		}
	}

	return &styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Label:   lipgloss.NewStyle().Width(12).Foreground(colorMuted),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Error:   lipgloss.NewStyle().Foreground(colorError),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
