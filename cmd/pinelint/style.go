package main

import "github.com/charmbracelet/lipgloss"

// Semantic severity colors, carried over from the teacher's brand palette.
var (
	severityError      = lipgloss.Color("#e53935")
	severityWarning    = lipgloss.Color("#FFC107")
	severitySuggestion = lipgloss.Color("#2196F3")
	severityMuted      = lipgloss.Color("#8a8a8a")
)

var (
	errorStyle      = lipgloss.NewStyle().Foreground(severityError).Bold(true)
	warningStyle    = lipgloss.NewStyle().Foreground(severityWarning).Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(severitySuggestion)
	locationStyle   = lipgloss.NewStyle().Foreground(severityMuted)
)

// renderSeverity applies the matching style to a severity label for the
// "text" output format.
func renderSeverity(severity string) string {
	switch severity {
	case "error":
		return errorStyle.Render(severity)
	case "warning":
		return warningStyle.Render(severity)
	case "suggestion":
		return suggestionStyle.Render(severity)
	default:
		return severity
	}
}
