// Package style centralizes terminal styling for command output. Styles
// degrade to plain text automatically when stdout is not a terminal.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Base text styles shared across command output.
var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Rendered line prefixes for check-style output.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("!")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Dim.Render("→")
)

// StatusStyle returns the color for a derived seance status name. The
// closer a seance is to needing the user, the hotter the color.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "waiting":
		return Error
	case "idle":
		return Warning
	case "working":
		return Success
	default:
		return Dim
	}
}

// Title returns s in English title case, for status labels and headers.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// StatusLabel renders a status name as its colored, title-cased display
// form.
func StatusLabel(status string) string {
	return StatusStyle(status).Render(Title(status))
}

// PrintWarning prints a formatted warning line to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}

// PrintError prints a formatted error line to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorPrefix, fmt.Sprintf(format, args...))
}
