// Package output provides styled terminal output helpers (success, error,
// warning, sync log formatting) using lipgloss.
package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gwj/vust/internal/db"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyles = map[string]lipgloss.Style{
		db.SyncStatusRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		db.SyncStatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		db.SyncStatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Subtle prints a de-emphasized message
func Subtle(format string, args ...interface{}) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// FormatSyncStatus formats a sync log status with color
func FormatSyncStatus(status string) string {
	style, ok := statusStyles[status]
	if !ok {
		return fmt.Sprintf("[%s]", status)
	}
	return style.Render(fmt.Sprintf("[%s]", status))
}

// FormatSyncLogEntry renders one audit row for the log listing
func FormatSyncLogEntry(e db.SyncLogEntry) string {
	line := fmt.Sprintf("%s %s  session=%s", e.StartedAt, FormatSyncStatus(e.Status), e.SessionID)
	if e.Summary != "" {
		line += "  " + e.Summary
	}
	if e.Error != "" {
		line += "\n  " + errorStyle.Render(e.Error)
	}
	return line
}
