package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

// Loader fetches the current seance listing. Both views call it on every
// refresh so they never hold a stale snapshot.
type Loader func() ([]seance.Seance, error)

type colWidths struct {
	status  int
	name    int
	id      int
	updated int
	project int
}

func tableWidths(total int) colWidths {
	w := colWidths{
		status:  9,
		name:    18,
		id:      8,
		updated: 8,
	}
	// project gets remaining width
	used := w.status + w.name + w.id + w.updated + 6 // separators and padding
	w.project = total - used
	if w.project < 16 {
		w.project = 16
	}
	return w
}

func renderTableHeader(w colWidths) string {
	cols := []string{
		pad("Status", w.status),
		pad("Name", w.name),
		pad("ID", w.id),
		pad("Updated", w.updated),
		pad("Project", w.project),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func renderSeanceRow(s seance.Seance, w colWidths, now time.Time, selected bool) string {
	status := s.Status.String()
	updated := RelativeTime(LastStamp(s), now)
	project := "-"
	if s.HasState && s.State.ProjectDir != "" {
		project = collapseHome(s.State.ProjectDir)
	}

	if selected {
		cols := []string{
			pad(style.Title(status), w.status),
			pad(s.Name, w.name),
			pad(s.ID, w.id),
			pad(updated, w.updated),
			pad(project, w.project),
		}
		return selectedStyle.Render(strings.Join(cols, " "))
	}

	cols := []string{
		style.StatusStyle(status).Render(pad(style.Title(status), w.status)),
		pad(s.Name, w.name),
		dimStyle.Render(pad(s.ID, w.id)),
		pad(updated, w.updated),
		dimStyle.Render(pad(project, w.project)),
	}
	return strings.Join(cols, " ")
}

// LastStamp picks the timestamp a row displays, matching the recency the
// sort order uses.
func LastStamp(s seance.Seance) string {
	if !s.HasState {
		return ""
	}
	if s.State.UpdatedAt != "" {
		return s.State.UpdatedAt
	}
	return s.State.CreatedAt
}

// RelativeTime renders a persisted timestamp as a compact age like "3m".
func RelativeTime(stamp string, now time.Time) string {
	if stamp == "" {
		return "-"
	}
	t, err := time.Parse(seance.TimeLayout, stamp)
	if err != nil {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// collapseHome abbreviates the user's home directory prefix to "~".
func collapseHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
