package tui

import (
	"testing"
	"time"

	"github.com/vaxhacker/aineko/internal/seance"
)

func TestPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"api", 5, "api  "},
		{"api", 3, "api"},
		{"apiserver", 3, "api"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		stamp string
		want  string
	}{
		{"empty", "", "-"},
		{"unparseable", "yesterday", "-"},
		{"just now", "2026-03-01T12:00:00.000Z", "now"},
		{"seconds", "2026-03-01T11:59:30.000Z", "30s"},
		{"minutes", "2026-03-01T11:55:00.000Z", "5m"},
		{"hours", "2026-03-01T09:00:00.000Z", "3h"},
		{"days", "2026-02-27T12:00:00.000Z", "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(tt.stamp, now); got != tt.want {
				t.Errorf("RelativeTime(%q) = %q, want %q", tt.stamp, got, tt.want)
			}
		})
	}
}

func TestTableWidthsFloorsProject(t *testing.T) {
	w := tableWidths(20)
	if w.project < 16 {
		t.Errorf("project width = %d on a narrow terminal, want >= 16", w.project)
	}
}

func TestLastStamp(t *testing.T) {
	withBoth := seance.Seance{HasState: true, State: seance.State{
		CreatedAt: "2026-03-01T10:00:00.000Z",
		UpdatedAt: "2026-03-01T11:00:00.000Z",
	}}
	if got := LastStamp(withBoth); got != "2026-03-01T11:00:00.000Z" {
		t.Errorf("LastStamp = %q, want updatedAt", got)
	}

	createdOnly := seance.Seance{HasState: true, State: seance.State{
		CreatedAt: "2026-03-01T10:00:00.000Z",
	}}
	if got := LastStamp(createdOnly); got != "2026-03-01T10:00:00.000Z" {
		t.Errorf("LastStamp = %q, want createdAt fallback", got)
	}

	if got := LastStamp(seance.Seance{}); got != "" {
		t.Errorf("lastStamp without state = %q, want empty", got)
	}
}

func TestCollapseHome(t *testing.T) {
	t.Setenv("HOME", "/home/dev")

	tests := []struct {
		in, want string
	}{
		{"/home/dev/work/api", "~/work/api"},
		{"/home/dev", "~"},
		{"/srv/data", "/srv/data"},
		{"/home/devops/x", "/home/devops/x"},
	}
	for _, tt := range tests {
		if got := collapseHome(tt.in); got != tt.want {
			t.Errorf("collapseHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
