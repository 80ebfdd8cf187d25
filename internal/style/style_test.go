package style

import (
	"strings"
	"testing"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"waiting", "Waiting"},
		{"idle", "Idle"},
		{"working", "Working"},
		{"unknown", "Unknown"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.in); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusLabelTitleCases(t *testing.T) {
	for _, status := range []string{"waiting", "idle", "working", "unknown"} {
		label := StatusLabel(status)
		if !strings.Contains(label, Title(status)) {
			t.Errorf("StatusLabel(%q) = %q, missing %q", status, label, Title(status))
		}
	}
}
