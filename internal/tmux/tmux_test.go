package tmux

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/vaxhacker/aineko/internal/constants"
)

func hasTmux() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// testTmux returns a wrapper on an isolated socket so tests never touch the
// user's tmux server. The isolated server exits on its own once its last
// session is killed.
func testTmux() *Tmux {
	return NewTmuxWithSocket("aineko-test")
}

func TestStoredName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api:x7k2p9", "api@x7k2p9"},
		{"my_app-2:abc123", "my_app-2@abc123"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StoredName(tt.in); got != tt.want {
				t.Errorf("StoredName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api@x7k2p9", "api:x7k2p9"},
		{"my_app-2@abc123", "my_app-2:abc123"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalName(tt.in); got != tt.want {
				t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoredNameRoundTrip(t *testing.T) {
	for _, name := range []string{"api:x7k2p9", "web-v2:abc123", "a:1"} {
		if got := CanonicalName(StoredName(name)); got != name {
			t.Errorf("round trip of %q = %q", name, got)
		}
	}
}

func TestValidateSessionName(t *testing.T) {
	tests := []struct {
		stored string
		ok     bool
	}{
		{"api@x7k2p9", true},
		{"my_app-2@abc123", true},
		{"API_2@x1", true},
		{"api", false},
		{"", false},
		{"bad.name@x1", false},
		{"api@X7K2P9", false},
		{"api@x7k2p9@extra", false},
		{"spaced name@x1", false},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			err := validateSessionName(tt.stored)
			if tt.ok && err != nil {
				t.Errorf("validateSessionName(%q) = %v, want nil", tt.stored, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSessionName) {
				t.Errorf("validateSessionName(%q) = %v, want ErrInvalidSessionName", tt.stored, err)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tm := NewTmux()

	tests := []struct {
		stderr string
		want   error
	}{
		{"no server running on /tmp/tmux-...", ErrNoServer},
		{"error connecting to /tmp/tmux-...", ErrNoServer},
		{"no current target", ErrNoServer},
		{"duplicate session: test", ErrSessionExists},
		{"session not found: test", ErrSessionNotFound},
		{"can't find session: test", ErrSessionNotFound},
	}

	for _, tt := range tests {
		err := tm.wrapError(nil, tt.stderr, []string{"test"})
		if err != tt.want {
			t.Errorf("wrapError(%q) = %v, want %v", tt.stderr, err, tt.want)
		}
	}
}

func TestActiveSessionNamesNoServer(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := NewTmuxWithSocket("aineko-test-noserver")
	names, err := tm.ActiveSessionNames()
	if err != nil {
		t.Fatalf("ActiveSessionNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want none", names)
	}
}

func TestHasSessionNoSession(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := testTmux()
	has, err := tm.HasSession("nosuch:zz9999")
	if err != nil {
		t.Fatalf("HasSession: %v", err)
	}
	if has {
		t.Error("expected session to not exist")
	}
}

func TestSeanceSessionLifecycle(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := testTmux()
	sessionName := "aineko-" + t.Name() + ":x7k2p9"

	// Clean up any existing session
	_ = tm.KillSession(sessionName)

	env := map[string]string{
		constants.EnvSeanceID:   "x7k2p9",
		constants.EnvSocketPath: "/tmp/aineko/x7k2p9.sock",
	}
	if err := tm.NewSeanceSession(sessionName, "", env); err != nil {
		t.Fatalf("NewSeanceSession: %v", err)
	}
	defer func() { _ = tm.KillSession(sessionName) }()

	has, err := tm.HasSession(sessionName)
	if err != nil {
		t.Fatalf("HasSession: %v", err)
	}
	if !has {
		t.Error("expected session to exist after creation")
	}

	// Listing returns the canonical form, not the stored form.
	names, err := tm.ActiveSessionNames()
	if err != nil {
		t.Fatalf("ActiveSessionNames: %v", err)
	}
	found := false
	for _, n := range names {
		if n == sessionName {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("session %q not in %v", sessionName, names)
	}

	if err := tm.KillSession(sessionName); err != nil {
		t.Fatalf("KillSession: %v", err)
	}

	has, err = tm.HasSession(sessionName)
	if err != nil {
		t.Fatalf("HasSession after kill: %v", err)
	}
	if has {
		t.Error("expected session to not exist after kill")
	}
}

func TestDuplicateSeanceSession(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := testTmux()
	sessionName := "aineko-" + t.Name() + ":x7k2p9"

	_ = tm.KillSession(sessionName)

	if err := tm.NewSeanceSession(sessionName, "", nil); err != nil {
		t.Fatalf("NewSeanceSession: %v", err)
	}
	defer func() { _ = tm.KillSession(sessionName) }()

	err := tm.NewSeanceSession(sessionName, "", nil)
	if !errors.Is(err, ErrSessionExists) {
		t.Errorf("duplicate create: err = %v, want ErrSessionExists", err)
	}
}

func TestKillSessionIdempotent(t *testing.T) {
	if !hasTmux() {
		t.Skip("tmux not installed")
	}

	tm := testTmux()
	if err := tm.KillSession("nosuch:zz9999"); err != nil {
		t.Errorf("KillSession on absent session: %v, want nil", err)
	}
}

func TestNewSeanceSessionRejectsBadNames(t *testing.T) {
	tm := testTmux()

	for _, name := range []string{"bad.name:x1", "has space:x1", "noid", ""} {
		t.Run(name, func(t *testing.T) {
			err := tm.NewSeanceSession(name, "", nil)
			if !errors.Is(err, ErrInvalidSessionName) {
				t.Errorf("NewSeanceSession(%q) = %v, want ErrInvalidSessionName", name, err)
			}
		})
	}
}

func TestNewSeanceSessionBadWorkDir(t *testing.T) {
	tm := testTmux()
	err := tm.NewSeanceSession("api:x7k2p9", "/nonexistent/path/for/aineko/test", nil)
	if err == nil {
		t.Fatal("NewSeanceSession with missing work dir: err = nil, want error")
	}
}
