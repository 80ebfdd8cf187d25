// Package tmux wraps the tmux session operations aineko needs via subprocess.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
)

// Common errors
var (
	ErrNoServer           = errors.New("no tmux server running")
	ErrSessionExists      = errors.New("session already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSessionName = errors.New("invalid session name")
)

// Seance sessions are addressed everywhere else as "<name>:<id>", but tmux
// rewrites ':' and '.' in session names to '_', which would destroy the
// form. The server therefore stores seances under "<name>@<id>"; this
// package translates at the boundary and nothing outside it sees the
// stored form.
const (
	canonicalSep = ":"
	storedSep    = "@"
)

// validStoredNameRe limits seance sessions to characters tmux keeps
// verbatim. Anything outside it risks silent rewriting or cryptic
// target-resolution errors.
var validStoredNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+@[a-z0-9]+$`)

// validateSessionName checks that a stored seance session name is safe to
// hand to tmux.
func validateSessionName(stored string) error {
	if !validStoredNameRe.MatchString(stored) {
		return fmt.Errorf("%w %q: must match %s", ErrInvalidSessionName, stored, validStoredNameRe.String())
	}
	return nil
}

// StoredName converts a canonical "<name>:<id>" session name to the name
// the tmux server stores it under.
func StoredName(sessionName string) string {
	if i := strings.LastIndex(sessionName, canonicalSep); i >= 0 {
		return sessionName[:i] + storedSep + sessionName[i+1:]
	}
	return sessionName
}

// CanonicalName converts a stored tmux session name back to the canonical
// "<name>:<id>" form. Names without the separator pass through unchanged.
func CanonicalName(stored string) string {
	if i := strings.LastIndex(stored, storedSep); i >= 0 {
		return stored[:i] + canonicalSep + stored[i+1:]
	}
	return stored
}

// Tmux wraps tmux operations. An empty socket name targets the user's
// default tmux server.
type Tmux struct {
	socketName string // tmux socket name (-L flag), empty = default socket
}

// NewTmux creates a wrapper for the user's default tmux server.
func NewTmux() *Tmux {
	return &Tmux{}
}

// NewTmuxWithSocket creates a wrapper that targets a named socket. This
// connects to an isolated tmux server, separate from the user's default
// server. Primarily used in tests to prevent session name collisions.
func NewTmuxWithSocket(socket string) *Tmux {
	return &Tmux{socketName: socket}
}

// run executes a tmux command and returns stdout.
// All commands include the -u flag for UTF-8 support regardless of locale.
func (t *Tmux) run(args ...string) (string, error) {
	cmd := exec.Command("tmux", t.globalArgs(args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", t.wrapError(err, stderr.String(), args)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// globalArgs prepends the global flags: -u, and -L when a socket is set.
// Both must come before the subcommand.
func (t *Tmux) globalArgs(args ...string) []string {
	all := []string{"-u"}
	if t.socketName != "" {
		all = append(all, "-L", t.socketName)
	}
	return append(all, args...)
}

// wrapError wraps tmux errors with context.
func (t *Tmux) wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)

	// Detect specific error types
	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "no current target") ||
		strings.Contains(stderr, "server exited unexpectedly") {
		return ErrNoServer
	}
	if strings.Contains(stderr, "duplicate session") {
		return ErrSessionExists
	}
	if strings.Contains(stderr, "session not found") ||
		strings.Contains(stderr, "can't find session") {
		return ErrSessionNotFound
	}

	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", args[0], stderr)
	}
	return fmt.Errorf("tmux %s: %w", args[0], err)
}

// IsAvailable reports whether a tmux binary responds on this machine.
func (t *Tmux) IsAvailable() bool {
	cmd := exec.Command("tmux", "-V")
	return cmd.Run() == nil
}

// NewSeanceSession creates a detached session for a seance with its
// environment variables set via -e flags, so the initial shell and every
// hook invocation inside it inherit them. sessionName is the canonical
// "<name>:<id>" form. Requires tmux >= 3.2 for -e.
func (t *Tmux) NewSeanceSession(sessionName, workDir string, env map[string]string) error {
	stored := StoredName(sessionName)
	if err := validateSessionName(stored); err != nil {
		return err
	}
	if workDir != "" {
		info, err := os.Stat(workDir)
		if err != nil {
			return fmt.Errorf("invalid work directory %q: %w", workDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("work directory %q is not a directory", workDir)
		}
	}

	args := []string{"new-session", "-d", "-s", stored}
	if workDir != "" {
		args = append(args, "-c", workDir)
	}
	// Keys are sorted for deterministic commands.
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, env[k]))
	}
	if _, err := t.run(args...); err != nil {
		return err
	}
	// tmux 3.3+ sets window-size=manual on detached sessions (no client
	// present), which locks the window at 80x24 even after a client
	// attaches. Override to "latest" so the window auto-resizes to the
	// attaching client's terminal size.
	_, _ = t.run("set-option", "-wt", "="+stored, "window-size", "latest")
	return nil
}

// RespawnWithCommand replaces the session's initial shell with a command
// and verifies the command did not die immediately (binary not found,
// syntax error), so callers get an error instead of a silently dead
// session.
func (t *Tmux) RespawnWithCommand(sessionName, workDir, command string) error {
	stored := StoredName(sessionName)
	if err := validateSessionName(stored); err != nil {
		return err
	}

	// Enable remain-on-exit BEFORE the command runs so the exit status is
	// inspectable afterwards.
	_, _ = t.run("set-option", "-t", "="+stored, "remain-on-exit", "on")

	args := []string{"respawn-pane", "-k", "-t", "="+stored}
	if workDir != "" {
		args = append(args, "-c", workDir)
	}
	args = append(args, command)
	if _, err := t.run(args...); err != nil {
		return fmt.Errorf("starting command in session %q: %w", sessionName, err)
	}

	paneDead, _ := t.run("display-message", "-p", "-t", "="+stored, "#{pane_dead}")
	if strings.TrimSpace(paneDead) == "1" {
		status, _ := t.run("display-message", "-p", "-t", "="+stored, "#{pane_dead_status}")
		status = strings.TrimSpace(status)
		if status != "" && status != "0" {
			_ = t.KillSession(sessionName)
			return fmt.Errorf("session %q: command exited with status %s: %s", sessionName, status, command)
		}
	}
	return nil
}

// KillSession terminates a seance session. Idempotent: returns nil if the
// session is already gone or there is no tmux server.
func (t *Tmux) KillSession(sessionName string) error {
	_, err := t.run("kill-session", "-t", "="+StoredName(sessionName))
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrNoServer) {
		return nil
	}
	return err
}

// HasSession checks if a seance session exists (exact match).
// Uses the "=" prefix for exact matching, preventing prefix matches.
func (t *Tmux) HasSession(sessionName string) (bool, error) {
	_, err := t.run("has-session", "-t", "="+StoredName(sessionName))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrNoServer) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ActiveSessionNames returns all live session names in canonical form.
// No server means no sessions, not an error.
func (t *Tmux) ActiveSessionNames() ([]string, error) {
	out, err := t.run("list-sessions", "-F", "#{session_name}")
	if err != nil {
		if errors.Is(err, ErrNoServer) {
			return nil, nil
		}
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	stored := strings.Split(out, "\n")
	names := make([]string, 0, len(stored))
	for _, s := range stored {
		if s == "" {
			continue
		}
		names = append(names, CanonicalName(s))
	}
	return names, nil
}

// AttachSession attaches to a seance session in the foreground and blocks
// until the client detaches or the session ends. Returns the tmux client's
// exit code. Inside an existing tmux client it switches that client
// instead, since tmux refuses nested attaches.
func (t *Tmux) AttachSession(sessionName string) (int, error) {
	stored := StoredName(sessionName)
	if err := validateSessionName(stored); err != nil {
		return 1, err
	}

	if os.Getenv("TMUX") != "" {
		if _, err := t.run("switch-client", "-t", "="+stored); err != nil {
			return 1, err
		}
		return 0, nil
	}

	cmd := exec.Command("tmux", t.globalArgs("attach-session", "-t", "="+stored)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("tmux attach-session: %w", err)
	}
	return 0, nil
}

// DisplayMessage shows a message in the session's tmux status line.
// Non-disruptive: it does not interrupt the session's input.
// Duration is in milliseconds (-d, tmux 2.9+).
func (t *Tmux) DisplayMessage(sessionName, message string, durationMs int) error {
	_, err := t.run("display-message", "-t", "="+StoredName(sessionName), "-d", fmt.Sprintf("%d", durationMs), message)
	return err
}
