// Package listener implements the per-seance unix socket listener and
// watchdog. One listener owns one socket: it accepts single-shot event
// connections from hook handlers inside the seance session, folds each event
// into the persisted state, and retires itself once the session disappears.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/vaxhacker/aineko/internal/constants"
	"github.com/vaxhacker/aineko/internal/seance"
)

// Notifier delivers a reducer directive to the user. Production wiring uses
// the tmux status line; tests substitute fakes.
type Notifier interface {
	Notify(sessionName string, d seance.Directive) error
}

// Config carries everything a listener needs. SeanceID, SessionName,
// SocketPath, Store, and Registry are required; the rest default.
type Config struct {
	// SeanceID keys the persisted state this listener owns.
	SeanceID string

	// SessionName is the canonical "<name>:<id>" session name whose
	// liveness decides retirement.
	SessionName string

	// SocketPath is the unix socket to bind. Exactly one listener may own
	// a path at a time.
	SocketPath string

	// Liveness is how long an accept waits before the session registry is
	// polled. Defaults to constants.DefaultLivenessInterval.
	Liveness time.Duration

	Store    *seance.Store
	Registry seance.Registry

	// Notifier receives directives; nil disables notification.
	Notifier Notifier

	// Logger defaults to stderr with a per-seance prefix.
	Logger *log.Logger
}

// Listener is the running watchdog for one seance.
type Listener struct {
	cfg    Config
	logger *log.Logger
}

// New validates cfg and fills defaults.
func New(cfg Config) (*Listener, error) {
	if cfg.SeanceID == "" {
		return nil, errors.New("listener: seance id required")
	}
	if cfg.SessionName == "" {
		return nil, errors.New("listener: session name required")
	}
	if cfg.SocketPath == "" {
		return nil, errors.New("listener: socket path required")
	}
	if cfg.Store == nil {
		return nil, errors.New("listener: store required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("listener: registry required")
	}
	if cfg.Liveness <= 0 {
		cfg.Liveness = constants.DefaultLivenessInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, fmt.Sprintf("[seance %s] ", cfg.SeanceID), log.LstdFlags)
	}
	return &Listener{cfg: cfg, logger: logger}, nil
}

// Run binds the socket and serves until the owning session disappears or
// ctx is cancelled. A bind failure (including a second listener on an
// already-owned path) is fatal and returned; everything after a successful
// bind is recoverable and logged, so one malformed payload never kills the
// watchdog.
//
// Each loop iteration arms a fresh accept deadline. A connection wins the
// iteration and is processed; a deadline expiry instead polls the session
// registry, retiring the listener when its session is no longer listed.
// Exactly one of the two happens per iteration.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := bindSocket(l.cfg.SocketPath)
	if err != nil {
		return err
	}
	defer l.retire(ln)

	l.logger.Printf("listening on %s", l.cfg.SocketPath)
	for {
		if err := ctx.Err(); err != nil {
			l.logger.Printf("cancelled, retiring")
			return err
		}
		if err := ln.SetDeadline(time.Now().Add(l.cfg.Liveness)); err != nil {
			return fmt.Errorf("arming accept deadline: %w", err)
		}

		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				alive, checkErr := l.sessionAlive()
				if checkErr != nil {
					// A registry hiccup is not evidence of session
					// death; keep serving and check again next window.
					l.logger.Printf("liveness check: %v", checkErr)
					continue
				}
				if !alive {
					l.logger.Printf("session %s gone, retiring", l.cfg.SessionName)
					return nil
				}
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		l.handleConn(conn)
	}
}

// handleConn reads one event payload (sender closes after writing, so read
// to EOF), decodes it, and applies it. Faults are logged, never fatal.
func (l *Listener) handleConn(conn net.Conn) {
	defer conn.Close()

	data, err := io.ReadAll(conn)
	if err != nil {
		l.logger.Printf("reading event payload: %v", err)
		return
	}

	var ev seance.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		l.logger.Printf("decoding event: %v", err)
		return
	}
	l.apply(ev)
}

// apply folds one event into the persisted state and executes the
// resulting directive, if any.
func (l *Listener) apply(ev seance.Event) {
	st, _, err := l.cfg.Store.Read(l.cfg.SeanceID)
	if err != nil {
		// An unreadable record is logged and rebuilt from empty rather
		// than wedging the pipeline until someone repairs the file.
		l.logger.Printf("reading state: %v", err)
		st = seance.State{}
	}

	next, directive := seance.Reduce(st, ev)
	if err := l.cfg.Store.Write(l.cfg.SeanceID, next); err != nil {
		l.logger.Printf("persisting state: %v", err)
	}

	if directive != nil && l.cfg.Notifier != nil {
		if err := l.cfg.Notifier.Notify(l.cfg.SessionName, *directive); err != nil {
			l.logger.Printf("notifying: %v", err)
		}
	}
}

// sessionAlive reports whether the owning session is still listed.
func (l *Listener) sessionAlive() (bool, error) {
	names, err := l.cfg.Registry.ActiveSessionNames()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == l.cfg.SessionName {
			return true, nil
		}
	}
	return false, nil
}

// retire closes the socket and removes its file. Terminal: a retired
// listener never restarts; a later attach creates a new one.
func (l *Listener) retire(ln *net.UnixListener) {
	_ = ln.Close()
	_ = os.Remove(l.cfg.SocketPath)
}
