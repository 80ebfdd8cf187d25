// Package seance implements the session state and event pipeline: seance
// identity, the persisted per-seance state record, the event reducer, the
// status derivation rules, and the display ordering.
package seance

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/vaxhacker/aineko/internal/constants"
)

// ErrInvalidName is returned when a seance name is empty or contains ':'.
var ErrInvalidName = errors.New("seance name must be non-empty and must not contain ':'")

// idRe matches seance ids embedded in tmux session names. The generator
// always emits fixed-length ids, but the parser accepts any length so that
// sessions created by older builds keep resolving.
var idRe = regexp.MustCompile(`^[a-z0-9]+$`)

// Identity identifies one seance. It is derived from the live tmux session
// name on every lookup and never persisted.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionName returns the tmux session name for this identity.
func (i Identity) SessionName() string {
	return i.Name + ":" + i.ID
}

// ParseSessionName splits a tmux session name of the form "<name>:<id>" into
// an Identity. The second return is false for session names that are not
// seances (no separator, empty name, or an id outside [a-z0-9]+).
func ParseSessionName(session string) (Identity, bool) {
	name, id, found := strings.Cut(session, ":")
	if !found || name == "" || !idRe.MatchString(id) {
		return Identity{}, false
	}
	return Identity{ID: id, Name: name}, true
}

// NewIdentity validates the name and pairs it with a freshly generated id.
func NewIdentity(name string) (Identity, error) {
	if name == "" || strings.Contains(name, ":") {
		return Identity{}, ErrInvalidName
	}
	return Identity{ID: generateID(), Name: name}, nil
}

// generateID returns a fixed-length lowercase-alphanumeric id. UUID hex
// characters keep it inside the [a-z0-9] charset the parser requires.
func generateID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:constants.IDLength]
}
