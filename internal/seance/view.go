package seance

import (
	"errors"
	"fmt"
	"sort"
)

// Registry lists the live tmux session names. Implemented by the tmux
// wrapper; tests substitute fakes.
type Registry interface {
	ActiveSessionNames() ([]string, error)
}

// ErrNotFound is returned when no live seance matches a lookup key.
var ErrNotFound = errors.New("seance not found")

// Seance is the assembled view of one live seance: identity recomputed from
// the session name, the persisted state (possibly absent), and the derived
// status. Views are built fresh on every listing and never persisted.
type Seance struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SessionName string `json:"sessionName"`
	Status      Status `json:"status"`
	State       State  `json:"state"`

	// HasState distinguishes a zero-valued state from a missing record.
	HasState bool `json:"-"`

	// Err carries a per-seance state read failure without aborting the
	// listing that produced this view.
	Err error `json:"-"`
}

// List assembles the current seances: every live session whose name parses
// as "<name>:<id>", joined with its persisted state and sorted by Compare.
// A corrupt state file marks that one seance (Err set, status unknown)
// instead of failing the whole listing; only a registry failure is fatal.
func List(reg Registry, store *Store) ([]Seance, error) {
	sessions, err := reg.ActiveSessionNames()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var out []Seance
	for _, session := range sessions {
		ident, ok := ParseSessionName(session)
		if !ok {
			continue
		}
		sn := Seance{
			ID:          ident.ID,
			Name:        ident.Name,
			SessionName: ident.SessionName(),
			Status:      StatusUnknown,
		}
		st, has, err := store.Read(ident.ID)
		if err != nil {
			sn.Err = err
		} else {
			sn.State = st
			sn.HasState = has
			sn.Status = DeriveStatus(st)
		}
		out = append(out, sn)
	}

	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out, nil
}

// Find resolves a seance by id, or by name when the name is unambiguous.
func Find(reg Registry, store *Store, key string) (Seance, error) {
	seances, err := List(reg, store)
	if err != nil {
		return Seance{}, err
	}

	for _, sn := range seances {
		if sn.ID == key {
			return sn, nil
		}
	}

	var byName []Seance
	for _, sn := range seances {
		if sn.Name == key {
			byName = append(byName, sn)
		}
	}
	switch len(byName) {
	case 0:
		return Seance{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	case 1:
		return byName[0], nil
	default:
		return Seance{}, fmt.Errorf("name %q matches %d seances, use an id", key, len(byName))
	}
}
