package seance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vaxhacker/aineko/internal/util"
)

// Store reads and writes one persisted State per seance id. At most one
// writer touches a given id at a time (the listener, or the creating command
// before any listener exists), so atomic whole-file replacement is the only
// coordination needed.
type Store struct {
	dir string

	// now is the clock used to stamp updatedAt. Overridable in tests.
	now func() time.Time
}

// NewStore returns a store rooted at dir, using the system clock.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory holding the state files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the state file path for a seance id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Read loads the state for id. A missing file is not an error: it returns
// (State{}, false, nil). A file that exists but cannot be read or decoded is
// a real error, never silently treated as absent.
func (s *Store) Read(id string) (State, bool, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("reading seance state %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, fmt.Errorf("decoding seance state %s: %w", id, err)
	}
	return st, true, nil
}

// Write persists the state for id, stamping updatedAt with the store clock
// regardless of what the caller set. The containing directory is created if
// missing and the prior record is replaced atomically.
func (s *Store) Write(id string, st State) error {
	st.UpdatedAt = FormatTime(s.now())
	if err := util.EnsureDirAndWriteJSON(s.Path(id), st); err != nil {
		return fmt.Errorf("writing seance state %s: %w", id, err)
	}
	return nil
}
