package seance

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreReadAbsent(t *testing.T) {
	store := NewStore(t.TempDir())

	st, ok, err := store.Read("nosuch")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Errorf("ok = true for absent seance, state = %+v", st)
	}
}

func TestStoreWriteStampsUpdatedAt(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 30, 0, 123_000_000, time.UTC)
	}

	if err := store.Write("x7k2p9", State{Name: "api"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	st, ok, err := store.Read("x7k2p9")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if st.UpdatedAt != "2026-03-01T10:30:00.123Z" {
		t.Errorf("updatedAt = %q, want %q", st.UpdatedAt, "2026-03-01T10:30:00.123Z")
	}
}

func TestStoreWriteOverridesCallerUpdatedAt(t *testing.T) {
	store := NewStore(t.TempDir())
	stamp := "2026-03-02T00:00:00.000Z"
	store.now = func() time.Time {
		return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	}

	// The store owns updatedAt; whatever the caller set loses.
	if err := store.Write("x7k2p9", State{Name: "api", UpdatedAt: "1999-01-01T00:00:00.000Z"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	st, _, err := store.Read("x7k2p9")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if st.UpdatedAt != stamp {
		t.Errorf("updatedAt = %q, want %q", st.UpdatedAt, stamp)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	in := State{
		Name:            "api",
		ProjectDir:      "/work/api",
		CreatedAt:       "2026-03-01T09:00:00.000Z",
		SocketPath:      "/tmp/aineko/x7k2p9.sock",
		TranscriptPath:  "/t/a.jsonl",
		ClaudeSessionID: "abc-123",
		LastMessage: Event{
			"hookEventName": "Notification",
			"custom":        "survives",
		},
	}
	if err := store.Write("x7k2p9", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, ok, err := store.Read("x7k2p9")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if out.Name != in.Name || out.ProjectDir != in.ProjectDir || out.CreatedAt != in.CreatedAt {
		t.Errorf("identity fields: got %+v", out)
	}
	if out.ClaudeSessionID != in.ClaudeSessionID || out.TranscriptPath != in.TranscriptPath {
		t.Errorf("binding fields: got %+v", out)
	}
	if out.LastMessage["custom"] != "survives" {
		t.Errorf("lastMessage.custom = %v, want %q", out.LastMessage["custom"], "survives")
	}
}

func TestStoreReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "x7k2p9.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := store.Read("x7k2p9")
	if err == nil {
		t.Error("Read on corrupt file: err = nil, want error")
	}
}

func TestStorePath(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	want := filepath.Join(dir, "x7k2p9.json")
	if got := store.Path("x7k2p9"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "seances")
	store := NewStore(dir)

	if err := store.Write("x7k2p9", State{Name: "api"}); err != nil {
		t.Fatalf("Write into missing dir: %v", err)
	}
	if _, err := os.Stat(store.Path("x7k2p9")); err != nil {
		t.Errorf("state file not created: %v", err)
	}
}
