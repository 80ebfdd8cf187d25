package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vaxhacker/aineko/internal/constants"
)

func eventEntries(t *testing.T, doc map[string]any, event string) []any {
	t.Helper()
	hooks, ok := doc["hooks"].(map[string]any)
	if !ok {
		t.Fatalf("no hooks object in %v", doc)
	}
	entries, ok := hooks[event].([]any)
	if !ok {
		t.Fatalf("no entry list for %s", event)
	}
	return entries
}

func TestMergeEmptyDoc(t *testing.T) {
	events := []string{"Stop", "Notification"}
	got := Merge(nil, events)

	for _, event := range events {
		entries := eventEntries(t, got, event)
		if len(entries) != 1 {
			t.Fatalf("%s: %d entries, want 1", event, len(entries))
		}
		if !hasHandleCommand(entries) {
			t.Errorf("%s: descriptor missing the handle command", event)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	events := constants.HookEvents()
	once := Merge(nil, events)
	twice := Merge(once, events)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-merge changed the document:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestMergePreservesUnrelatedContent(t *testing.T) {
	foreign := map[string]any{
		"hooks": []any{
			map[string]any{"type": "command", "command": "say done"},
		},
	}
	doc := map[string]any{
		"model": "opus",
		"env":   map[string]any{"FOO": "bar"},
		"hooks": map[string]any{
			"PreCompact": []any{foreign},
			"Stop":       []any{foreign},
		},
	}

	got := Merge(doc, []string{"Stop"})

	if got["model"] != "opus" {
		t.Errorf("model = %v, want opus", got["model"])
	}
	if env, ok := got["env"].(map[string]any); !ok || env["FOO"] != "bar" {
		t.Errorf("env clobbered: %v", got["env"])
	}

	// An event not named stays byte-for-byte.
	pre := eventEntries(t, got, "PreCompact")
	if len(pre) != 1 || !reflect.DeepEqual(pre[0], foreign) {
		t.Errorf("PreCompact entries changed: %v", pre)
	}

	// The named event keeps the user's entry first, ours appended after.
	stop := eventEntries(t, got, "Stop")
	if len(stop) != 2 {
		t.Fatalf("Stop: %d entries, want 2", len(stop))
	}
	if !reflect.DeepEqual(stop[0], foreign) {
		t.Errorf("user entry no longer first: %v", stop[0])
	}
	if !hasHandleCommand([]any{stop[1]}) {
		t.Errorf("appended entry is not the aineko descriptor: %v", stop[1])
	}
}

func TestMergeSkipsEventsAlreadyInstalled(t *testing.T) {
	doc := Merge(nil, []string{"Stop"})
	got := Merge(doc, []string{"Stop", "Notification"})

	if entries := eventEntries(t, got, "Stop"); len(entries) != 1 {
		t.Errorf("Stop: %d entries after re-merge, want 1", len(entries))
	}
	if entries := eventEntries(t, got, "Notification"); len(entries) != 1 {
		t.Errorf("Notification: %d entries, want 1", len(entries))
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	doc := map[string]any{
		"hooks": map[string]any{
			"Stop": []any{
				map[string]any{"type": "command", "command": "say done"},
			},
		},
	}
	before, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	Merge(doc, constants.HookEvents())

	after, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("input mutated:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestInstallCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude", "settings.json")

	backup, err := Install(path, []string{"Stop"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if backup != "" {
		t.Errorf("backup = %q, want none for a missing file", backup)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading installed settings: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("installed settings are not valid JSON: %v", err)
	}
	if !hasHandleCommand(eventEntries(t, doc, "Stop")) {
		t.Error("installed settings missing the handle command")
	}
}

func TestInstallBacksUpExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	original := []byte(`{"model": "opus"}`)
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	backup, err := Install(path, []string{"Stop"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if backup == "" {
		t.Fatal("no backup path for an existing file")
	}
	if !strings.Contains(backup, ".bak.") {
		t.Errorf("backup path %q missing .bak. marker", backup)
	}

	saved, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(saved) != string(original) {
		t.Errorf("backup = %s, want the pre-merge bytes %s", saved, original)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["model"] != "opus" {
		t.Errorf("model = %v after install, want opus", doc["model"])
	}
	if !hasHandleCommand(eventEntries(t, doc, "Stop")) {
		t.Error("merged settings missing the handle command")
	}
}

func TestInstallRerunKeepsSettingsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	events := constants.HookEvents()

	if _, err := Install(path, events); err != nil {
		t.Fatalf("first Install: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Install(path, events); err != nil {
		t.Fatalf("second Install: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("re-install changed the settings document")
	}
}

func TestInstallRejectsCorruptSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(path, []string{"Stop"}); err == nil {
		t.Error("Install on corrupt settings: err = nil, want error")
	}
}
