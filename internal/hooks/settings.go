// Package hooks installs the Claude Code hook descriptors that forward
// events to aineko. The settings document belongs to the user and carries
// keys aineko knows nothing about, so it is handled as a generic JSON
// object and only the entries for the named events are ever touched.
package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vaxhacker/aineko/internal/constants"
	"github.com/vaxhacker/aineko/internal/util"
)

// backupTimeLayout stamps settings backups, UTC.
const backupTimeLayout = "20060102T150405Z"

// descriptor returns the hook entry aineko installs for one event: a
// group whose single command pipes the event payload to `aineko handle`.
func descriptor() map[string]any {
	return map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": constants.HandleCommand,
			},
		},
	}
}

// hasHandleCommand reports whether an event's entry list already carries
// the aineko command somewhere in its nested hook groups.
func hasHandleCommand(entries []any) bool {
	for _, item := range entries {
		group, ok := item.(map[string]any)
		if !ok {
			continue
		}
		inner, ok := group["hooks"].([]any)
		if !ok {
			continue
		}
		for _, h := range inner {
			hm, ok := h.(map[string]any)
			if !ok {
				continue
			}
			if cmd, _ := hm["command"].(string); cmd == constants.HandleCommand {
				return true
			}
		}
	}
	return false
}

// Merge returns a copy of doc with the aineko descriptor present under
// each named event. Events already carrying the command are left alone,
// so re-merging never duplicates; new descriptors are appended after
// whatever entries the user already has. Top-level keys and events not
// named are passed through untouched. The input document is not mutated.
func Merge(doc map[string]any, events []string) map[string]any {
	out := deepCopy(doc)
	if out == nil {
		out = map[string]any{}
	}

	hooks, ok := out["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		out["hooks"] = hooks
	}

	for _, event := range events {
		entries, _ := hooks[event].([]any)
		if hasHandleCommand(entries) {
			continue
		}
		hooks[event] = append(entries, descriptor())
	}
	return out
}

// deepCopy clones a decoded JSON object.
func deepCopy(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// DefaultSettingsPath returns the Claude Code settings document aineko
// installs its hooks into.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// Install merges the aineko descriptors for events into the settings file
// at path and rewrites it atomically. A missing file starts from an empty
// document; an existing one is first copied to `<path>.bak.<timestamp>`.
// Returns the backup path, empty when there was nothing to back up.
func Install(path string, events []string) (string, error) {
	data, err := os.ReadFile(path)
	exists := err == nil
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading settings: %w", err)
		}
		data = []byte("{}")
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing settings %s: %w", path, err)
	}

	merged := Merge(doc, events)

	backup := ""
	if exists {
		backup = fmt.Sprintf("%s.bak.%s", path, time.Now().UTC().Format(backupTimeLayout))
		if err := os.WriteFile(backup, data, constants.FilePerm); err != nil {
			return "", fmt.Errorf("backing up settings: %w", err)
		}
	}

	if err := util.EnsureDirAndWriteJSON(path, merged); err != nil {
		return backup, fmt.Errorf("writing settings: %w", err)
	}
	return backup, nil
}
