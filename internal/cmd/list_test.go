package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vaxhacker/aineko/internal/seance"
)

func TestPrintSeanceTableEmpty(t *testing.T) {
	var buf strings.Builder
	if err := printSeanceTable(&buf, nil); err != nil {
		t.Fatalf("printSeanceTable: %v", err)
	}
	if got := buf.String(); got != "No seances.\n" {
		t.Errorf("empty table = %q, want %q", got, "No seances.\n")
	}
}

func TestPrintSeanceTableColumns(t *testing.T) {
	seances := []seance.Seance{
		{
			ID:          "x7k2p9",
			Name:        "api",
			SessionName: "api:x7k2p9",
			Status:      seance.StatusWaiting,
			State:       seance.State{Name: "api", ProjectDir: "/home/dev/api"},
			HasState:    true,
		},
		{
			ID:          "m3n8q1",
			Name:        "web",
			SessionName: "web:m3n8q1",
			Status:      seance.StatusUnknown,
			Err:         errors.New("unexpected end of JSON input"),
		},
	}

	var buf strings.Builder
	if err := printSeanceTable(&buf, seances); err != nil {
		t.Fatalf("printSeanceTable: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "STATUS") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"waiting", "api", "x7k2p9", "/home/dev/api"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
	if !strings.Contains(lines[2], "state unreadable") {
		t.Errorf("corrupt-state row %q should flag the state", lines[2])
	}
}

func TestPrintSeanceJSONEmptyIsArray(t *testing.T) {
	var buf strings.Builder
	if err := printSeanceJSON(&buf, nil); err != nil {
		t.Fatalf("printSeanceJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty listing = %q, want []", got)
	}
}

func TestPrintSeanceJSONRoundTrips(t *testing.T) {
	seances := []seance.Seance{
		{
			ID:          "x7k2p9",
			Name:        "api",
			SessionName: "api:x7k2p9",
			Status:      seance.StatusIdle,
			State:       seance.State{Name: "api"},
			HasState:    true,
		},
	}

	var buf strings.Builder
	if err := printSeanceJSON(&buf, seances); err != nil {
		t.Fatalf("printSeanceJSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d entries, want 1", len(decoded))
	}
	if decoded[0]["status"] != "idle" {
		t.Errorf("status = %v, want idle", decoded[0]["status"])
	}
	if decoded[0]["sessionName"] != "api:x7k2p9" {
		t.Errorf("sessionName = %v", decoded[0]["sessionName"])
	}
}

func TestListCommandRegistration(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "list" {
			found = true
			if cmd.GroupID != GroupSeance {
				t.Errorf("list command group = %q, want %q", cmd.GroupID, GroupSeance)
			}
			break
		}
	}
	if !found {
		t.Error("list command not registered on root command")
	}
}
