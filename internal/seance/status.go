package seance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vaxhacker/aineko/internal/constants"
)

// Status is the derived attention state of a seance.
type Status int

const (
	// StatusWaiting means the agent is blocked on a permission decision.
	StatusWaiting Status = iota
	// StatusIdle means the agent is ready for input.
	StatusIdle
	// StatusWorking means the agent is actively processing.
	StatusWorking
	// StatusUnknown means no event has been received yet.
	StatusUnknown
)

var statusNames = map[Status]string{
	StatusWaiting: "waiting",
	StatusIdle:    "idle",
	StatusWorking: "working",
	StatusUnknown: "unknown",
}

var statusFromName = map[string]Status{
	"waiting": StatusWaiting,
	"idle":    StatusIdle,
	"working": StatusWorking,
	"unknown": StatusUnknown,
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON encodes the status as its lowercase name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase status name; unrecognized names map to
// StatusUnknown rather than failing the whole document.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if st, ok := statusFromName[name]; ok {
		*s = st
	} else {
		*s = StatusUnknown
	}
	return nil
}

// DeriveStatus computes the attention status from a persisted state.
// The rules are ordered; the first match wins:
//
//  1. no event received yet -> unknown
//  2. Notification/permission_prompt -> waiting
//  3. Notification/idle_prompt -> idle
//  4. Stop, SubagentStop, or SessionStart -> idle
//  5. no bound agent session -> idle
//  6. otherwise -> working
//
// Rule 4 outranks the bound-session check on purpose: SessionStart binds the
// session id in the same reduction, but a session that just started is idle,
// not working.
func DeriveStatus(s State) Status {
	msg := s.LastMessage
	if msg == nil {
		return StatusUnknown
	}
	name := msg.HookEventName()
	if name == constants.HookNotification {
		switch msg.NotificationType() {
		case constants.NotifyPermissionPrompt:
			return StatusWaiting
		case constants.NotifyIdlePrompt:
			return StatusIdle
		}
	}
	switch name {
	case constants.HookStop, constants.HookSubagentStop, constants.HookSessionStart:
		return StatusIdle
	}
	if s.ClaudeSessionID == "" {
		return StatusIdle
	}
	return StatusWorking
}

// statusPriority maps a status to its sort rank. Anything outside the known
// set sorts after unknown.
func statusPriority(s Status) int {
	switch s {
	case StatusWaiting:
		return 0
	case StatusIdle:
		return 1
	case StatusWorking:
		return 2
	case StatusUnknown:
		return 3
	default:
		return 4
	}
}

// sortStamp picks the timestamp used for recency ordering: updatedAt when
// present, else createdAt, else the empty string (which sorts least recent).
func sortStamp(s State) string {
	if s.UpdatedAt != "" {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// Compare orders seances for display: most urgent status first, and within
// one status most recently updated first. Timestamps compare as plain
// strings; the fixed-width UTC layout makes that equivalent to chronological
// order. Returns <0 when a sorts before b.
func Compare(a, b Seance) int {
	pa, pb := statusPriority(a.Status), statusPriority(b.Status)
	if pa != pb {
		return pa - pb
	}
	// Descending recency: the later stamp wins the earlier slot.
	return strings.Compare(sortStamp(b.State), sortStamp(a.State))
}
