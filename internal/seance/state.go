package seance

import "time"

// TimeLayout is the fixed-width ISO-8601 UTC instant format used for all
// persisted timestamps. Fixed width keeps lexicographic order identical to
// chronological order, which the display comparator relies on.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout, normalized to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// State is the persisted record for one seance, keyed by id. All fields
// besides the two timestamps are optional in the file; additive fields must
// stay optional so older records keep decoding.
type State struct {
	// Name is the display name, duplicated from the session name so the
	// record is self-describing after the session is gone.
	Name string `json:"name,omitempty"`

	// ProjectDir is the absolute path the seance was created in.
	ProjectDir string `json:"projectDir,omitempty"`

	// CreatedAt is set once by the creating command.
	CreatedAt string `json:"createdAt,omitempty"`

	// UpdatedAt is stamped by the store on every write, unconditionally
	// overwriting any caller-supplied value.
	UpdatedAt string `json:"updatedAt,omitempty"`

	// SocketPath is where this seance's listener binds.
	SocketPath string `json:"socketPath,omitempty"`

	// LastMessage is the last raw event received, nil before the first one.
	LastMessage Event `json:"lastMessage,omitempty"`

	// TranscriptPath is the most recent transcript location reported by any
	// event.
	TranscriptPath string `json:"transcriptPath,omitempty"`

	// ClaudeSessionID is the agent runtime's session id. Presence (non-empty)
	// is the "agent actively bound" signal; SessionEnd clears it.
	ClaudeSessionID string `json:"claudeSessionId,omitempty"`
}
