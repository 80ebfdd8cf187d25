package seance

// Event is one hook payload as received over the socket. Hook payloads are
// externally defined and gain fields over time, so the representation is a
// plain JSON object: unknown fields round-trip through decode, reduce, and
// persist without loss. The accessors below cover the recognized fields;
// each returns the zero value when the field is absent or not a string.
type Event map[string]any

// str returns the named field when it is a string, else "".
func (e Event) str(key string) string {
	if e == nil {
		return ""
	}
	s, _ := e[key].(string)
	return s
}

// HookEventName returns the hook event name, e.g. "Notification" or "Stop".
func (e Event) HookEventName() string { return e.str("hookEventName") }

// NotificationType returns the notification subtype for Notification events.
func (e Event) NotificationType() string { return e.str("notificationType") }

// Message returns the human-readable message carried by the event.
func (e Event) Message() string { return e.str("message") }

// SessionID returns the agent runtime's session id, set by SessionStart.
func (e Event) SessionID() string { return e.str("sessionId") }

// TranscriptPath returns the transcript file path if the event carries one.
func (e Event) TranscriptPath() string { return e.str("transcriptPath") }
