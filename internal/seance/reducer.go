package seance

import "github.com/vaxhacker/aineko/internal/constants"

// Directive is a notification the caller should emit after persisting a
// reduction. Title is the seance's display name from before the transition.
type Directive struct {
	Title string
	Body  string
}

// Default notification bodies when the event carries no usable message.
const (
	permissionBody = "needs your permission"
	stoppedBody    = "session stopped, ready for input"
)

// Reduce applies one incoming event to the persisted state and returns the
// next state plus the notification to emit, if any. Pure: no I/O, no clock,
// and no failure modes for well-formed input. Fields the event does not
// speak to pass through unchanged.
func Reduce(s State, e Event) (State, *Directive) {
	d := directiveFor(s, e)

	next := s
	next.LastMessage = e
	if tp := e.TranscriptPath(); tp != "" {
		next.TranscriptPath = tp
	}
	switch e.HookEventName() {
	case constants.HookSessionStart:
		next.ClaudeSessionID = e.SessionID()
	case constants.HookSessionEnd:
		next.ClaudeSessionID = ""
	}
	return next, d
}

// directiveFor decides the notification from the pre-transition state.
func directiveFor(s State, e Event) *Directive {
	switch e.HookEventName() {
	case constants.HookNotification:
		if e.NotificationType() != constants.NotifyPermissionPrompt {
			return nil
		}
		body := e.Message()
		if body == "" {
			body = permissionBody
		}
		return &Directive{Title: s.Name, Body: body}
	case constants.HookStop:
		return &Directive{Title: s.Name, Body: stoppedBody}
	}
	return nil
}
