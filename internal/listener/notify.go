package listener

import (
	"github.com/vaxhacker/aineko/internal/constants"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/tmux"
)

// TmuxNotifier shows directives as status-line banners on the seance's own
// session, so they appear wherever that session is attached without
// interrupting its input.
type TmuxNotifier struct {
	Tmux *tmux.Tmux

	// DurationMs is how long the banner stays visible. Defaults to
	// constants.DefaultDisplayMs.
	DurationMs int
}

func (n *TmuxNotifier) Notify(sessionName string, d seance.Directive) error {
	msg := d.Body
	if d.Title != "" {
		msg = d.Title + ": " + d.Body
	}
	ms := n.DurationMs
	if ms <= 0 {
		ms = constants.DefaultDisplayMs
	}
	return n.Tmux.DisplayMessage(sessionName, msg, ms)
}
