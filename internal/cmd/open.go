package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/config"
	"github.com/vaxhacker/aineko/internal/listener"
	"github.com/vaxhacker/aineko/internal/seance"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:     "open <id-or-name>",
	GroupID: GroupSeance,
	Short:   "Attach to a seance, starting its listener if needed",
	Long: `Attach to a live seance by id, or by name when the name is
unambiguous.

If no listener owns the seance's socket, a detached one is started first,
so hook events keep landing after you detach from tmux and after this
command exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	sn, err := seance.Find(a.tmux, a.store, args[0])
	if err != nil {
		return err
	}
	return openSeance(a, sn)
}

// openSeance ensures a state record and a live listener exist for the
// seance, then attaches the terminal to its tmux session.
func openSeance(a *app, sn seance.Seance) error {
	if !sn.HasState {
		// A session created outside `aineko new`, or whose record was
		// deleted, gets a minimal one so events have somewhere to land.
		st := seance.State{
			Name:       sn.Name,
			CreatedAt:  seance.FormatTime(time.Now()),
			SocketPath: config.SocketPath(a.cfg.SocketDir, sn.ID),
		}
		if err := a.store.Write(sn.ID, st); err != nil {
			return err
		}
		sn.State = st
		sn.HasState = true
	}

	// An active socket means a listener already owns this seance; a stale
	// or missing one means we start a fresh listener, which clears any
	// leftover socket file when it binds.
	if listener.CheckSocket(a.socketPath(sn)) != listener.SocketActive {
		if err := spawnListener(a, sn); err != nil {
			return err
		}
	}

	code, err := a.tmux.AttachSession(sn.SessionName)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("tmux attach exited with status %d", code)
	}
	return nil
}
