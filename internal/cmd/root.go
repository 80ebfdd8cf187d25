// Package cmd implements the aineko command line interface.
package cmd

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/config"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
	"github.com/vaxhacker/aineko/internal/tmux"
	"github.com/vaxhacker/aineko/internal/tui"
	"golang.org/x/term"
)

// Command group IDs for help output.
const (
	GroupSeance = "seance"
	GroupSetup  = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "aineko",
	Short: "Track and attend interactive agent sessions in tmux",
	Long: `aineko manages seances: interactive agent sessions running in tmux.

Each seance is one tmux session. A per-seance listener receives Claude
Code hook events over a unix socket, folds them into a small state file,
and derives an attention status: waiting (blocked on you), idle (ready
for input), working, or unknown.

Run aineko with no arguments for the interactive picker, sorted so the
seances that need you come first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSeance, Title: "Seance Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup & Diagnostics:"},
	)
}

// app bundles the dependencies every command wires at startup.
type app struct {
	cfg   config.Config
	store *seance.Store
	tmux  *tmux.Tmux
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		store: seance.NewStore(cfg.StateDir),
		tmux:  tmux.NewTmux(),
	}, nil
}

// loadSeances is the refresh callback handed to the interactive views.
func (a *app) loadSeances() ([]seance.Seance, error) {
	return seance.List(a.tmux, a.store)
}

// socketPath resolves the listener socket for a seance, preferring the
// path recorded at creation over the configured default.
func (a *app) socketPath(sn seance.Seance) string {
	if sn.HasState && sn.State.SocketPath != "" {
		return sn.State.SocketPath
	}
	return config.SocketPath(a.cfg.SocketDir, sn.ID)
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		seances, err := a.loadSeances()
		if err != nil {
			return err
		}
		return printSeanceTable(os.Stdout, seances)
	}

	p := tea.NewProgram(tui.NewPicker(a.loadSeances), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	picker, ok := final.(tui.Picker)
	if !ok {
		return nil
	}
	sn, ok := picker.Selected()
	if !ok {
		return nil
	}
	return openSeance(a, sn)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		style.PrintError("%v", err)
		os.Exit(1)
	}
}
