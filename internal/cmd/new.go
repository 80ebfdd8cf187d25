package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/config"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

var (
	newDetach  bool
	newCommand string
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newDetach, "detach", false, "Create without attaching")
	newCmd.Flags().StringVar(&newCommand, "command", "", "Run this command in the session instead of a shell")
}

var newCmd = &cobra.Command{
	Use:     "new [name]",
	GroupID: GroupSeance,
	Short:   "Create a seance",
	Long: `Create a seance: a tmux session named <name>:<id> with the aineko
socket environment injected, plus its initial state record.

The name defaults to the current directory's basename. The new session
runs your shell unless --command is given; either way, start your agent
inside it and hook events begin flowing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		name = defaultSeanceName(cwd)
	}

	ident, err := seance.NewIdentity(name)
	if err != nil {
		return err
	}
	socketPath := config.SocketPath(a.cfg.SocketDir, ident.ID)

	st := seance.State{
		Name:       ident.Name,
		ProjectDir: cwd,
		CreatedAt:  seance.FormatTime(time.Now()),
		SocketPath: socketPath,
	}
	if err := a.store.Write(ident.ID, st); err != nil {
		return err
	}

	env := config.SeanceEnv(ident.ID, socketPath)
	if err := a.tmux.NewSeanceSession(ident.SessionName(), cwd, env); err != nil {
		removeState(a, ident.ID)
		return err
	}

	if newCommand != "" {
		if err := a.tmux.RespawnWithCommand(ident.SessionName(), cwd, newCommand); err != nil {
			removeState(a, ident.ID)
			return err
		}
	}

	fmt.Printf("%s created seance %s\n", style.SuccessPrefix, style.Bold.Render(ident.SessionName()))

	if newDetach {
		fmt.Println(dimHint("aineko open " + ident.ID))
		return nil
	}

	sn := seance.Seance{
		ID:          ident.ID,
		Name:        ident.Name,
		SessionName: ident.SessionName(),
		Status:      seance.StatusUnknown,
		State:       st,
		HasState:    true,
	}
	return openSeance(a, sn)
}

// defaultSeanceName derives a session-safe name from a directory path.
func defaultSeanceName(dir string) string {
	name := filepath.Base(dir)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "seance"
	}
	return name
}

// removeState cleans up the state record written before session creation
// failed.
func removeState(a *app, id string) {
	if err := os.Remove(a.store.Path(id)); err != nil && !os.IsNotExist(err) {
		style.PrintWarning("could not remove state for %s: %v", id, err)
	}
}

func dimHint(cmdline string) string {
	return style.Dim.Render("  attach later with `" + cmdline + "`")
}
