package cmd

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
	"golang.org/x/sync/errgroup"
)

var killAll bool

func init() {
	rootCmd.AddCommand(killCmd)

	killCmd.Flags().BoolVar(&killAll, "all", false, "Kill every seance")
}

var killCmd = &cobra.Command{
	Use:     "kill <id-or-name>",
	GroupID: GroupSeance,
	Short:   "Kill a seance's tmux session and delete its state",
	Long: `Kill a seance: end its tmux session and delete its state record.
The seance's listener notices the session is gone and retires on its own
within one liveness window.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKill,
}

func runKill(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if killAll {
		if len(args) > 0 {
			return errors.New("--all takes no arguments")
		}
		return killAllSeances(a)
	}

	if len(args) != 1 {
		return errors.New("kill needs a seance id or name, or --all")
	}
	sn, err := seance.Find(a.tmux, a.store, args[0])
	if err != nil {
		return err
	}
	if err := killSeance(a, sn); err != nil {
		return err
	}
	fmt.Printf("%s killed %s\n", style.SuccessPrefix, sn.SessionName)
	return nil
}

func killAllSeances(a *app) error {
	seances, err := a.loadSeances()
	if err != nil {
		return err
	}
	if len(seances) == 0 {
		fmt.Println("No seances.")
		return nil
	}

	// Teardowns run in parallel but failures only warn, so one stuck
	// session never shields the rest.
	var failed atomic.Int32
	g := new(errgroup.Group)
	g.SetLimit(8)
	for _, sn := range seances {
		g.Go(func() error {
			if err := killSeance(a, sn); err != nil {
				failed.Add(1)
				style.PrintWarning("%v", err)
				return nil
			}
			fmt.Printf("%s killed %s\n", style.SuccessPrefix, sn.SessionName)
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to kill %d of %d seances", n, len(seances))
	}
	return nil
}

func killSeance(a *app, sn seance.Seance) error {
	if err := a.tmux.KillSession(sn.SessionName); err != nil {
		return fmt.Errorf("killing %s: %w", sn.SessionName, err)
	}
	if err := os.Remove(a.store.Path(sn.ID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state for %s: %w", sn.ID, err)
	}
	return nil
}
