package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/constants"
	"github.com/vaxhacker/aineko/internal/tui"
)

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", constants.DefaultWatchInterval,
		"Fallback refresh interval")
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: GroupSeance,
	Short:   "Watch seances live",
	Long: `Show the seance listing in a full-screen view that refreshes as
state files change, with a periodic fallback tick.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if watchInterval <= 0 {
		watchInterval = constants.DefaultWatchInterval
	}

	// The state dir may not exist before the first seance; watch needs it
	// on disk either way.
	if err := os.MkdirAll(a.cfg.StateDir, constants.DirPerm); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(a.cfg.StateDir); err != nil {
		return fmt.Errorf("watching %s: %w", a.cfg.StateDir, err)
	}

	p := tea.NewProgram(tui.NewWatch(a.loadSeances, watcher, watchInterval), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
