package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/constants"
	"github.com/vaxhacker/aineko/internal/listener"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:    "listen <seance-id>",
	Hidden: true,
	Short:  "Run the listener for one seance in the foreground",
	Long: `Run the event listener and watchdog for one live seance. This is
what open starts as a detached process; running it by hand is only
useful for debugging.`,
	Args: cobra.ExactArgs(1),
	RunE: runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	sn, err := seance.Find(a.tmux, a.store, args[0])
	if err != nil {
		return err
	}

	l, err := listener.New(listener.Config{
		SeanceID:    sn.ID,
		SessionName: sn.SessionName,
		SocketPath:  a.socketPath(sn),
		Liveness:    a.cfg.LivenessInterval(),
		Store:       a.store,
		Registry:    a.tmux,
		Notifier:    &listener.TmuxNotifier{Tmux: a.tmux, DurationMs: a.cfg.NotifyDurationMs},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// spawnListener starts `aineko listen <id>` as a detached child in its own
// session, with its output in a per-seance log file. The child outlives
// this process, which is what keeps events flowing after open exits.
func spawnListener(a *app, sn seance.Seance) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating aineko binary: %w", err)
	}

	if err := os.MkdirAll(a.cfg.SocketDir, constants.DirPerm); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}
	logPath := filepath.Join(a.cfg.SocketDir, sn.ID+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePerm)
	if err != nil {
		return fmt.Errorf("opening listener log: %w", err)
	}
	defer logFile.Close()

	child := exec.Command(exe, "listen", sn.ID)
	child.Stdout = logFile
	child.Stderr = logFile
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting listener: %w", err)
	}
	if err := child.Process.Release(); err != nil {
		return fmt.Errorf("detaching listener: %w", err)
	}

	waitForListener(a.socketPath(sn), sn.ID, logPath)
	return nil
}

// waitForListener gives the spawned listener a moment to bind before the
// attach hides any startup trouble. Not binding in time is worth a
// warning, never a failed open.
func waitForListener(socketPath, id, logPath string) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if listener.CheckSocket(socketPath) == listener.SocketActive {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	style.PrintWarning("listener for %s has not bound its socket yet, see %s", id, logPath)
}
