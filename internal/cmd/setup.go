package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/hooks"
	"github.com/vaxhacker/aineko/internal/style"
)

var setupSettingsPath string

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupSettingsPath, "settings", "", "Settings file to modify (default ~/.claude/settings.json)")
}

var setupCmd = &cobra.Command{
	Use:     "setup",
	GroupID: GroupSetup,
	Short:   "Install the hook handler into the Claude settings file",
	Long: `Setup registers 'aineko handle' as a hook command for the agent
events aineko tracks. The existing settings file is backed up before it is
rewritten; rerunning setup is safe and changes nothing once the hooks are in
place.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	path := setupSettingsPath
	if path == "" {
		path, err = hooks.DefaultSettingsPath()
		if err != nil {
			return err
		}
	}

	events := a.cfg.HookEvents
	backup, err := hooks.Install(path, events)
	if err != nil {
		return fmt.Errorf("installing hooks: %w", err)
	}

	fmt.Printf("%s Hooks installed in %s\n", style.SuccessPrefix, style.Bold.Render(path))
	fmt.Printf("  %s %s\n", style.Dim.Render("events:"), strings.Join(events, ", "))
	if backup != "" {
		fmt.Printf("  %s %s\n", style.Dim.Render("backup:"), backup)
	}
	fmt.Println(style.Dim.Render("  restart any running agent sessions to pick up the new hooks"))
	return nil
}
