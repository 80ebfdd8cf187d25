package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/config"
	"github.com/vaxhacker/aineko/internal/listener"
	"github.com/vaxhacker/aineko/internal/seance"
)

func init() {
	rootCmd.AddCommand(handleCmd)
}

var handleCmd = &cobra.Command{
	Use:     "handle",
	GroupID: GroupSetup,
	Short:   "Forward a hook event to the seance listener",
	Long: `Handle reads one JSON hook payload from stdin and forwards it to the
listener socket named by the session environment. It is registered as a hook
command by 'aineko setup' and is not meant to be run by hand.`,
	Args: cobra.NoArgs,
	RunE: runHandle,
}

func runHandle(cmd *cobra.Command, args []string) error {
	socketPath, err := config.ListenerSocketFromEnv()
	if err != nil {
		return err
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading hook payload: %w", err)
	}
	payload, err := normalizeEvent(raw)
	if err != nil {
		return err
	}
	return listener.Send(socketPath, payload)
}

// normalizeEvent parses a hook payload and re-serializes it, rejecting
// malformed JSON before it reaches the socket. Fields aineko does not know
// about pass through untouched.
func normalizeEvent(raw []byte) ([]byte, error) {
	var ev seance.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("parsing hook payload: %w", err)
	}
	return json.Marshal(ev)
}
