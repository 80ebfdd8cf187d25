package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/listener"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

var detailJSON bool

func init() {
	rootCmd.AddCommand(detailCmd)

	detailCmd.Flags().BoolVar(&detailJSON, "json", false, "Output as JSON")
}

var detailCmd = &cobra.Command{
	Use:     "detail <id-or-name>",
	GroupID: GroupSeance,
	Short:   "Show one seance's full record",
	Args:    cobra.ExactArgs(1),
	RunE:    runDetail,
}

func runDetail(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	sn, err := seance.Find(a.tmux, a.store, args[0])
	if err != nil {
		return err
	}
	sock := listener.CheckSocket(a.socketPath(sn))

	if detailJSON {
		out := struct {
			seance.Seance
			Socket    string `json:"socket"`
			StatePath string `json:"statePath"`
		}{sn, sock.String(), a.store.Path(sn.ID)}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s\n\n", style.Bold.Render(sn.SessionName))
	fmt.Printf("  %-14s %s\n", "Status:", style.StatusLabel(sn.Status.String()))
	fmt.Printf("  %-14s %s\n", "Name:", sn.Name)
	fmt.Printf("  %-14s %s\n", "ID:", sn.ID)
	fmt.Printf("  %-14s %s (%s)\n", "Socket:", a.socketPath(sn), sock)
	fmt.Printf("  %-14s %s\n", "State file:", a.store.Path(sn.ID))

	if sn.Err != nil {
		fmt.Printf("\n%s state unreadable: %v\n", style.ErrorPrefix, sn.Err)
		return nil
	}
	if !sn.HasState {
		fmt.Printf("\n%s\n", style.Dim.Render("  no state recorded yet"))
		return nil
	}

	st := sn.State
	fmt.Printf("  %-14s %s\n", "Created:", orDash(st.CreatedAt))
	fmt.Printf("  %-14s %s\n", "Updated:", orDash(st.UpdatedAt))
	fmt.Printf("  %-14s %s\n", "Project:", orDash(st.ProjectDir))
	fmt.Printf("  %-14s %s\n", "Transcript:", orDash(st.TranscriptPath))
	agent := "not bound"
	if st.ClaudeSessionID != "" {
		agent = st.ClaudeSessionID
	}
	fmt.Printf("  %-14s %s\n", "Agent session:", agent)

	if st.LastMessage != nil {
		data, err := json.MarshalIndent(st.LastMessage, "  ", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n  %s\n", style.Bold.Render("  Last event"), string(data))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
