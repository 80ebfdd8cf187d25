package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/tui"
)

var listJSON bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupSeance,
	Short:   "List seances by urgency",
	Long: `List live seances, most urgent first: waiting, then idle, then
working, then unknown, with ties broken by recency.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	seances, err := a.loadSeances()
	if err != nil {
		return err
	}

	if listJSON {
		return printSeanceJSON(os.Stdout, seances)
	}
	return printSeanceTable(os.Stdout, seances)
}

func printSeanceTable(w io.Writer, seances []seance.Seance) error {
	if len(seances) == 0 {
		fmt.Fprintln(w, "No seances.")
		return nil
	}

	now := time.Now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tNAME\tID\tUPDATED\tPROJECT")
	for _, sn := range seances {
		project := "-"
		switch {
		case sn.Err != nil:
			project = "state unreadable"
		case sn.HasState && sn.State.ProjectDir != "":
			project = sn.State.ProjectDir
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			sn.Status, sn.Name, sn.ID, tui.RelativeTime(tui.LastStamp(sn), now), project)
	}
	return tw.Flush()
}

// printSeanceJSON emits the assembled views; an empty listing is an empty
// array, not null.
func printSeanceJSON(w io.Writer, seances []seance.Seance) error {
	if seances == nil {
		seances = []seance.Seance{}
	}
	data, err := json.MarshalIndent(seances, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
