package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vaxhacker/aineko/internal/config"
	"github.com/vaxhacker/aineko/internal/listener"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
	"golang.org/x/sync/errgroup"
)

var statusJSON bool

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupSetup,
	Short:   "Summarize seances and their listeners",
	Long: `Summarize the current seances: counts per attention status, the
configured directories, and whether each seance's listener socket is
live, stale, or missing.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// statusReport is the JSON form of the summary.
type statusReport struct {
	StateDir      string         `json:"stateDir"`
	SocketDir     string         `json:"socketDir"`
	TmuxAvailable bool           `json:"tmuxAvailable"`
	Counts        map[string]int `json:"counts"`
	Seances       []seanceProbe  `json:"seances"`
}

type seanceProbe struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	SessionName string        `json:"sessionName"`
	Status      seance.Status `json:"status"`
	Socket      string        `json:"socket"`
	StateError  string        `json:"stateError,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	seances, err := a.loadSeances()
	if err != nil {
		return err
	}

	// Socket probes dial with a timeout, so run them in parallel rather
	// than serially eating a timeout per wedged listener.
	socks := make([]listener.SocketStatus, len(seances))
	g := new(errgroup.Group)
	for i, sn := range seances {
		g.Go(func() error {
			socks[i] = listener.CheckSocket(a.socketPath(sn))
			return nil
		})
	}
	_ = g.Wait()

	report := buildStatusReport(a.cfg, seances, socks)
	report.TmuxAvailable = a.tmux.IsAvailable()

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printStatusReport(report)
	return nil
}

func buildStatusReport(cfg config.Config, seances []seance.Seance, socks []listener.SocketStatus) statusReport {
	report := statusReport{
		StateDir:  cfg.StateDir,
		SocketDir: cfg.SocketDir,
		Counts:    map[string]int{},
		Seances:   []seanceProbe{},
	}
	for i, sn := range seances {
		report.Counts[sn.Status.String()]++
		probe := seanceProbe{
			ID:          sn.ID,
			Name:        sn.Name,
			SessionName: sn.SessionName,
			Status:      sn.Status,
			Socket:      socks[i].String(),
		}
		if sn.Err != nil {
			probe.StateError = sn.Err.Error()
		}
		report.Seances = append(report.Seances, probe)
	}
	return report
}

// summarizeCounts renders "3 total (1 waiting, 2 idle)", keeping the
// urgency order and dropping empty statuses.
func summarizeCounts(counts map[string]int, total int) string {
	if total == 0 {
		return "none"
	}
	var parts []string
	for _, status := range []string{"waiting", "idle", "working", "unknown"} {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d total", total)
	}
	return fmt.Sprintf("%d total (%s)", total, strings.Join(parts, ", "))
}

func printStatusReport(report statusReport) {
	fmt.Printf("%s\n\n", style.Bold.Render("aineko status"))
	tmuxNote := style.SuccessPrefix + " ok"
	if !report.TmuxAvailable {
		tmuxNote = style.ErrorPrefix + " not found"
	}
	fmt.Printf("  Tmux:       %s\n", tmuxNote)
	fmt.Printf("  State dir:  %s\n", report.StateDir)
	fmt.Printf("  Socket dir: %s\n", report.SocketDir)
	fmt.Printf("  Seances:    %s\n", summarizeCounts(report.Counts, len(report.Seances)))

	if len(report.Seances) == 0 {
		return
	}
	fmt.Println()
	for _, probe := range report.Seances {
		prefix := style.ArrowPrefix
		note := "no listener"
		switch probe.Socket {
		case "active":
			prefix = style.SuccessPrefix
			note = "listener active"
		case "stale":
			prefix = style.WarningPrefix
			note = "socket stale"
		}
		if probe.StateError != "" {
			prefix = style.ErrorPrefix
			note += ", state unreadable"
		}
		fmt.Printf("  %s %-24s %-8s %s\n", prefix, probe.SessionName, probe.Status, note)
	}
}
