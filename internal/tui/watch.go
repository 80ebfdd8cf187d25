package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

// Watch is the live seance table. It refreshes whenever the state
// directory changes and on a fallback tick, so a listing stays current
// even if a write slips past the watcher. Read-only: picking and opening
// stay with the picker.
type Watch struct {
	loader    Loader
	watcher   *fsnotify.Watcher
	interval  time.Duration
	seances   []seance.Seance
	err       error
	refreshed time.Time
	width     int
	height    int
	quitting  bool
}

// NewWatch builds the watch view. The caller owns the watcher (and closes
// it after the program exits); it must already be watching the state
// directory.
func NewWatch(loader Loader, watcher *fsnotify.Watcher, interval time.Duration) Watch {
	return Watch{
		loader:   loader,
		watcher:  watcher,
		interval: interval,
		width:    120,
		height:   30,
	}
}

type fsChangeMsg struct{}

type tickMsg time.Time

// waitForChange blocks until the state directory changes. Watcher errors
// also wake the view; the reload itself reports anything real.
func waitForChange(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			return fsChangeMsg{}
		case _, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fsChangeMsg{}
		}
	}
}

func (m Watch) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Watch) Init() tea.Cmd {
	return tea.Batch(loadSeances(m.loader), waitForChange(m.watcher), m.tick())
}

func (m Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case seancesMsg:
		m.seances = msg.seances
		m.err = msg.err
		m.refreshed = time.Now()
		return m, nil

	case fsChangeMsg:
		return m, tea.Batch(loadSeances(m.loader), waitForChange(m.watcher))

	case tickMsg:
		return m, tea.Batch(loadSeances(m.loader), m.tick())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Watch) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("aineko watch")
	count := dimStyle.Render(fmt.Sprintf("  %d seances", len(m.seances)))
	b.WriteString(title + count + "\n")

	if m.err != nil {
		b.WriteString(style.Error.Render(fmt.Sprintf("  %v", m.err)) + "\n")
	}

	w := tableWidths(m.width)
	b.WriteString(renderTableHeader(w) + "\n")

	now := time.Now()
	visible := m.visibleRows()
	shown := len(m.seances)
	if shown > visible {
		shown = visible
	}
	for _, s := range m.seances[:shown] {
		b.WriteString(renderSeanceRow(s, w, now, false) + "\n")
	}
	if hidden := len(m.seances) - shown; hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  +%d more", hidden)) + "\n")
	}

	for i := shown; i < visible; i++ {
		b.WriteString("\n")
	}

	refreshed := "-"
	if !m.refreshed.IsZero() {
		refreshed = m.refreshed.Format("15:04:05")
	}
	b.WriteString(statusBarStyle.Render(fmt.Sprintf("refreshed %s", refreshed)))
	b.WriteString(helpStyle.Render("  q: quit"))

	return b.String()
}

func (m Watch) visibleRows() int {
	rows := m.height - 4
	if m.err != nil {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}
