// Package tui holds the interactive views: the seance picker shown by the
// bare root command and the live watch table.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vaxhacker/aineko/internal/seance"
	"github.com/vaxhacker/aineko/internal/style"
)

type mode int

const (
	modeList mode = iota
	modeSearch
)

// Picker is the interactive seance chooser. It quits with a selection; the
// caller performs the actual open so the terminal is back in cooked mode
// before tmux takes over.
type Picker struct {
	loader      Loader
	seances     []seance.Seance
	filtered    []seance.Seance
	cursor      int
	offset      int // scroll offset
	width       int
	height      int
	mode        mode
	searchInput textinput.Model
	err         error
	selected    *seance.Seance
	quitting    bool
}

type seancesMsg struct {
	seances []seance.Seance
	err     error
}

func loadSeances(loader Loader) tea.Cmd {
	return func() tea.Msg {
		ss, err := loader()
		return seancesMsg{ss, err}
	}
}

func NewPicker(loader Loader) Picker {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 100

	return Picker{
		loader:      loader,
		searchInput: si,
		width:       120,
		height:      30,
	}
}

// Selected returns the seance chosen before quitting, if any.
func (m Picker) Selected() (seance.Seance, bool) {
	if m.selected == nil {
		return seance.Seance{}, false
	}
	return *m.selected, true
}

func (m *Picker) applyFilter() {
	m.filtered = nil
	search := strings.ToLower(m.searchInput.Value())

	for _, s := range m.seances {
		if search != "" {
			haystack := strings.ToLower(s.Name + " " + s.ID + " " + s.State.ProjectDir + " " + s.Status.String())
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		m.filtered = append(m.filtered, s)
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	m.clampOffset()
}

func (m Picker) Init() tea.Cmd {
	return loadSeances(m.loader)
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case seancesMsg:
		m.seances = msg.seances
		m.err = msg.err
		m.applyFilter()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
	}
	return m, nil
}

func (m Picker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.clampOffset()
		}

	case "home", "g":
		m.cursor = 0
		m.clampOffset()

	case "end", "G":
		m.cursor = max(0, len(m.filtered)-1)
		m.clampOffset()

	case "pgup":
		m.cursor -= m.visibleRows()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.clampOffset()

	case "pgdown":
		m.cursor += m.visibleRows()
		if m.cursor >= len(m.filtered) {
			m.cursor = len(m.filtered) - 1
		}
		m.clampOffset()

	case "enter":
		if len(m.filtered) > 0 {
			s := m.filtered[m.cursor]
			m.selected = &s
			m.quitting = true
			return m, tea.Quit
		}

	case "/":
		m.searchInput.Focus()
		m.mode = modeSearch

	case "r":
		return m, loadSeances(m.loader)
	}

	return m, nil
}

func (m Picker) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Picker) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("aineko")
	count := dimStyle.Render(fmt.Sprintf("  %d seances", len(m.filtered)))
	b.WriteString(title + count + "\n")

	if m.err != nil {
		b.WriteString(style.Error.Render(fmt.Sprintf("  %v", m.err)) + "\n")
	}

	w := tableWidths(m.width)
	b.WriteString(renderTableHeader(w) + "\n")

	now := time.Now()
	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.offset; i < end; i++ {
		row := renderSeanceRow(m.filtered[i], w, now, i == m.cursor)
		if i == m.cursor {
			row = lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
		}
		b.WriteString(row + "\n")
	}

	// pad remaining rows
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	if m.mode == modeSearch {
		b.WriteString(statusBarStyle.Render("Search: ") + m.searchInput.View())
	} else {
		b.WriteString(helpStyle.Render("  Enter: open  /: search  r: refresh  q: quit"))
	}

	return b.String()
}

func (m Picker) visibleRows() int {
	// total height minus title, header, bottom bar, and the occasional
	// error line
	rows := m.height - 4
	if m.err != nil {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Picker) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
