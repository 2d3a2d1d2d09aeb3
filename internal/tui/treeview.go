// Package tui provides a terminal tree browser over the coordinator. It only
// reads orderings; sorting stays in the tree package.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"treepanel/internal/tree"
	"treepanel/pkg/types"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#6B5ECD")).
			Bold(true)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// row is one visible line: an entry at a depth below the root.
type row struct {
	entry *types.Entry
	depth int
}

// treeChangedMsg carries the ID of a directory whose ordering was recomputed.
type treeChangedMsg string

// Model is a bubbletea model browsing a live tree.
type Model struct {
	tree     *tree.Tree
	updates  <-chan string
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int
	height   int
	width    int
}

// NewModel creates a browser over t with the root expanded.
func NewModel(t *tree.Tree) *Model {
	m := &Model{
		tree:     t,
		updates:  t.Subscribe(16),
		expanded: map[string]bool{t.Root().ID: true},
		height:   20,
		width:    80,
	}
	m.rebuildRows()
	return m
}

// Init starts listening for re-sort notifications.
func (m *Model) Init() tea.Cmd {
	return m.listen()
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		dirID, ok := <-m.updates
		if !ok {
			return nil
		}
		return treeChangedMsg(dirID)
	}
}

// Update handles key presses, resizes, and tree change notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "left", "h":
			m.collapseOrAscend()
		case "right", "l", "enter":
			m.expand()
		}
		m.ensureCursorVisible()

	case tea.WindowSizeMsg:
		m.width = msg.Width - 2
		m.height = msg.Height - 3
		m.ensureCursorVisible()

	case treeChangedMsg:
		m.rebuildRows()
		m.ensureCursorVisible()
		return m, m.listen()
	}

	return m, nil
}

func (m *Model) expand() {
	if m.cursor >= len(m.rows) {
		return
	}
	e := m.rows[m.cursor].entry
	if !e.IsDir() {
		return
	}
	m.expanded[e.ID] = true
	m.rebuildRows()
}

func (m *Model) collapseOrAscend() {
	if m.cursor >= len(m.rows) {
		return
	}
	e := m.rows[m.cursor].entry
	if e.IsDir() && m.expanded[e.ID] {
		delete(m.expanded, e.ID)
		m.rebuildRows()
		return
	}
	if e.Parent == nil {
		return
	}
	for i, r := range m.rows {
		if r.entry == e.Parent {
			m.cursor = i
			return
		}
	}
}

// rebuildRows flattens the expanded portion of the tree in display order.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	m.addRows(m.tree.Root(), 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) addRows(e *types.Entry, depth int) {
	m.rows = append(m.rows, row{entry: e, depth: depth})
	if !e.IsDir() || !m.expanded[e.ID] {
		return
	}
	kids, err := m.tree.Children(e.ID)
	if err != nil {
		return
	}
	for _, child := range kids {
		m.addRows(child, depth+1)
	}
}

func (m *Model) ensureCursorVisible() {
	if m.height <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the visible rows.
func (m *Model) View() string {
	if len(m.rows) == 0 {
		return hintStyle.Render("empty tree")
	}

	var b strings.Builder
	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		line := strings.Repeat("  ", r.depth) + m.label(r.entry)

		switch {
		case i == m.cursor:
			line = cursorStyle.Render(line)
		case r.entry.IsDir():
			line = dirStyle.Render(line)
		default:
			line = fileStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(hintStyle.Render("↑/↓ move · ←/→ fold · q quit"))
	return b.String()
}

func (m *Model) label(e *types.Entry) string {
	if !e.IsDir() {
		return e.Name
	}
	if m.expanded[e.ID] {
		return "▾ " + e.Name
	}
	return "▸ " + e.Name
}
