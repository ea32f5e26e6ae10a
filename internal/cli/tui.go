package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/knotedit/pkg/editor"
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/style"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMarkStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// defaultStep is how far an arrow key moves a node.
const defaultStep = 10

// =============================================================================
// EditModel - Interactive knot editor
// =============================================================================

// EditModel is the bubbletea model of the interactive editor. Every key
// goes through the editor, so the history panel shows exactly what undo
// will do.
type EditModel struct {
	Editor *editor.Editor
	Name   string

	// Save persists the document. It is called by the save key.
	Save func() error

	Cursor int          // index of the current node
	Mark   graph.NodeID // anchor of the next connection, 0 if none
	Step   float64
	Height int

	status      string
	confirmQuit bool
	quitting    bool
}

// NewEditModel creates an editor model on ed.
func NewEditModel(ed *editor.Editor, name string, save func() error) EditModel {
	m := EditModel{Editor: ed, Name: name, Save: save, Step: defaultStep, Height: 12}
	m.selectCurrent()
	return m
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

// current returns the node under the cursor, or nil.
func (m EditModel) current() *graph.Node {
	nodes := m.Editor.Graph().Nodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[min(max(m.Cursor, 0), len(nodes)-1)]
}

// selectCurrent clamps the cursor and selects the current node.
func (m *EditModel) selectCurrent() {
	count := m.Editor.Graph().NodeCount()
	m.Cursor = min(max(m.Cursor, 0), max(count-1, 0))
	if n := m.current(); n != nil {
		m.Editor.Select([]*graph.Node{n}, nil)
		return
	}
	m.Editor.ClearSelection()
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m EditModel) handleKey(key string) (tea.Model, tea.Cmd) {
	if key != "q" && key != "esc" && key != "ctrl+c" {
		m.confirmQuit = false
	}
	m.status = ""
	ed := m.Editor
	n := m.current()

	var err error
	switch key {
	case "q", "esc", "ctrl+c":
		if ed.Modified() && !m.confirmQuit && key != "ctrl+c" {
			m.confirmQuit = true
			m.status = StyleWarning.Render("Unsaved changes. Press q again to quit without saving, s to save.")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "tab", "down", "j":
		if count := ed.Graph().NodeCount(); count > 0 {
			m.Cursor = (m.Cursor + 1) % count
		}
	case "shift+tab", "up", "k":
		if count := ed.Graph().NodeCount(); count > 0 {
			m.Cursor = (m.Cursor + count - 1) % count
		}

	case "n":
		pos := style.Point{}
		if n != nil {
			pos = n.Pos().Add(style.Point{X: 4 * m.Step})
		}
		added := ed.AddNode(pos)
		m.Cursor = indexOf(ed.Graph().Nodes(), added)

	case "H", "shift+left":
		err = m.move(n, style.Point{X: -m.Step})
	case "L", "shift+right":
		err = m.move(n, style.Point{X: m.Step})
	case "K", "shift+up":
		err = m.move(n, style.Point{Y: -m.Step})
	case "J", "shift+down":
		err = m.move(n, style.Point{Y: m.Step})

	case "m":
		if n != nil {
			m.Mark = n.ID()
			m.status = fmt.Sprintf("Marked node %d", n.ID())
		}
	case "c":
		err = m.connect(n)
	case "t":
		err = m.cycleEdgeType(n)
	case "x", "delete":
		if n != nil {
			if m.Mark == n.ID() {
				m.Mark = 0
			}
			err = ed.RemoveNode(n)
		}

	case "u", "ctrl+z":
		err = ed.Undo()
	case "r", "ctrl+y":
		err = ed.Redo()
	case "s", "ctrl+s":
		if m.Save != nil {
			if err = m.Save(); err == nil {
				m.status = StyleSuccess.Render("Saved")
			}
		}
	}

	if err != nil {
		m.status = StyleWarning.Render(err.Error())
	}
	m.selectCurrent()
	return m, nil
}

func (m EditModel) move(n *graph.Node, delta style.Point) error {
	if n == nil {
		return nil
	}
	return m.Editor.MoveNode(n, n.Pos().Add(delta))
}

// connect joins the marked node and n in one step.
func (m *EditModel) connect(n *graph.Node) error {
	a := m.Editor.Graph().Node(m.Mark)
	if a == nil || n == nil || a == n {
		m.status = "Mark a node with m, then move to another node and press c"
		return nil
	}
	_, err := m.Editor.Connect(a, n)
	return err
}

// cycleEdgeType advances the type of every edge at n, as one history entry.
func (m EditModel) cycleEdgeType(n *graph.Node) error {
	if n == nil || n.Degree() == 0 {
		return nil
	}
	edges := n.Edges()
	next := (edges[0].Style.Resolve(m.Editor.Graph().EdgeStyle).Type + 1) % (style.EdgeHole + 1)
	return m.Editor.SetEdgeType(edges, next)
}

func indexOf(nodes []*graph.Node, n *graph.Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return 0
}

func (m EditModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	title := StyleTitle.Render(m.Name)
	if m.Editor.Modified() {
		title += StyleWarning.Render(" *")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab/↑↓ select  HJKL move  n new  m mark  c connect  t edge type  x delete  u undo  r redo  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.nodeTable(), "  ", m.historyView()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m EditModel) nodeTable() string {
	g := m.Editor.Graph()
	nodes := g.Nodes()
	start := max(0, min(m.Cursor-m.Height/2, len(nodes)-m.Height))
	end := min(start+m.Height, len(nodes))

	rows := [][]string{}
	for i := start; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if n.ID() == m.Mark {
			cursor = "● "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(n.ID()), n.Pos().String(), edgeSummary(n), n.Style.Enabled.String()})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Position", "Edges", "Overrides").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case start+row == m.Cursor:
				return listSelectedStyle
			case col == 0:
				return listMarkStyle
			}
			return listNormalStyle
		}).
		Render()
}

// edgeSummary lists the neighbors of n with the type of the joining edge.
func edgeSummary(n *graph.Node) string {
	if n.Degree() == 0 {
		return "—"
	}
	def := n.Graph().EdgeStyle
	parts := make([]string, 0, n.Degree())
	for _, e := range n.Edges() {
		other, _ := e.Other(n)
		part := fmt.Sprint(other.ID())
		if t := e.Style.Resolve(def).Type; t != style.EdgeRegular {
			part += ":" + t.String()
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// historyView lists the undo history, marking the current and saved states.
func (m EditModel) historyView() string {
	h := m.Editor.History()
	texts := append([]string{"(open)"}, h.Texts()...)

	var b strings.Builder
	b.WriteString(styleHeader.Render("History"))
	b.WriteString("\n")
	start := max(0, len(texts)-m.Height)
	for i := start; i < len(texts); i++ {
		marker := "  "
		if i == h.Index() {
			marker = "▸ "
		}
		line := marker + texts[i]
		if i == h.CleanIndex() {
			line += listDimStyle.Render(" (saved)")
		}
		switch {
		case i == h.Index():
			b.WriteString(listSelectedStyle.Render(line))
		case i > h.Index():
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
