// Package tui implements the interactive tree browser built on Bubble
// Tea. It renders one navigable tree and drives a nav.Controller from
// vim-style key presses.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/eihwaz/internal/nav"
	"github.com/starford/eihwaz/internal/treeservice"
	"github.com/starford/eihwaz/internal/walker"
)

// treeBuiltMsg delivers a freshly built tree to the model.
type treeBuiltMsg struct {
	tree *treeservice.Tree
	err  error
}

// editorDoneMsg reports the external editor exiting.
type editorDoneMsg struct{ err error }

// Model is the root Bubble Tea model for the tree browser.
type Model struct {
	svc      *treeservice.Service
	vaultDir string
	root     string

	tree *treeservice.Tree
	ctrl *nav.Controller

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// Pending numeric count prefix for sibling moves (vim-style "3j").
	count string

	status string
	err    error
}

// New creates a tree browser rooted at the given target. The tree is
// built asynchronously on Init.
func New(svc *treeservice.Service, vaultDir, root string) Model {
	return Model{svc: svc, vaultDir: vaultDir, root: root}
}

func (m Model) Init() tea.Cmd {
	return m.buildTree()
}

func (m Model) buildTree() tea.Cmd {
	svc, root := m.svc, m.root
	return func() tea.Msg {
		tree, err := svc.BuildTree(context.Background(), root)
		return treeBuiltMsg{tree: tree, err: err}
	}
}

// takeCount consumes the pending numeric prefix, defaulting to 1.
func (m *Model) takeCount() int {
	n := 1
	if m.count != "" {
		if v, err := strconv.Atoi(m.count); err == nil && v > 0 {
			n = v
		}
		m.count = ""
	}
	return n
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vh := msg.Height - 2 // header and footer lines
		if vh < 1 {
			vh = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vh)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vh
		}
		m.refreshView()
		return m, nil

	case treeBuiltMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.tree = msg.tree
		m.ctrl = nav.NewController(msg.tree.Nav)
		m.status = fmt.Sprintf("%d notes", len(msg.tree.Layout.Nodes))
		m.refreshView()
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "rebuilding"
		return m, m.buildTree()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.count = ""
		m.status = "rebuilding"
		return m, m.buildTree()
	}

	if m.ctrl == nil {
		return m, nil
	}

	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// A leading zero is not a count.
		if key == "0" && m.count == "" {
			return m, nil
		}
		m.count += key
		return m, nil
	case "j", "down":
		m.ctrl.Move(m.takeCount())
	case "k", "up":
		m.ctrl.Move(-m.takeCount())
	case "l", "enter", "right":
		m.count = ""
		m.ctrl.Enter()
	case "h", "esc", "left", "backspace":
		m.count = ""
		m.ctrl.Exit()
	case "g":
		m.count = ""
		for m.ctrl.Exit() {
		}
	case "o":
		m.count = ""
		return m, m.openEditor()
	default:
		m.count = ""
		return m, nil
	}

	m.refreshView()
	return m, nil
}

func (m *Model) openEditor() tea.Cmd {
	if m.tree == nil || m.ctrl == nil {
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	id := m.tree.Layout.Nodes[m.ctrl.Current()].ID
	cmd := exec.Command(editor, filepath.Join(m.vaultDir, filepath.FromSlash(id)))
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

// refreshView re-renders the viewport content and scrolls the current
// line into view.
func (m *Model) refreshView() {
	if !m.ready || m.tree == nil || m.ctrl == nil {
		return
	}
	m.viewport.SetContent(m.renderTree())

	line := m.tree.Layout.Nodes[m.ctrl.Current()].Line
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// renderTree styles the layout text line by line: the current node is
// highlighted, repeats (stubs) are dimmed.
func (m *Model) renderTree() string {
	layout := m.tree.Layout
	lines := strings.Split(strings.TrimRight(layout.Text, "\n"), "\n")

	styleByLine := make(map[int]int, len(layout.Nodes))
	for _, n := range layout.Nodes {
		if n.Kind == walker.Stub {
			styleByLine[n.Line] = lineStub
		}
	}
	current := m.tree.Layout.Nodes[m.ctrl.Current()].Line
	styleByLine[current] = lineCurrent

	var b strings.Builder
	for i, line := range lines {
		switch styleByLine[i] {
		case lineCurrent:
			b.WriteString(currentStyle.Render(line))
		case lineStub:
			b.WriteString(stubStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) View() string {
	if m.err != nil {
		return errStyle.Render("error: "+m.err.Error()) + "\n\npress r to retry, q to quit\n"
	}
	if !m.ready || m.tree == nil {
		return "loading...\n"
	}

	header := headerStyle.Render(m.root)
	if m.ctrl != nil {
		header += headerDimStyle.Render(fmt.Sprintf("  depth %d", m.ctrl.Depth()))
	}
	if m.count != "" {
		header += headerDimStyle.Render("  " + m.count)
	}

	footer := footerStyle.Render("j/k siblings  l enter  h back  g root  o edit  r rebuild  q quit")
	if m.status != "" {
		footer += footerStyle.Render("  · " + m.status)
	}

	return header + "\n" + m.viewport.View() + "\n" + footer
}

const (
	linePlain = iota
	lineStub
	lineCurrent
)
