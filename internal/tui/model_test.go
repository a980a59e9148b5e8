package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/eihwaz/internal/testutil"
	"github.com/starford/eihwaz/internal/treeservice"
)

func testModel(t *testing.T) Model {
	t.Helper()
	dir, vault, db := testutil.TestEnv(t)

	testutil.WriteNote(t, vault, db, "root.md", "---\ntitle: Root\n---\n[[a]]\n[[b]]\n[[c]]\n")
	testutil.WriteNote(t, vault, db, "a.md", "---\ntitle: A\n---\n[[b]]\n")
	testutil.WriteNote(t, vault, db, "b.md", "---\ntitle: B\n---\n")
	testutil.WriteNote(t, vault, db, "c.md", "---\ntitle: C\n---\n")

	svc := treeservice.NewService(vault, db, nil)
	m := New(svc, dir, "root.md")

	tree, err := svc.BuildTree(context.Background(), "root.md")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	next, _ := m.Update(treeBuiltMsg{tree: tree})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func currentID(m Model) string {
	return m.tree.Layout.Nodes[m.ctrl.Current()].ID
}

func TestDescendAndMove(t *testing.T) {
	m := testModel(t)
	if currentID(m) != "root.md" {
		t.Fatalf("start = %q, want root.md", currentID(m))
	}

	m = press(t, m, "l")
	if currentID(m) != "a.md" {
		t.Errorf("after l: %q, want a.md", currentID(m))
	}

	m = press(t, m, "j")
	if currentID(m) != "b.md" {
		t.Errorf("after j: %q, want b.md", currentID(m))
	}

	m = press(t, m, "k", "k")
	if currentID(m) != "c.md" {
		t.Errorf("after k k: %q, want c.md (cyclic)", currentID(m))
	}
}

func TestCountPrefix(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "l", "2", "j")
	if currentID(m) != "c.md" {
		t.Errorf("after l 2 j: %q, want c.md", currentID(m))
	}

	// Three siblings, so a count of 3 is a full revolution.
	m = press(t, m, "3", "j")
	if currentID(m) != "c.md" {
		t.Errorf("after 3 j: %q, want c.md", currentID(m))
	}
}

func TestAscendAndRootFloor(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "l", "l") // a.md, then its child b.md
	if currentID(m) != "b.md" {
		t.Fatalf("descended to %q, want b.md", currentID(m))
	}

	m = press(t, m, "h")
	if currentID(m) != "a.md" {
		t.Errorf("after h: %q, want a.md", currentID(m))
	}

	m = press(t, m, "h", "h", "h")
	if currentID(m) != "root.md" {
		t.Errorf("repeated h stops at %q, want root.md", currentID(m))
	}

	// Sibling moves at the root are no-ops.
	m = press(t, m, "j")
	if currentID(m) != "root.md" {
		t.Errorf("j at root moved to %q", currentID(m))
	}
}

func TestJumpToRoot(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "l", "l", "g")
	if !m.ctrl.AtRoot() {
		t.Error("g did not return to root")
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("q produced %T, want tea.QuitMsg", msg)
	}
}
