package nav

import (
	"testing"

	"github.com/starford/eihwaz/internal/notestore"
	"github.com/starford/eihwaz/internal/render"
	"github.com/starford/eihwaz/internal/testutil"
	"github.com/starford/eihwaz/internal/walker"
)

func buildLayout(t *testing.T, root string, notes map[string]string) *render.Layout {
	t.Helper()
	_, vault, db := testutil.TestEnv(t)
	for path, content := range notes {
		testutil.WriteNote(t, vault, db, path, content)
	}
	s := walker.NewSession(notestore.New(vault, db, nil))
	defer s.Close()
	node, err := s.Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return render.Render(node)
}

func fanOut(t *testing.T, k int) (*render.Layout, *Index) {
	t.Helper()
	notes := map[string]string{}
	body := "# R\n"
	for i := 0; i < k; i++ {
		name := string(rune('a' + i))
		notes[name+".md"] = "# " + name + "\n"
		body += "[[" + name + "]] "
	}
	notes["r.md"] = body
	l := buildLayout(t, "r.md", notes)
	return l, Build(l)
}

func TestSiblingCircularity(t *testing.T) {
	const k = 4
	l, idx := fanOut(t, k)
	first := l.Nodes[0].Children[0]

	// k next steps from the first child return to the first child.
	pos := first
	for i := 0; i < k; i++ {
		pos = idx.Records[pos].Next
	}
	if pos != first {
		t.Errorf("after %d next steps: %d, want %d", k, pos, first)
	}

	// prev from the first child lands on the k-th child.
	last := l.Nodes[0].Children[k-1]
	if got := idx.Records[first].Prev; got != last {
		t.Errorf("prev of first = %d, want %d", got, last)
	}
}

func TestParentOfFirstChild(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]] [[b]]",
		"a.md": "# A\n[[c]]",
		"b.md": "# B\n",
		"c.md": "# C\n",
	})
	idx := Build(l)

	for i, r := range idx.Records {
		if r.FirstChild == None {
			continue
		}
		if got := idx.Records[r.FirstChild].Parent; got != i {
			t.Errorf("parent(first-child(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestRootTriviallyCircular(t *testing.T) {
	l := buildLayout(t, "solo.md", map[string]string{"solo.md": "# Solo\n"})
	idx := Build(l)

	root := idx.Records[0]
	if root.Prev != 0 || root.Next != 0 {
		t.Errorf("root prev/next = %d/%d, want 0/0", root.Prev, root.Next)
	}
	if root.Siblings != 1 {
		t.Errorf("root siblings = %d, want 1", root.Siblings)
	}
	if root.FirstChild != None {
		t.Errorf("leaf root first-child = %d, want None", root.FirstChild)
	}
}

func TestStubResolution_PointsIntoCanonicalSubtree(t *testing.T) {
	// shared.md has a child; the stub under b must inherit the
	// canonical expansion's first-child pointer.
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]] [[b]]",
		"a.md": "# A\n[[shared]]",
		"b.md": "# B\n[[shared]]",
		"shared.md": "# Shared\n[[leaf]]",
		"leaf.md": "# Leaf\n",
	})
	idx := Build(l)

	if len(l.Stubs) != 1 {
		t.Fatalf("stubs = %+v", l.Stubs)
	}
	stub := l.Stubs[0].Node

	var canonical int
	found := false
	for i, n := range l.Nodes {
		if n.ID == "shared.md" && n.Kind == walker.Expanded {
			canonical = i
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no canonical expansion of shared.md")
	}

	got := idx.Records[stub].FirstChild
	if got != idx.Records[canonical].FirstChild {
		t.Errorf("stub first-child = %d, want canonical's %d", got, idx.Records[canonical].FirstChild)
	}
	if got == None {
		t.Fatal("expected resolved child pointer")
	}
	if l.Nodes[got].Kind == walker.Stub {
		t.Error("resolved child pointer must not target a stub")
	}
}

func TestStubResolution_LeafCanonicalStaysAbsent(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]] [[a]]",
		"a.md": "# A\n",
	})
	idx := Build(l)

	stub := l.Stubs[0].Node
	if idx.Records[stub].FirstChild != None {
		t.Errorf("stub of leaf should keep absent child pointer")
	}
}

func TestSelfLink_StubChildAbsent(t *testing.T) {
	// R links only to itself: the canonical first-child is the stub,
	// so resolution leaves the stub's pointer absent instead of
	// looping the tree into itself.
	l := buildLayout(t, "self.md", map[string]string{
		"self.md": "# Self\n[[self]]",
	})
	idx := Build(l)

	if len(l.Nodes) != 2 {
		t.Fatalf("arena = %+v", l.Nodes)
	}
	if idx.Records[0].FirstChild != 1 {
		t.Fatalf("root first-child = %d, want 1", idx.Records[0].FirstChild)
	}
	if idx.Records[1].FirstChild != None {
		t.Errorf("self stub first-child = %d, want None", idx.Records[1].FirstChild)
	}
}

func TestController_EnterExit(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]]",
		"a.md": "# A\n[[b]]",
		"b.md": "# B\n",
	})
	c := NewController(Build(l))

	if !c.Enter() {
		t.Fatal("Enter from root should succeed")
	}
	if l.Nodes[c.Current()].ID != "a.md" {
		t.Errorf("current = %s, want a.md", l.Nodes[c.Current()].ID)
	}
	if !c.Enter() {
		t.Fatal("Enter into b should succeed")
	}
	if !c.Exit() || !c.Exit() {
		t.Fatal("two Exits should succeed")
	}
	if c.Current() != 0 || !c.AtRoot() {
		t.Errorf("should be back at root, got %d", c.Current())
	}
}

func TestController_EnterLeafIsNoOp(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]]",
		"a.md": "# A\n",
	})
	c := NewController(Build(l))

	c.Enter() // at leaf a
	at := c.Current()
	if c.Enter() {
		t.Error("Enter at leaf should be a no-op")
	}
	if c.Current() != at {
		t.Error("position changed on failed Enter")
	}
}

func TestController_ExitPastRootIsNoOp(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{"r.md": "# R\n"})
	c := NewController(Build(l))

	if c.Exit() {
		t.Error("Exit at root should be a no-op")
	}
	if c.Current() != 0 {
		t.Error("position changed on failed Exit")
	}
}

func TestController_SiblingWraparound(t *testing.T) {
	l, idx := fanOut(t, 3)
	c := NewController(idx)
	c.Enter()
	first := c.Current()

	c.Next()
	c.Next()
	c.Next()
	if c.Current() != first {
		t.Errorf("three Next over three siblings should wrap to start")
	}

	c.Prev()
	if got := l.Nodes[c.Current()].ID; got != "c.md" {
		t.Errorf("Prev from first = %q, want c.md", got)
	}
}

func TestController_MoveByN(t *testing.T) {
	_, idx := fanOut(t, 5)
	c := NewController(idx)
	c.Enter()
	start := c.Current()

	c.Move(7) // 7 mod 5 = 2 forward
	two := c.Current()
	c.Move(-7) // back again
	if c.Current() != start {
		t.Errorf("Move(7) then Move(-7) should return to start")
	}
	c.Move(2)
	if c.Current() != two {
		t.Errorf("Move(2) should equal Move(7) over 5 siblings")
	}
}

func TestController_RootSiblingMoveIsNoOp(t *testing.T) {
	_, idx := fanOut(t, 2)
	c := NewController(idx)
	if c.Next() || c.Prev() || c.Move(3) {
		t.Error("sibling movement at root should be a no-op")
	}
	if c.Current() != 0 {
		t.Error("position changed")
	}
}

func TestController_EnterStubLandsInCanonicalSubtree(t *testing.T) {
	l := buildLayout(t, "r.md", map[string]string{
		"r.md": "# R\n[[a]] [[b]]",
		"a.md": "# A\n[[shared]]",
		"b.md": "# B\n[[shared]]",
		"shared.md": "# Shared\n[[leaf]]",
		"leaf.md": "# Leaf\n",
	})
	idx := Build(l)
	c := NewController(idx)

	c.Enter()  // a
	c.Next()   // b
	c.Enter()  // stub of shared
	if l.Nodes[c.Current()].Kind != walker.Stub {
		t.Fatalf("expected to be on the stub, at %s", l.Nodes[c.Current()].ID)
	}
	if !c.Enter() {
		t.Fatal("Enter on resolved stub should descend")
	}
	if l.Nodes[c.Current()].ID != "leaf.md" {
		t.Errorf("descended to %s, want leaf.md", l.Nodes[c.Current()].ID)
	}
	// Exit returns to the stub, not to the canonical parent.
	c.Exit()
	if l.Nodes[c.Current()].Kind != walker.Stub {
		t.Error("Exit should return to the stub the descent started from")
	}
}
