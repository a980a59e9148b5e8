// Package render turns a walker tree into indented text plus a node
// arena that downstream navigation indexing hangs links off.
//
// The text is the compatibility surface: connector glyphs, prefixes,
// and label joining must match byte-for-byte across builds of the
// same vault. Positions are arena indices (stable small integers);
// each node additionally records the byte offset of its marker glyph
// so hosts can anchor "open note" actions in the displayed text.
package render

import (
	"strings"

	"github.com/starford/eihwaz/internal/walker"
)

// Marker is the glyph that anchors a rendered node. It carries the
// node's identifier and style in the arena entry.
const Marker = "*"

// Rendered is one node in the layout arena.
type Rendered struct {
	ID       string      `json:"id"`
	Kind     walker.Kind `json:"kind"`
	Label    string      `json:"label"`
	Line     int         `json:"line"`
	Offset   int         `json:"offset"` // byte offset of the marker glyph in Text
	Children []int       `json:"children,omitempty"`
}

// StubOccurrence pairs a stub's identifier with its arena index, in
// render order. The navigation indexer uses this list to rewire each
// stub to the canonical expansion of its identifier.
type StubOccurrence struct {
	ID   string `json:"id"`
	Node int    `json:"node"`
}

// Layout is the rendered tree: the text and its node arena. Index 0
// is always the root.
type Layout struct {
	Text  string           `json:"text"`
	Nodes []Rendered       `json:"nodes"`
	Stubs []StubOccurrence `json:"stubs,omitempty"`
}

// Render lays out the tree rooted at node. The root is rendered as a
// last sibling with an empty prefix.
func Render(root *walker.Node) *Layout {
	l := &Layout{}
	var b strings.Builder
	line := 0
	l.render(&b, root, "", true, &line)
	l.Text = b.String()
	return l
}

// render emits one node and recurses over its children, returning the
// node's arena index.
func (l *Layout) render(b *strings.Builder, n *walker.Node, prefix string, last bool, line *int) int {
	connector := "+-"
	if last {
		connector = "'-"
	}

	b.WriteString(prefix)
	b.WriteString(connector)
	offset := b.Len()
	b.WriteString(Marker)
	b.WriteString(" ")
	label := n.Attrs.Label()
	b.WriteString(label)
	b.WriteString("\n")

	idx := len(l.Nodes)
	l.Nodes = append(l.Nodes, Rendered{
		ID:     n.ID,
		Kind:   n.Kind,
		Label:  label,
		Line:   *line,
		Offset: offset,
	})
	*line++

	if n.Kind == walker.Stub {
		l.Stubs = append(l.Stubs, StubOccurrence{ID: n.ID, Node: idx})
		return idx
	}

	childPrefix := prefix + "| "
	if last {
		childPrefix = prefix + "  "
	}

	for i, child := range n.Children {
		childIdx := l.render(b, child, childPrefix, i == len(n.Children)-1, line)
		l.Nodes[idx].Children = append(l.Nodes[idx].Children, childIdx)
	}

	return idx
}
