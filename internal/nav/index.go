// Package nav attaches navigation structure to a rendered layout and
// drives cursor movement over it.
//
// Movement commands read precomputed parent/first-child/prev/next
// links per arena index; nothing re-walks the vault. Sibling links are
// circular: next of the last sibling is the first, and prev of the
// first is the last. The root is trivially circular of length one.
package nav

import (
	"github.com/starford/eihwaz/internal/render"
	"github.com/starford/eihwaz/internal/walker"
)

// None marks an absent link.
const None = -1

// Record holds the navigation links attached to one arena index.
type Record struct {
	Parent     int `json:"parent"`
	FirstChild int `json:"first_child"`
	Prev       int `json:"prev"`
	Next       int `json:"next"`
	Siblings   int `json:"siblings"` // size of this node's sibling ring
}

// Index is the navigation structure for one layout: a record per
// arena index.
type Index struct {
	Records []Record `json:"records"`
}

// Build computes navigation records for the layout, then resolves
// stub occurrences so that descending into a stub lands in the
// canonical expansion's subtree.
func Build(l *render.Layout) *Index {
	idx := &Index{Records: make([]Record, len(l.Nodes))}
	for i := range idx.Records {
		idx.Records[i] = Record{Parent: None, FirstChild: None, Prev: None, Next: None, Siblings: 1}
	}

	if len(l.Nodes) > 0 {
		// Root: a circular sibling list of length one.
		idx.Records[0].Prev = 0
		idx.Records[0].Next = 0
	}

	for parent, node := range l.Nodes {
		k := len(node.Children)
		if k == 0 {
			continue
		}
		idx.Records[parent].FirstChild = node.Children[0]
		for i, child := range node.Children {
			r := &idx.Records[child]
			r.Parent = parent
			r.Prev = node.Children[(i-1+k)%k]
			r.Next = node.Children[(i+1)%k]
			r.Siblings = k
		}
	}

	idx.resolveStubs(l)
	return idx
}

// resolveStubs wires each stub's first-child link to the first-child
// link of the canonical (earliest expanded) occurrence of the same
// identifier. The result is transitive by construction: a stub points
// into the canonical subtree, never at another stub. Stubs whose
// identifier was never expanded, or whose canonical node is a leaf,
// keep an absent link.
func (idx *Index) resolveStubs(l *render.Layout) {
	canonical := make(map[string]int)
	for i, n := range l.Nodes {
		if n.Kind == walker.Expanded {
			if _, ok := canonical[n.ID]; !ok {
				canonical[n.ID] = i
			}
		}
	}

	for _, occ := range l.Stubs {
		c, ok := canonical[occ.ID]
		if !ok {
			continue
		}
		fc := idx.Records[c].FirstChild
		if fc == occ.Node {
			// Self-reference: the canonical node's only descent is the
			// stub itself. The link stays absent rather than looping.
			continue
		}
		idx.Records[occ.Node].FirstChild = fc
	}
}
