// Package walker materializes a tree from the directed reference graph
// of a note vault.
//
// The graph may contain cycles and convergent paths. The walker bounds
// work to one content fetch per identifier: the first time an
// identifier is reached it is expanded in full; every later reference
// to it, whether a true cycle or a diamond, becomes a stub node with
// no children. Stubs are rewired to their canonical expansion by the
// navigation indexer after rendering.
package walker

import (
	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/notestore"
	"github.com/starford/eihwaz/internal/parser"
)

// Kind discriminates the two node variants.
type Kind int

const (
	// Expanded nodes carry attributes and children.
	Expanded Kind = iota
	// Stub marks an identifier whose content was already fetched
	// elsewhere in this session's traversal.
	Stub
)

// Node is one vertex of the materialized tree.
type Node struct {
	ID       string
	Kind     Kind
	Attrs    notestore.Attributes
	Children []*Node
}

// Session holds the per-build traversal state. A session is built,
// used for exactly one Walk, and discarded; Close releases the
// store's content cache.
type Session struct {
	store   *notestore.Store
	visited map[string]struct{}
}

// NewSession creates a fresh traversal session over the given store.
func NewSession(store *notestore.Store) *Session {
	return &Session{
		store:   store,
		visited: make(map[string]struct{}),
	}
}

// Close tears down the session, dropping the store's content cache.
func (s *Session) Close() {
	s.store.ReleaseAll()
}

// Walk traverses the reference graph depth-first from root and
// returns the materialized tree. root may be any resolvable target
// (path or title). The walk fails with apperr.NotFoundError, carrying
// the path from root, when any referenced note cannot be resolved.
func (s *Session) Walk(root string) (*Node, error) {
	id, err := s.store.Resolve(root)
	if err != nil {
		return nil, err
	}
	s.visited[id] = struct{}{}
	return s.walk(id, []string{id})
}

// walk expands id. path is the root-to-id identifier chain, used only
// for error reporting.
func (s *Session) walk(id string, path []string) (*Node, error) {
	content, err := s.store.Content(id)
	if err != nil {
		return nil, attachPath(err, path)
	}
	attrs, err := s.store.Fetch(id)
	if err != nil {
		return nil, err
	}

	node := &Node{ID: id, Kind: Expanded, Attrs: attrs}

	for _, target := range parser.Links(content) {
		childID, err := s.store.Resolve(target)
		if err != nil {
			return nil, attachPath(err, path)
		}
		if _, seen := s.visited[childID]; seen {
			// Content for childID is already cached, so this fetch
			// never touches the vault again.
			stubAttrs, err := s.store.Fetch(childID)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, &Node{ID: childID, Kind: Stub, Attrs: stubAttrs})
			continue
		}
		s.visited[childID] = struct{}{}
		child, err := s.walk(childID, append(path, childID))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// attachPath fills in the root-to-node chain on NotFoundError values
// that do not carry one yet.
func attachPath(err error, path []string) error {
	if nf, ok := err.(*apperr.NotFoundError); ok && len(nf.Path) == 0 {
		nf.Path = append([]string(nil), path...)
	}
	return err
}
