// Package treeservice coordinates the walk → render → index pipeline
// and note access for the API, MCP, and TUI front-ends.
package treeservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/nav"
	"github.com/starford/eihwaz/internal/notestore"
	"github.com/starford/eihwaz/internal/parser"
	"github.com/starford/eihwaz/internal/render"
	"github.com/starford/eihwaz/internal/storage"
	"github.com/starford/eihwaz/internal/walker"
)

// Tree is one fully built navigable tree: rendered text plus the
// navigation index over its arena.
type Tree struct {
	Root   string         `json:"root"`
	Layout *render.Layout `json:"layout"`
	Nav    *nav.Index     `json:"nav"`
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Backlinks   []string       `json:"backlinks"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Service coordinates storage, the index, and the tree pipeline.
type Service struct {
	store  storage.Provider
	db     *index.DB
	fields []string
}

// NewService creates a new tree service with the given attribute
// field order (nil falls back to the store default).
func NewService(store storage.Provider, db *index.DB, fields []string) *Service {
	return &Service{store: store, db: db, fields: fields}
}

// BuildTree walks the reference graph from root, renders it, and
// builds the navigation index. Each call runs a fresh session: the
// content cache lives exactly as long as the build.
func (s *Service) BuildTree(_ context.Context, root string) (*Tree, error) {
	session := walker.NewSession(notestore.New(s.store, s.db, s.fields))
	defer session.Close()

	node, err := session.Walk(root)
	if err != nil {
		return nil, err
	}
	layout := render.Render(node)
	return &Tree{
		Root:   node.ID,
		Layout: layout,
		Nav:    nav.Build(layout),
	}, nil
}

// GetNote reads a note from storage, parses it, and enriches it with
// backlinks from the index.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Path:        path,
		Title:       res.Title,
		Content:     string(data),
		Tags:        nonNilSlice(res.Tags),
		Frontmatter: res.Frontmatter,
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   time.Now(),
	}, nil
}

// Resolve maps a wikilink target to its canonical identifier.
func (s *Service) Resolve(_ context.Context, target string) (string, error) {
	return s.db.Resolve(target)
}

// Backlinks lists the notes whose bodies reference the given note.
func (s *Service) Backlinks(_ context.Context, path string) ([]string, error) {
	return s.db.Backlinks(path)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
