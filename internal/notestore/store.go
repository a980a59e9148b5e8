// Package notestore provides cached access to note attributes and
// content keyed by canonical identifier (vault-relative path).
//
// The store is the walker's view of the vault: Fetch returns the
// attribute mapping used for tree labels, Content returns raw note
// text for link extraction, and Resolve maps wikilink targets to
// canonical identifiers through the SQLite index. Content is cached
// per identifier; ReleaseAll drops the cache between tree builds.
package notestore

import (
	"errors"
	"fmt"
	"os"

	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/parser"
	"github.com/starford/eihwaz/internal/storage"
)

// Field is a single attribute: a name and an optional value. Set
// distinguishes "field not present" from "field present but empty".
type Field struct {
	Name  string
	Value string
	Set   bool
}

// Attributes is an ordered attribute mapping in the store's configured
// field order.
type Attributes []Field

// Get returns the value for name and whether it is present.
func (a Attributes) Get(name string) (string, bool) {
	for _, f := range a {
		if f.Name == name {
			return f.Value, f.Set
		}
	}
	return "", false
}

// Label joins the non-absent values with single spaces, in order.
func (a Attributes) Label() string {
	out := ""
	for _, f := range a {
		if !f.Set {
			continue
		}
		if out != "" {
			out += " "
		}
		out += f.Value
	}
	return out
}

// DefaultFields is the attribute order used when none is configured.
var DefaultFields = []string{"title", "keywords", "date"}

// Store reads notes from a vault, resolving identifiers through the
// index and caching content per identifier.
type Store struct {
	vault    storage.Provider
	resolver index.Resolver
	fields   []string

	content map[string]string
}

// New creates a store with the given attribute field order. A nil or
// empty fields slice falls back to DefaultFields.
func New(vault storage.Provider, resolver index.Resolver, fields []string) *Store {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return &Store{
		vault:    vault,
		resolver: resolver,
		fields:   fields,
		content:  make(map[string]string),
	}
}

// Fields returns the configured attribute field order.
func (s *Store) Fields() []string {
	return s.fields
}

// Resolve maps a wikilink target to a canonical identifier. Targets
// that are already canonical resolve to themselves.
func (s *Store) Resolve(target string) (string, error) {
	id, err := s.resolver.Resolve(target)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", &apperr.NotFoundError{ID: target}
		}
		return "", err
	}
	return id, nil
}

// Fetch returns the attribute mapping for id in the configured field
// order. It parses the note's content (served from cache when warm).
func (s *Store) Fetch(id string) (Attributes, error) {
	raw, err := s.Content(id)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("notestore: parse %s: %w", id, err)
	}

	attrs := make(Attributes, 0, len(s.fields))
	for _, name := range s.fields {
		f := Field{Name: name}
		switch name {
		case "identifier":
			f.Value, f.Set = id, true
		case "title":
			if res.Title != "" {
				f.Value, f.Set = res.Title, true
			}
		default:
			v, ok, err := frontmatterString(res.Frontmatter, name)
			if err != nil {
				return nil, &apperr.MalformedAttributesError{ID: id, Field: name}
			}
			f.Value, f.Set = v, ok
		}
		attrs = append(attrs, f)
	}
	return attrs, nil
}

// Content returns the raw content of id, reading the vault at most
// once per identifier until ReleaseAll is called.
func (s *Store) Content(id string) (string, error) {
	if c, ok := s.content[id]; ok {
		return c, nil
	}
	data, err := s.vault.Read(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &apperr.NotFoundError{ID: id}
		}
		return "", err
	}
	c := string(data)
	s.content[id] = c
	return c, nil
}

// Cached reports whether content for id is already in the cache.
func (s *Store) Cached(id string) bool {
	_, ok := s.content[id]
	return ok
}

// ReleaseAll drops the content cache. Called between tree builds so
// that each build sees the vault fresh.
func (s *Store) ReleaseAll() {
	s.content = make(map[string]string)
}

// frontmatterString flattens a frontmatter value into a string. Lists
// join with single spaces (keywords are commonly YAML lists); nested
// mappings are malformed.
func frontmatterString(fm map[string]any, name string) (string, bool, error) {
	if fm == nil {
		return "", false, nil
	}
	raw, ok := fm[name]
	if !ok {
		return "", false, nil
	}
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, true, nil
	case bool:
		return fmt.Sprintf("%t", v), true, nil
	case int, int64, float64:
		return fmt.Sprintf("%v", v), true, nil
	case []any:
		out := ""
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", false, fmt.Errorf("non-string list item")
			}
			if out != "" {
				out += " "
			}
			out += s
		}
		return out, true, nil
	default:
		return "", false, fmt.Errorf("unsupported value type %T", raw)
	}
}
