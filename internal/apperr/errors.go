// Package apperr defines the error taxonomy shared across layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// NotFoundError reports that a referenced note could not be resolved.
// Path holds the chain of identifiers from the walk root down to the
// note whose link could not be followed.
type NotFoundError struct {
	ID   string
	Path []string
}

func (e *NotFoundError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("note not found: %s", e.ID)
	}
	return fmt.Sprintf("note not found: %s (via %s)", e.ID, strings.Join(e.Path, " > "))
}

// Is makes errors.Is(err, ErrNotFound) succeed for NotFoundError values.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedAttributesError reports a frontmatter field the note store
// cannot flatten into a single string value.
type MalformedAttributesError struct {
	ID    string
	Field string
}

func (e *MalformedAttributesError) Error() string {
	return fmt.Sprintf("malformed attributes in %s: field %q is not a scalar", e.ID, e.Field)
}
