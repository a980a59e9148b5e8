// Package models defines the domain types shared across layers.
package models

import "time"

// NoteMetadata is a lightweight representation of a vault file,
// returned by storage list operations and consumed by index sync.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
