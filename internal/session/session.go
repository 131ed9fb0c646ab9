// Package session identifies one compilation run end to end: the same ID
// threads through internal/logging entries, internal/tracing spans, and
// internal/metrics labels.
package session

import "github.com/google/uuid"

// ID is a compilation session identifier.
type ID string

// New mints a fresh session ID.
func New() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string { return string(id) }
