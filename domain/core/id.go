package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one complete bootstrap run across all groups.
	RunID ID
	// GroupID identifies a subject group (e.g. "control", "patient").
	GroupID string
)

func (id RunID) String() string   { return ID(id).String() }
func (id GroupID) String() string { return string(id) }

// NewRunID creates a new run identifier
func NewRunID() RunID {
	return RunID(NewID())
}
