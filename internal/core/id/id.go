// Package id provides UUIDv7 generation for ledger line identifiers.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
//
// Entity primary keys are plain int64 values assigned by the database
// (BIGSERIAL); the UUID line id exists so that individual ledger rows stay
// addressable across export/import even when serial ids are reassigned.
package id

import (
	"github.com/google/uuid"
)

// Line is a type alias for UUID, used for ledger line identifiers.
type Line = uuid.UUID

// NewLine generates a new UUIDv7 (time-ordered UUID).
func NewLine() Line {
	// uuid.NewV7() returns UUIDv7 per RFC 9562
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// ParseLine converts string to Line with validation.
func ParseLine(s string) (Line, error) {
	return uuid.Parse(s)
}

// NilLine returns zero-value UUID.
func NilLine() Line {
	return uuid.Nil
}
