package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
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
	// RunID identifies a single significance run.
	RunID ID
	// FeatureID identifies a table row (an OTU or other feature).
	FeatureID ID
	// SampleID identifies a table column.
	SampleID ID
	// SubjectID identifies an individual whose samples form a longitudinal series.
	SubjectID ID
)

// String conversions for domain IDs
func (id RunID) String() string     { return ID(id).String() }
func (id FeatureID) String() string { return ID(id).String() }
func (id SampleID) String() string  { return ID(id).String() }
func (id SubjectID) String() string { return ID(id).String() }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// Timestamp represents a point in time within the domain
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time converts back to time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
