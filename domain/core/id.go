package core

import (
	"fmt"
	"strings"

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
	RefereeID ID
	MatchID   ID
	PenaltyID ID
	TeamID    ID
	SeasonID  ID
	RunID     ID
)

// String conversions for domain IDs
func (id RefereeID) String() string { return ID(id).String() }
func (id MatchID) String() string   { return ID(id).String() }
func (id PenaltyID) String() string { return ID(id).String() }
func (id TeamID) String() string    { return ID(id).String() }
func (id SeasonID) String() string  { return ID(id).String() }
func (id RunID) String() string     { return ID(id).String() }

// ParseRefereeID parses a string into RefereeID
func ParseRefereeID(s string) (RefereeID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("referee ID cannot be empty")
	}
	return RefereeID(s), nil
}

// ParseMatchID parses a string into MatchID
func ParseMatchID(s string) (MatchID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("match ID cannot be empty")
	}
	return MatchID(s), nil
}

// ParseSeasonID parses a string into SeasonID
func ParseSeasonID(s string) (SeasonID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("season ID cannot be empty")
	}
	return SeasonID(s), nil
}
