package core

import "github.com/google/uuid"

// NewID generates a new unique identifier (UUID v4 string). Used for turn ids
// so one orchestration call can be correlated across log entries.
func NewID() string { return uuid.NewString() }
