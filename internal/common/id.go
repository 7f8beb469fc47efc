package common

import "github.com/google/uuid"

// NewID returns a fresh time-ordered identifier (UUIDv7). Ids sort roughly by
// creation time; uniqueness relies on the random tail.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails.
		return uuid.NewString()
	}
	return id.String()
}
