package storage

import "github.com/google/uuid"

// UUIDGenerator produces unique identifiers for created entities.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
