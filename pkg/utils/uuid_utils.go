package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDv7 returns a time-ordered UUID. Ledger and audit rows use v7
// so insertion order and ID order agree.
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails if the random source does; fall back to v4.
		return uuid.New()
	}
	return id
}
