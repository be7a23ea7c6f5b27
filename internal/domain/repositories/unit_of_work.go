package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. A custody
// transition and its audit row commit together or not at all.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
