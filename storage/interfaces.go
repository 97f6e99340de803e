package storage

import (
	"context"

	"github.com/poiesic/seedsearch/core"
)

// CheckpointRepository persists scan checkpoints keyed by query.
// Implementations must be thread-safe and support concurrent access.
type CheckpointRepository interface {
	// SaveCheckpoint stores a checkpoint, replacing any previous one for the
	// same QueryKey. Sets UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a query key.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, queryKey core.ID) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a query key.
	// Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, queryKey core.ID) error

	// Close releases resources held by the repository.
	Close() error
}
