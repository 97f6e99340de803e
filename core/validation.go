package core

import (
	"fmt"
	"strings"
)

// ValidateQuery checks that query text is present.
// The query itself is opaque; only blank text is rejected here.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateSessionID checks that a session identifier is present.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return nil
}

// ValidateCheckpoint validates a Checkpoint according to domain rules.
//
// Validation rules:
//   - QueryKey must not be zero
//
// NOT validated:
//   - NextOffset (0 is a valid position)
//   - UpdatedAt (set by the repository on save)
func ValidateCheckpoint(checkpoint *Checkpoint) error {
	if checkpoint == nil {
		return fmt.Errorf("%w: checkpoint is nil", ErrInvalidCheckpoint)
	}

	if checkpoint.QueryKey == 0 {
		return fmt.Errorf("%w: query key is zero", ErrInvalidCheckpoint)
	}

	return nil
}
