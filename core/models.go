package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status is an engine's immediate acknowledgement of a started search.
// It is not the outcome; the search keeps running after it is returned.
type Status struct {
	SessionID  string    // Engine-assigned session identifier
	Query      string    // Query text as accepted by the engine
	StartedAt  time.Time // When the engine accepted the search
	TotalSeeds uint64    // Seeds the engine plans to examine (0 if unknown)
}

// ProgressEvent is a periodic snapshot of a running search.
// Each event replaces the previous one; values are totals, not deltas.
type ProgressEvent struct {
	SessionID     string
	SeedsSearched uint64 // Total seeds examined so far
	MatchingSeeds uint64 // Seeds that satisfied the query so far
	ElapsedMs     int64  // Milliseconds since the search started
	ResultCount   uint64 // Results emitted so far
}

// Elapsed returns ElapsedMs as a time.Duration.
func (p ProgressEvent) Elapsed() time.Duration {
	return time.Duration(p.ElapsedMs) * time.Millisecond
}

// ResultEvent reports a single matching seed.
type ResultEvent struct {
	SessionID string
	Seed      string
	Score     float64
}

// Checkpoint records how far a query has been scanned so a later
// search for the same query can continue where it stopped.
type Checkpoint struct {
	QueryKey      ID        // IDFromContent of the query text
	NextOffset    uint64    // First seed index not yet examined
	SeedsSearched uint64    // Seeds examined across all runs
	UpdatedAt     time.Time // When the checkpoint was last written
}
