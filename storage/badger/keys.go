package badger

import (
	"encoding/binary"

	"github.com/poiesic/seedsearch/core"
)

// Key prefixes for different data types
const (
	checkpointPrefix = "chkpt"
)

// makeCheckpointKey generates a key for a query's scan checkpoint.
// Format: prefix:queryKey
func makeCheckpointKey(queryKey core.ID) []byte {
	prefix := checkpointPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8) // 8 bytes for queryKey
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(queryKey))
	return buf
}
