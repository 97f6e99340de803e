package local

import (
	"fmt"
	"strings"
)

const (
	// SeedAlphabet lists the symbols a seed is made of, in index order.
	SeedAlphabet = "123456789ABCDEFGHIJKLMNPQRSTUVWXYZ"
	// SeedLength is the number of symbols in a seed.
	SeedLength = 8
)

// SeedSpace is the number of distinct seeds.
var SeedSpace = func() uint64 {
	n := uint64(1)
	for range SeedLength {
		n *= uint64(len(SeedAlphabet))
	}
	return n
}()

// SeedAt returns the seed at index. Indices wrap around SeedSpace.
func SeedAt(index uint64) string {
	index %= SeedSpace
	base := uint64(len(SeedAlphabet))
	var buf [SeedLength]byte
	for i := SeedLength - 1; i >= 0; i-- {
		buf[i] = SeedAlphabet[index%base]
		index /= base
	}
	return string(buf[:])
}

// SeedIndex returns the index of seed. Lowercase letters are accepted.
func SeedIndex(seed string) (uint64, error) {
	if len(seed) != SeedLength {
		return 0, fmt.Errorf("%w: %q must be %d characters", ErrInvalidSeed, seed, SeedLength)
	}
	base := uint64(len(SeedAlphabet))
	var index uint64
	for _, r := range strings.ToUpper(seed) {
		pos := strings.IndexRune(SeedAlphabet, r)
		if pos < 0 {
			return 0, fmt.Errorf("%w: %q contains %q", ErrInvalidSeed, seed, r)
		}
		index = index*base + uint64(pos)
	}
	return index, nil
}
