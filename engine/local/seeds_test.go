package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAt(t *testing.T) {
	assert.Equal(t, "11111111", SeedAt(0))
	assert.Equal(t, "11111112", SeedAt(1))
	assert.Equal(t, "11111121", SeedAt(uint64(len(SeedAlphabet))))
	assert.Equal(t, "ZZZZZZZZ", SeedAt(SeedSpace-1))
	assert.Equal(t, "11111111", SeedAt(SeedSpace), "indices wrap")
}

func TestSeedIndex(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, index := range []uint64{0, 1, 33, 34, 123456789, SeedSpace - 1} {
			got, err := SeedIndex(SeedAt(index))
			require.NoError(t, err)
			assert.Equal(t, index, got)
		}
	})

	t.Run("lowercase", func(t *testing.T) {
		got, err := SeedIndex("zzzzzzzz")
		require.NoError(t, err)
		assert.Equal(t, SeedSpace-1, got)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, seed := range []string{"", "1234567", "123456789", "0AAAAAAA", "OAAAAAAA", "AAAA-AAA"} {
			_, err := SeedIndex(seed)
			assert.ErrorIs(t, err, ErrInvalidSeed, seed)
		}
	})
}
