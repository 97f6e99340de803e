package local

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
)

// Scorer compiles query text into a Matcher.
type Scorer interface {
	Compile(query string) (Matcher, error)
}

// Matcher scores seeds for one compiled query.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Score returns the seed's score in [0, 100).
	Score(seed string) float64
}

// HashScorer scores a seed by hashing it together with the query.
// Scores are deterministic and uniformly distributed, so a minimum score of
// m matches about (100-m)% of seeds.
type HashScorer struct{}

var _ Scorer = HashScorer{}

// Compile rejects blank queries and queries containing control characters.
func (HashScorer) Compile(query string) (Matcher, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is blank", ErrMalformedQuery)
	}
	for _, r := range query {
		if unicode.IsControl(r) {
			return nil, fmt.Errorf("%w: control character %U", ErrMalformedQuery, r)
		}
	}
	return hashMatcher{prefix: []byte(query + "|")}, nil
}

type hashMatcher struct {
	prefix []byte
}

func (m hashMatcher) Score(seed string) float64 {
	h, _ := blake2b.New(8, nil)
	h.Write(m.prefix)
	h.Write([]byte(seed))
	// 53 bits fit a float64 mantissa exactly.
	v := binary.LittleEndian.Uint64(h.Sum(nil)) >> 11
	return float64(v) / float64(uint64(1)<<53) * 100
}
