package local

import (
	"fmt"
	"math"
	"time"

	"github.com/poiesic/seedsearch/core"
)

// Option names recognized by the local engine.
const (
	OptionNumSeeds         = "numSeeds"
	OptionStartSeed        = "startSeed"
	OptionMinScore         = "minScore"
	OptionMaxResults       = "maxResults"
	OptionBatchSize        = "batchSize"
	OptionProgressInterval = "progressIntervalMs"
	OptionResume           = "resume"
	OptionResetCheckpoint  = "resetCheckpoint"
)

const (
	defaultNumSeeds = 1_000_000
	defaultMinScore = 99
)

// searchParams is the parsed form of a search's options.
type searchParams struct {
	numSeeds         uint64
	startSeed        uint64
	minScore         float64
	maxResults       uint64
	batchSize        uint64
	progressInterval time.Duration
	resume           bool
	resetCheckpoint  bool
}

// end returns the index one past the last seed to scan.
func (p searchParams) end() uint64 {
	if p.numSeeds > math.MaxUint64-p.startSeed {
		return math.MaxUint64
	}
	return p.startSeed + p.numSeeds
}

func parseParams(opts core.Options, cfg *Config) (searchParams, error) {
	var (
		p   searchParams
		err error
	)
	if p.numSeeds, err = opts.Uint64(OptionNumSeeds, defaultNumSeeds); err != nil {
		return p, err
	}
	if p.startSeed, err = parseStartSeed(opts); err != nil {
		return p, err
	}
	if p.minScore, err = opts.Float(OptionMinScore, defaultMinScore); err != nil {
		return p, err
	}
	if p.minScore < 0 || p.minScore > 100 {
		return p, fmt.Errorf("%w: %s must be between 0 and 100", core.ErrInvalidOption, OptionMinScore)
	}
	if p.maxResults, err = opts.Uint64(OptionMaxResults, 0); err != nil {
		return p, err
	}
	if p.batchSize, err = opts.Uint64(OptionBatchSize, uint64(cfg.BatchSize)); err != nil {
		return p, err
	}
	if p.batchSize == 0 {
		return p, fmt.Errorf("%w: %s must be at least 1", core.ErrInvalidOption, OptionBatchSize)
	}
	if p.progressInterval, err = opts.Duration(OptionProgressInterval, cfg.ProgressInterval); err != nil {
		return p, err
	}
	if p.progressInterval <= 0 {
		return p, fmt.Errorf("%w: %s must be positive", core.ErrInvalidOption, OptionProgressInterval)
	}
	if p.resume, err = opts.Bool(OptionResume, false); err != nil {
		return p, err
	}
	if p.resetCheckpoint, err = opts.Bool(OptionResetCheckpoint, false); err != nil {
		return p, err
	}
	return p, nil
}

// parseStartSeed accepts either a seed string or a seed index.
func parseStartSeed(opts core.Options) (uint64, error) {
	if s, ok := opts[OptionStartSeed].(string); ok {
		index, err := SeedIndex(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", core.ErrInvalidOption, OptionStartSeed, err)
		}
		return index, nil
	}
	return opts.Uint64(OptionStartSeed, 0)
}
