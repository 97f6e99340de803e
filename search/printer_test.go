package search

import (
	"bytes"
	"testing"

	"github.com/poiesic/seedsearch/core"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Progress(t *testing.T) {
	var progress, results bytes.Buffer
	p := NewPrinter(&progress, &results, 2000)

	p.OnProgress(core.ProgressEvent{SessionID: "s1", SeedsSearched: 1000, MatchingSeeds: 3, ElapsedMs: 500, ResultCount: 3})

	output := progress.String()
	assert.Contains(t, output, "1000/2000", "should show position")
	assert.Contains(t, output, "50.0%", "should show percentage")
	assert.Contains(t, output, "3 matches")
	assert.Contains(t, output, "2000.0 seeds/s")
	assert.Empty(t, results.String())

	assert.Equal(t, uint64(1000), p.Last().SeedsSearched)
}

func TestPrinter_UnknownTotal(t *testing.T) {
	var progress, results bytes.Buffer
	p := NewPrinter(&progress, &results, 0)

	p.OnProgress(core.ProgressEvent{SeedsSearched: 42})

	assert.Contains(t, progress.String(), "Progress: 42 -")
	assert.NotContains(t, progress.String(), "%")
}

func TestPrinter_Results(t *testing.T) {
	var progress, results bytes.Buffer
	p := NewPrinter(&progress, &results, 0)

	p.OnResult(core.ResultEvent{SessionID: "s1", Seed: "ABCD1234", Score: 42.5})
	p.OnResult(core.ResultEvent{SessionID: "s1", Seed: "ZZZZ9999", Score: 99})

	assert.Equal(t, "ABCD1234\t42.500\nZZZZ9999\t99.000\n", results.String())
	assert.Empty(t, progress.String())
}

func TestPrinter_Finish(t *testing.T) {
	t.Run("ends progress line", func(t *testing.T) {
		var progress bytes.Buffer
		p := NewPrinter(&progress, &bytes.Buffer{}, 10)
		p.OnProgress(core.ProgressEvent{SeedsSearched: 10, ElapsedMs: 1})
		p.Finish()
		assert.True(t, bytes.HasSuffix(progress.Bytes(), []byte("\n")))
	})

	t.Run("no output without progress", func(t *testing.T) {
		var progress bytes.Buffer
		p := NewPrinter(&progress, &bytes.Buffer{}, 10)
		p.Finish()
		assert.Empty(t, progress.String())
	})
}

func TestPrinter_SetTotal(t *testing.T) {
	var progress, results bytes.Buffer
	p := NewPrinter(&progress, &results, 0)
	p.SetTotal(400)

	p.OnProgress(core.ProgressEvent{SeedsSearched: 100})

	assert.Contains(t, progress.String(), "100/400 (25.0%)")
}
