package search

import (
	"fmt"
	"io"
	"sync"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
)

// Printer writes progress snapshots and results as text.
// Progress is rewritten in place on one line; each result gets its own line.
type Printer struct {
	progress io.Writer
	results  io.Writer
	total    uint64
	last     core.ProgressEvent
	reported bool
	mu       sync.Mutex
}

var _ engine.EventSink = (*Printer)(nil)

// NewPrinter creates a new printer.
// progress: where to write progress output (typically os.Stderr)
// results: where to write results (typically os.Stdout)
// total: seeds the search will examine, or 0 if unknown
func NewPrinter(progress, results io.Writer, total uint64) *Printer {
	return &Printer{
		progress: progress,
		results:  results,
		total:    total,
	}
}

// OnProgress records and prints the snapshot.
func (p *Printer) OnProgress(event core.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = event
	p.reported = true
	p.report()
}

// OnResult prints the seed and its score.
func (p *Printer) OnResult(event core.ResultEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.results, "%s\t%.3f\n", event.Seed, event.Score)
}

// SetTotal sets the number of seeds the search will examine, typically
// from the status returned by Start.
func (p *Printer) SetTotal(total uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Last returns the most recent progress snapshot.
func (p *Printer) Last() core.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Finish ends the progress line.
func (p *Printer) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reported {
		fmt.Fprintln(p.progress) // Print newline after final progress
	}
}

// report prints the current progress. Must be called with lock held.
func (p *Printer) report() {
	rate := 0.0
	if elapsed := p.last.Elapsed(); elapsed > 0 {
		rate = float64(p.last.SeedsSearched) / elapsed.Seconds()
	}

	if p.total > 0 {
		percentage := float64(p.last.SeedsSearched) / float64(p.total) * 100.0
		fmt.Fprintf(p.progress, "\rProgress: %d/%d (%.1f%%) - %d matches, %d results - %.1f seeds/s",
			p.last.SeedsSearched, p.total, percentage, p.last.MatchingSeeds, p.last.ResultCount, rate)
		return
	}

	fmt.Fprintf(p.progress, "\rProgress: %d - %d matches, %d results - %.1f seeds/s",
		p.last.SeedsSearched, p.last.MatchingSeeds, p.last.ResultCount, rate)
}
