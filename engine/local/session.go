package local

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
)

// cancelCheckInterval is how many seeds a worker scans between checks for cancellation.
const cancelCheckInterval = 64

type session struct {
	id        string
	queryKey  core.ID
	matcher   Matcher
	params    searchParams
	sink      engine.EventSink
	ctx       context.Context
	cancel    context.CancelFunc
	startedAt time.Time
	done      chan struct{} // closed when the scan has ended and its last event is queued

	begin, end    uint64
	priorSearched uint64
	nextOffset    atomic.Uint64
	searched      atomic.Uint64
	matches       atomic.Uint64

	countMu sync.Mutex
	results uint64 // guarded by countMu

	events    eventQueue
	delivered chan struct{} // closed when the delivery goroutine exits

	deliverMu sync.Mutex
	disposed  bool // guarded by deliverMu
}

func (s *session) scanBatch(lo, hi uint64) {
	var pending uint64
	defer func() { s.searched.Add(pending) }()

	for i := lo; i < hi; i++ {
		if pending == cancelCheckInterval {
			s.searched.Add(pending)
			pending = 0
			if s.ctx.Err() != nil {
				return
			}
		}
		seed := SeedAt(i)
		score := s.matcher.Score(seed)
		pending++
		if score >= s.params.minScore {
			s.matches.Add(1)
			s.emitResult(seed, score)
		}
	}
}

func (s *session) emitResult(seed string, score float64) {
	s.countMu.Lock()
	defer s.countMu.Unlock()

	limit := s.params.maxResults
	if limit > 0 && s.results >= limit {
		return
	}
	s.results++
	s.events.push(event{result: &core.ResultEvent{
		SessionID: s.id,
		Seed:      seed,
		Score:     score,
	}})
	if limit > 0 && s.results >= limit {
		s.cancel()
	}
}

func (s *session) emitProgress() {
	s.countMu.Lock()
	defer s.countMu.Unlock()

	s.events.push(event{progress: &core.ProgressEvent{
		SessionID:     s.id,
		SeedsSearched: s.searched.Load(),
		MatchingSeeds: s.matches.Load(),
		ElapsedMs:     time.Since(s.startedAt).Milliseconds(),
		ResultCount:   s.results,
	}})
}

// deliver hands queued events to the sink in order until the queue is
// closed and drained. Events still queued after dispose are dropped.
func (s *session) deliver() {
	defer close(s.delivered)
	for {
		batch, ok := s.events.pop()
		if !ok {
			return
		}
		for _, ev := range batch {
			if !s.deliverable() {
				continue
			}
			if ev.progress != nil {
				s.sink.OnProgress(*ev.progress)
			} else {
				s.sink.OnResult(*ev.result)
			}
		}
	}
}

func (s *session) deliverable() bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	return !s.disposed
}

// markDisposed stops delivery. A handler already running may finish, and
// may itself be the caller.
func (s *session) markDisposed() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	s.disposed = true
}

// checkpoint describes how far the query's range has been scanned.
func (s *session) checkpoint() *core.Checkpoint {
	next := s.nextOffset.Load()
	return &core.Checkpoint{
		QueryKey:      s.queryKey,
		NextOffset:    next,
		SeedsSearched: s.priorSearched + (next - s.begin),
	}
}

// event is one queued emission: exactly one field is set.
type event struct {
	progress *core.ProgressEvent
	result   *core.ResultEvent
}

// eventQueue is an unbounded FIFO between scan workers and the delivery
// goroutine. Pushing never blocks, so a slow or re-entrant sink cannot
// stall the worker pool.
type eventQueue struct {
	mu     sync.Mutex
	items  []event
	closed bool
	ready  chan struct{}
}

func (q *eventQueue) push(ev event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *eventQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// pop waits for queued events. It returns false once the queue is closed and empty.
func (q *eventQueue) pop() ([]event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			batch := q.items
			q.items = nil
			q.mu.Unlock()
			return batch, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.ready
	}
}
