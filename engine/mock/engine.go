package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
)

// Op names an engine operation recorded by MockEngine.
type Op string

const (
	OpStart   Op = "start"
	OpStop    Op = "stop"
	OpDispose Op = "dispose"
)

// Call is one recorded engine operation.
type Call struct {
	Op        Op
	SessionID string // empty for OpStart
	Query     string // empty unless OpStart
}

// Event is one scripted emission: exactly one of Progress or Result is set.
type Event struct {
	Progress *core.ProgressEvent
	Result   *core.ResultEvent
}

// Progress builds a scripted progress event.
func Progress(sessionID string, searched, matching uint64, elapsedMs int64, results uint64) Event {
	return Event{Progress: &core.ProgressEvent{
		SessionID:     sessionID,
		SeedsSearched: searched,
		MatchingSeeds: matching,
		ElapsedMs:     elapsedMs,
		ResultCount:   results,
	}}
}

// Result builds a scripted result event.
func Result(sessionID, seed string, score float64) Event {
	return Event{Result: &core.ResultEvent{SessionID: sessionID, Seed: seed, Score: score}}
}

// MockEngine is a test double for engine.Engine.
// It allows custom behavior injection via function fields.
type MockEngine struct {
	// StartSearchFunc is called by StartSearch if set.
	// If nil, a status with a sequential session ID ("s1", "s2", ...) is returned.
	StartSearchFunc func(ctx context.Context, query string, opts engine.StartOptions) (*core.Status, error)

	// StopSearchFunc is called by StopSearch if set.
	StopSearchFunc func(sessionID string) error

	// DisposeSearchFunc is called by DisposeSearch if set.
	DisposeSearchFunc func(ctx context.Context, sessionID string) error

	mu          sync.Mutex
	script      []Event
	calls       []Call
	nextID      int
	lastOptions engine.StartOptions
	emitting    map[string]chan struct{}
	wg          sync.WaitGroup
}

var _ engine.Engine = (*MockEngine)(nil)

// NewMockEngine creates a mock engine with no scripted events.
// Note: Returns concrete type to allow test assertions.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		emitting: make(map[string]chan struct{}),
	}
}

// WithScript sets the events replayed, in order, after every successful start.
func (m *MockEngine) WithScript(events ...Event) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append([]Event(nil), events...)
	return m
}

// StartSearch records the call and replays the script asynchronously.
func (m *MockEngine) StartSearch(ctx context.Context, query string, opts engine.StartOptions) (*core.Status, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: OpStart, Query: query})
	m.lastOptions = opts
	m.mu.Unlock()

	var status *core.Status
	if m.StartSearchFunc != nil {
		var err error
		status, err = m.StartSearchFunc(ctx, query, opts)
		if err != nil {
			return nil, err
		}
	} else {
		m.mu.Lock()
		m.nextID++
		id := m.nextID
		m.mu.Unlock()
		status = &core.Status{
			SessionID: fmt.Sprintf("s%d", id),
			Query:     query,
			StartedAt: time.Now().UTC(),
		}
	}

	m.mu.Lock()
	script := m.script
	done := make(chan struct{})
	if status != nil {
		m.emitting[status.SessionID] = done
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer close(done)
		if opts.Sink == nil {
			return
		}
		for _, ev := range script {
			switch {
			case ev.Progress != nil:
				opts.Sink.OnProgress(*ev.Progress)
			case ev.Result != nil:
				opts.Sink.OnResult(*ev.Result)
			}
		}
	}()

	return status, nil
}

// StopSearch records the call.
func (m *MockEngine) StopSearch(sessionID string) error {
	m.record(Call{Op: OpStop, SessionID: sessionID})
	if m.StopSearchFunc != nil {
		return m.StopSearchFunc(sessionID)
	}
	return nil
}

// DisposeSearch records the call and waits for the session's scripted
// events to finish so no event follows a successful dispose.
func (m *MockEngine) DisposeSearch(ctx context.Context, sessionID string) error {
	m.record(Call{Op: OpDispose, SessionID: sessionID})

	m.mu.Lock()
	done, ok := m.emitting[sessionID]
	delete(m.emitting, sessionID)
	m.mu.Unlock()
	if ok {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if m.DisposeSearchFunc != nil {
		return m.DisposeSearchFunc(ctx, sessionID)
	}
	return nil
}

// Wait blocks until every scripted replay has finished.
func (m *MockEngine) Wait() {
	m.wg.Wait()
}

// Calls returns a copy of the recorded calls in invocation order.
func (m *MockEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times op was invoked.
func (m *MockEngine) CallCount(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Op == op {
			count++
		}
	}
	return count
}

// LastOptions returns the StartOptions of the most recent StartSearch call.
func (m *MockEngine) LastOptions() engine.StartOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOptions
}

// Reset clears recorded calls, the script and injected behavior.
func (m *MockEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.script = nil
	m.nextID = 0
	m.lastOptions = engine.StartOptions{}
	m.StartSearchFunc = nil
	m.StopSearchFunc = nil
	m.DisposeSearchFunc = nil
}

func (m *MockEngine) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}
