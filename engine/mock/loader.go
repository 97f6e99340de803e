package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/seedsearch/engine"
)

// CountingLoader is a load-counter stub whose Load method satisfies
// engine.LoadFunc.
type CountingLoader struct {
	eng   engine.Engine
	count atomic.Int32

	mu   sync.Mutex
	err  error
	gate chan struct{}
}

// NewCountingLoader creates a loader that returns eng on every Load.
func NewCountingLoader(eng engine.Engine) *CountingLoader {
	return &CountingLoader{eng: eng}
}

// WithError makes subsequent loads fail with err. Pass nil to succeed again.
func (l *CountingLoader) WithError(err error) *CountingLoader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
	return l
}

// Hold makes subsequent loads block until Release is called.
func (l *CountingLoader) Hold() *CountingLoader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gate = make(chan struct{})
	return l
}

// Release unblocks loads waiting since Hold.
func (l *CountingLoader) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gate != nil {
		close(l.gate)
		l.gate = nil
	}
}

// Load counts the invocation, waits for the gate if held, then returns
// the configured engine or error.
func (l *CountingLoader) Load(ctx context.Context) (engine.Engine, error) {
	l.count.Add(1)

	l.mu.Lock()
	gate := l.gate
	l.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return l.eng, nil
}

// Count returns how many times Load was invoked.
func (l *CountingLoader) Count() int {
	return int(l.count.Load())
}
