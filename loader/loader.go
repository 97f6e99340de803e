package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/seedsearch/engine"
	"golang.org/x/sync/singleflight"
)

// loadKey is the single singleflight key; a Loader manages one engine.
const loadKey = "engine"

// State is the lifecycle state of a Loader.
type State int

const (
	// StateUninitialized means no engine is loaded and no load is running.
	StateUninitialized State = iota
	// StateInitializing means a load is in flight.
	StateInitializing
	// StateReady means an engine is cached.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Loader lazily initializes and caches a single engine.
type Loader struct {
	load   engine.LoadFunc
	group  singleflight.Group
	logger *slog.Logger

	mu     sync.RWMutex
	handle engine.Engine
	state  State

	loads atomic.Int64
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// New creates a Loader that initializes its engine with load.
func New(load engine.LoadFunc, opts ...Option) (*Loader, error) {
	if load == nil {
		return nil, ErrLoadFuncRequired
	}

	l := &Loader{
		load:   load,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Get returns the engine, loading it first if necessary.
//
// If a load is already in flight, Get waits for it rather than starting a
// second one. The load itself is not tied to ctx: a caller whose ctx ends
// stops waiting and gets ctx.Err(), while the load continues for everyone
// else. Load errors are returned unchanged.
func (l *Loader) Get(ctx context.Context) (engine.Engine, error) {
	if handle := l.cached(); handle != nil {
		return handle, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(loadKey, func() (any, error) {
		// A previous flight may have finished between cached() and DoChan.
		if handle := l.cached(); handle != nil {
			return handle, nil
		}
		return l.initialize(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(engine.Engine), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Loads returns how many times the load function has been invoked.
func (l *Loader) Loads() int {
	return int(l.loads.Load())
}

func (l *Loader) cached() engine.Engine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handle
}

func (l *Loader) setState(state State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
}

// initialize runs inside the single flight.
func (l *Loader) initialize(ctx context.Context) (handle engine.Engine, err error) {
	l.setState(StateInitializing)
	attempt := l.loads.Add(1)
	start := time.Now()
	l.logger.Debug("loading search engine", "attempt", attempt)

	defer func() {
		if r := recover(); r != nil {
			l.setState(StateUninitialized)
			l.logger.Error("search engine load panicked", "attempt", attempt, "panic", r)
			handle, err = nil, fmt.Errorf("%w: %v", ErrLoadPanicked, r)
		}
	}()

	handle, err = l.load(ctx)
	if err == nil && handle == nil {
		err = ErrNilEngine
	}
	if err != nil {
		l.setState(StateUninitialized)
		l.logger.Error("error loading search engine", "attempt", attempt, "err", err)
		return nil, err
	}

	l.mu.Lock()
	l.handle = handle
	l.state = StateReady
	l.mu.Unlock()

	l.logger.Info("search engine loaded", "attempt", attempt, "duration", time.Since(start))
	return handle, nil
}
