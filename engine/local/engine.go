// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package local

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
	"github.com/poiesic/seedsearch/storage"
	"github.com/poiesic/seedsearch/storage/badger"
)

// Engine is an in-process engine.Engine.
// Sessions share one worker pool. Each session's events are delivered to its
// sink in order, one at a time, from a goroutine of their own, so handlers
// never run on the pool.
type Engine struct {
	cfg            *Config
	scorer         Scorer
	pool           *ants.Pool
	checkpoints    storage.CheckpointRepository
	ownCheckpoints bool
	logger         *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	running  sync.WaitGroup
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithScorer sets the scorer used to compile queries.
// Default is HashScorer.
func WithScorer(scorer Scorer) Option {
	return func(e *Engine) error {
		if scorer == nil {
			scorer = HashScorer{}
		}
		e.scorer = scorer
		return nil
	}
}

// WithCheckpointRepository stores checkpoints in repo instead of the
// database named by the config. The engine does not close repo.
func WithCheckpointRepository(repo storage.CheckpointRepository) Option {
	return func(e *Engine) error {
		e.checkpoints = repo
		e.ownCheckpoints = false
		return nil
	}
}

// New creates an engine. A nil cfg means DefaultConfig().
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		scorer:   HashScorer{},
		logger:   slog.Default(),
		sessions: make(map[string]*session),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.checkpoints == nil && cfg.checkpointsEnabled() {
		var (
			repo storage.CheckpointRepository
			err  error
		)
		if cfg.InMemoryCheckpoints {
			repo, err = badger.NewMemoryCheckpointRepository()
		} else {
			repo, err = badger.OpenCheckpointRepository(cfg.CheckpointPath)
		}
		if err != nil {
			return nil, fmt.Errorf("opening checkpoint store: %w", err)
		}
		e.checkpoints = repo
		e.ownCheckpoints = true
	}

	logger := e.logger
	pool, err := ants.NewPool(cfg.PoolSize, ants.WithPanicHandler(func(p any) {
		logger.Error("scan worker panicked", "panic", p)
	}))
	if err != nil {
		if e.ownCheckpoints {
			e.checkpoints.Close()
		}
		return nil, err
	}
	e.pool = pool

	return e, nil
}

// Loader returns a load function creating an engine from cfg.
func Loader(cfg *Config, opts ...Option) engine.LoadFunc {
	return func(ctx context.Context) (engine.Engine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// StartSearch compiles query, plans the scan and starts it in the background.
// The returned status carries a new session ID and the number of seeds the
// scan will examine. A reset of the query's checkpoint happens before the
// resume lookup, so passing both starts from startSeed.
func (e *Engine) StartSearch(ctx context.Context, query string, opts engine.StartOptions) (*core.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matcher, err := e.scorer.Compile(query)
	if err != nil {
		return nil, err
	}
	params, err := parseParams(opts.Config, e.cfg)
	if err != nil {
		return nil, err
	}
	sink := opts.Sink
	if sink == nil {
		sink = engine.NopSink
	}

	queryKey := core.IDFromContent(query)
	begin, end := params.startSeed, params.end()
	var priorSearched uint64
	if params.resetCheckpoint && e.checkpoints != nil {
		if err := e.checkpoints.DeleteCheckpoint(ctx, queryKey); err != nil {
			return nil, fmt.Errorf("deleting checkpoint: %w", err)
		}
		e.logger.Debug("checkpoint reset", "queryKey", queryKey)
	}
	if params.resume && e.checkpoints != nil {
		checkpoint, err := e.checkpoints.LoadCheckpoint(ctx, queryKey)
		if err != nil {
			return nil, fmt.Errorf("loading checkpoint: %w", err)
		}
		if checkpoint != nil && checkpoint.NextOffset > begin {
			begin = min(checkpoint.NextOffset, end)
			priorSearched = checkpoint.SeedsSearched
			e.logger.Debug("resuming search from checkpoint", "queryKey", queryKey, "offset", begin)
		}
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:            uuid.NewString(),
		queryKey:      queryKey,
		matcher:       matcher,
		params:        params,
		sink:          sink,
		ctx:           sessionCtx,
		cancel:        cancel,
		begin:         begin,
		end:           end,
		priorSearched: priorSearched,
		startedAt:     time.Now(),
		done:          make(chan struct{}),
		events:        eventQueue{ready: make(chan struct{}, 1)},
		delivered:     make(chan struct{}),
	}
	s.nextOffset.Store(begin)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		cancel()
		return nil, ErrEngineClosed
	}
	e.sessions[s.id] = s
	e.running.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.running.Done()
		e.run(s)
	}()

	e.logger.Debug("search started", "sessionID", s.id, "begin", begin, "end", end)
	return &core.Status{
		SessionID:  s.id,
		Query:      query,
		StartedAt:  s.startedAt,
		TotalSeeds: end - begin,
	}, nil
}

// StopSearch asks the session's scan to halt and returns without waiting.
// Unknown sessions are ignored.
func (e *Engine) StopSearch(sessionID string) error {
	if s := e.session(sessionID); s != nil {
		s.cancel()
	}
	return nil
}

// DisposeSearch stops the session, waits for its scan to finish, records a
// checkpoint and forgets the session. Events still queued are dropped and no
// handler call starts once DisposeSearch has been called; a handler already
// running may finish. Handlers may call DisposeSearch for their own session.
func (e *Engine) DisposeSearch(ctx context.Context, sessionID string) error {
	s := e.session(sessionID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.cancel()
	s.markDisposed()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	if e.sessions[sessionID] != s {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	delete(e.sessions, sessionID)
	e.mu.Unlock()

	if e.checkpoints == nil {
		return nil
	}
	if err := e.checkpoints.SaveCheckpoint(ctx, s.checkpoint()); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// Sessions returns the number of sessions that have not been disposed.
func (e *Engine) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Close disposes every remaining session, then releases the worker pool and
// the checkpoint store the engine opened. Subsequent searches fail with
// ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		if err := e.DisposeSearch(context.Background(), id); err != nil {
			e.logger.Warn("failed to dispose session on close", "sessionID", id, "err", err)
		}
	}
	e.running.Wait()
	e.pool.Release()

	if e.ownCheckpoints {
		return e.checkpoints.Close()
	}
	return nil
}

func (e *Engine) session(sessionID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[sessionID]
}

// run scans the session's range and reports progress until the scan ends.
func (e *Engine) run(s *session) {
	defer close(s.done)
	go s.deliver()

	stopTicker := make(chan struct{})
	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(s.params.progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.emitProgress()
			case <-stopTicker:
				return
			}
		}
	}()

	e.scan(s)

	close(stopTicker)
	<-tickerDone
	s.emitProgress()
	s.events.close()

	e.logger.Debug("search finished",
		"sessionID", s.id,
		"seedsSearched", s.searched.Load(),
		"matchingSeeds", s.matches.Load(),
		"stopped", s.ctx.Err() != nil)
}

// scan submits the range to the pool in waves of one batch per worker.
// The checkpoint offset only advances past fully scanned waves.
func (e *Engine) scan(s *session) {
	batch := s.params.batchSize
	wave := uint64(math.MaxUint64)
	if workers := uint64(e.pool.Cap()); batch <= math.MaxUint64/workers {
		wave = batch * workers
	}
	for offset := s.begin; offset < s.end; {
		if s.ctx.Err() != nil {
			return
		}
		waveEnd := s.end
		if s.end-offset > wave {
			waveEnd = offset + wave
		}

		var wg sync.WaitGroup
		for lo := offset; lo < waveEnd; lo += batch {
			hi := min(lo+batch, waveEnd)
			wg.Add(1)
			err := e.pool.Submit(func() {
				defer wg.Done()
				s.scanBatch(lo, hi)
			})
			if err != nil {
				wg.Done()
				e.logger.Error("failed to submit scan batch", "sessionID", s.id, "err", err)
				s.cancel()
				break
			}
			if hi == waveEnd {
				break
			}
		}
		wg.Wait()

		if s.ctx.Err() != nil {
			return
		}
		s.nextOffset.Store(waveEnd)
		offset = waveEnd
	}
}
