package local

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
	"github.com/poiesic/seedsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects events for inspection.
type recordingSink struct {
	mu       sync.Mutex
	progress []core.ProgressEvent
	results  []core.ResultEvent
}

func (r *recordingSink) OnProgress(e core.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, e)
}

func (r *recordingSink) OnResult(e core.ResultEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, e)
}

func (r *recordingSink) snapshot() ([]core.ProgressEvent, []core.ResultEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.ProgressEvent(nil), r.progress...), append([]core.ResultEvent(nil), r.results...)
}

// finished reports whether a progress event covering total seeds arrived.
func (r *recordingSink) finished(total uint64) bool {
	progress, _ := r.snapshot()
	return len(progress) > 0 && progress[len(progress)-1].SeedsSearched == total
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(NewConfig(WithPoolSize(2), WithBatchSize(50)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNew_InvalidConfig(t *testing.T) {
	e, err := New(NewConfig(WithPoolSize(0)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, e)
}

func TestEngine_FullScan(t *testing.T) {
	e := newTestEngine(t)
	sink := &recordingSink{}
	ctx := context.Background()
	const query = "Showman ante 2"

	status, err := e.StartSearch(ctx, query, engine.StartOptions{
		Config: core.Options{"numSeeds": 1000, "minScore": 90, "progressIntervalMs": "1h"},
		Sink:   sink,
	})
	require.NoError(t, err)
	require.NotEmpty(t, status.SessionID)
	assert.Equal(t, query, status.Query)
	assert.Equal(t, uint64(1000), status.TotalSeeds)
	assert.False(t, status.StartedAt.IsZero())

	require.Eventually(t, func() bool { return sink.finished(1000) }, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))

	progress, results := sink.snapshot()
	require.Len(t, progress, 1, "only the final snapshot is due within the interval")

	// Every seed scoring at least minScore is reported exactly once.
	matcher, err := HashScorer{}.Compile(query)
	require.NoError(t, err)
	want := map[string]bool{}
	for i := range uint64(1000) {
		if seed := SeedAt(i); matcher.Score(seed) >= 90 {
			want[seed] = true
		}
	}
	got := map[string]bool{}
	for _, r := range results {
		assert.Equal(t, status.SessionID, r.SessionID)
		assert.GreaterOrEqual(t, r.Score, 90.0)
		got[r.Seed] = true
	}
	assert.Len(t, results, len(want))
	assert.Equal(t, want, got)

	final := progress[0]
	assert.Equal(t, status.SessionID, final.SessionID)
	assert.Equal(t, uint64(len(want)), final.MatchingSeeds)
	assert.Equal(t, uint64(len(want)), final.ResultCount)
	assert.Equal(t, 0, e.Sessions())
}

func TestEngine_MaxResults(t *testing.T) {
	e := newTestEngine(t)
	sink := &recordingSink{}
	ctx := context.Background()

	status, err := e.StartSearch(ctx, "anything", engine.StartOptions{
		Config: core.Options{"numSeeds": 100000, "minScore": 0, "maxResults": 5},
		Sink:   sink,
	})
	require.NoError(t, err)

	// The final snapshot follows the fifth result.
	require.Eventually(t, func() bool {
		progress, _ := sink.snapshot()
		return len(progress) > 0 && progress[len(progress)-1].ResultCount == 5 &&
			progress[len(progress)-1].SeedsSearched < 100000
	}, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))

	progress, results := sink.snapshot()
	assert.Len(t, results, 5)
	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.Equal(t, uint64(5), last.ResultCount)
	assert.Less(t, last.SeedsSearched, uint64(100000), "scan should stop early")
}

func TestEngine_NoEventsAfterDispose(t *testing.T) {
	e := newTestEngine(t)
	sink := &recordingSink{}
	ctx := context.Background()

	status, err := e.StartSearch(ctx, "long scan", engine.StartOptions{
		Config: core.Options{"numSeeds": 1 << 40, "minScore": 50, "progressIntervalMs": 1},
		Sink:   sink,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		progress, _ := sink.snapshot()
		return len(progress) > 0
	}, 5*time.Second, time.Millisecond)

	s := e.session(status.SessionID)
	require.NotNil(t, s)
	require.NoError(t, e.StopSearch(status.SessionID))
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))
	<-s.delivered

	progress, results := sink.snapshot()
	time.Sleep(20 * time.Millisecond)
	progressAfter, resultsAfter := sink.snapshot()
	assert.Equal(t, len(progress), len(progressAfter))
	assert.Equal(t, len(results), len(resultsAfter))
}

// cancellingSink disposes its own session from the first result handler.
type cancellingSink struct {
	recordingSink
	eng *Engine

	once       sync.Once
	session    *session
	disposeErr error
	handled    chan struct{}
}

func (c *cancellingSink) OnResult(e core.ResultEvent) {
	c.recordingSink.OnResult(e)
	c.once.Do(func() {
		defer close(c.handled)
		c.session = c.eng.session(e.SessionID)
		if err := c.eng.StopSearch(e.SessionID); err != nil {
			c.disposeErr = err
			return
		}
		c.disposeErr = c.eng.DisposeSearch(context.Background(), e.SessionID)
	})
}

func TestEngine_HandlerCancelsOwnSession(t *testing.T) {
	e := newTestEngine(t)
	sink := &cancellingSink{eng: e, handled: make(chan struct{})}

	_, err := e.StartSearch(context.Background(), "first hit wins", engine.StartOptions{
		Config: core.Options{"numSeeds": 100, "minScore": 0},
		Sink:   sink,
	})
	require.NoError(t, err)

	select {
	case <-sink.handled:
	case <-time.After(5 * time.Second):
		t.Fatal("DisposeSearch called from a result handler did not return")
	}
	require.NoError(t, sink.disposeErr)
	require.NotNil(t, sink.session)
	<-sink.session.delivered

	_, results := sink.snapshot()
	assert.Len(t, results, 1, "queued events are dropped once disposed")
	assert.Equal(t, 0, e.Sessions())
}

func TestEngine_UnknownSession(t *testing.T) {
	e := newTestEngine(t)

	assert.NoError(t, e.StopSearch("missing"))
	assert.ErrorIs(t, e.DisposeSearch(context.Background(), "missing"), ErrSessionNotFound)
}

func TestEngine_DisposeTwice(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	status, err := e.StartSearch(ctx, "q", engine.StartOptions{Config: core.Options{"numSeeds": 10}})
	require.NoError(t, err)

	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))
	assert.ErrorIs(t, e.DisposeSearch(ctx, status.SessionID), ErrSessionNotFound)
}

func TestEngine_RejectsRequests(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.StartSearch(ctx, "bad\x07query", engine.StartOptions{})
	assert.ErrorIs(t, err, ErrMalformedQuery)

	_, err = e.StartSearch(ctx, "q", engine.StartOptions{Config: core.Options{"minScore": "high"}})
	assert.ErrorIs(t, err, core.ErrInvalidOption)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.StartSearch(cancelled, "q", engine.StartOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 0, e.Sessions())
}

func TestEngine_ResumeFromCheckpoint(t *testing.T) {
	repo, err := badger.NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer repo.Close()

	e := newTestEngine(t, WithCheckpointRepository(repo))
	ctx := context.Background()
	const query = "resumable"

	sink := &recordingSink{}
	status, err := e.StartSearch(ctx, query, engine.StartOptions{
		Config: core.Options{"numSeeds": 400, "minScore": 100},
		Sink:   sink,
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sink.finished(400) }, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))

	checkpoint, err := repo.LoadCheckpoint(ctx, core.IDFromContent(query))
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, uint64(400), checkpoint.NextOffset)
	assert.Equal(t, uint64(400), checkpoint.SeedsSearched)

	sink = &recordingSink{}
	status, err = e.StartSearch(ctx, query, engine.StartOptions{
		Config: core.Options{"numSeeds": 1000, "minScore": 100, "resume": true},
		Sink:   sink,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(600), status.TotalSeeds, "resumed scan skips the stored range")
	require.Eventually(t, func() bool { return sink.finished(600) }, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))

	checkpoint, err = repo.LoadCheckpoint(ctx, core.IDFromContent(query))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), checkpoint.NextOffset)
	assert.Equal(t, uint64(1000), checkpoint.SeedsSearched)

	// Without resume the range starts over.
	status, err = e.StartSearch(ctx, query, engine.StartOptions{
		Config: core.Options{"numSeeds": 1000, "minScore": 100},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), status.TotalSeeds)
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))
}

func TestEngine_ResetCheckpoint(t *testing.T) {
	repo, err := badger.NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer repo.Close()

	e := newTestEngine(t, WithCheckpointRepository(repo))
	ctx := context.Background()
	const query = "reset me"
	queryKey := core.IDFromContent(query)

	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{
		QueryKey:      queryKey,
		NextOffset:    700,
		SeedsSearched: 700,
	}))

	status, err := e.StartSearch(ctx, query, engine.StartOptions{
		Config: core.Options{"numSeeds": 1000, "minScore": 100, "resume": true, "resetCheckpoint": true},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), status.TotalSeeds, "reset happens before resume")

	require.NoError(t, e.StopSearch(status.SessionID))
	s := e.session(status.SessionID)
	require.NotNil(t, s)
	<-s.done
	checkpoint := s.checkpoint()
	require.NoError(t, e.DisposeSearch(ctx, status.SessionID))

	stored, err := repo.LoadCheckpoint(ctx, queryKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, checkpoint.NextOffset, stored.NextOffset, "stored checkpoint comes from the new scan")
	assert.LessOrEqual(t, stored.SeedsSearched, uint64(1000))
}

func TestEngine_OwnedInMemoryCheckpoints(t *testing.T) {
	e, err := New(NewConfig(WithPoolSize(1), WithInMemoryCheckpoints()))
	require.NoError(t, err)
	require.NotNil(t, e.checkpoints)
	assert.True(t, e.ownCheckpoints)
	require.NoError(t, e.Close())
}

func TestEngine_Close(t *testing.T) {
	e, err := New(NewConfig(WithPoolSize(1)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = e.StartSearch(ctx, "q", engine.StartOptions{Config: core.Options{"numSeeds": 1 << 40}})
	require.NoError(t, err)
	assert.Equal(t, 1, e.Sessions())

	require.NoError(t, e.Close())
	assert.Equal(t, 0, e.Sessions())
	require.NoError(t, e.Close(), "second close is a no-op")

	_, err = e.StartSearch(ctx, "q", engine.StartOptions{})
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestLoader(t *testing.T) {
	load := Loader(NewConfig(WithPoolSize(1)))

	eng, err := load(context.Background())
	require.NoError(t, err)
	require.IsType(t, &Engine{}, eng)
	require.NoError(t, eng.(*Engine).Close())

	load = Loader(NewConfig(WithBatchSize(0)))
	eng, err = load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, eng)
}
