package engine

import (
	"context"

	"github.com/poiesic/seedsearch/core"
)

// Engine is a loaded search engine.
// Implementations must be safe for concurrent use by multiple sessions.
type Engine interface {
	// StartSearch begins an asynchronous search for query.
	// The returned Status is an acknowledgement carrying the session ID;
	// events for the session are delivered to opts.Sink afterwards.
	// Returns an error if the engine rejects the request.
	StartSearch(ctx context.Context, query string, opts StartOptions) (*core.Status, error)

	// StopSearch requests a cooperative halt of the session's background work.
	// It does not wait for the work to stop.
	StopSearch(sessionID string) error

	// DisposeSearch releases everything the engine holds for the session.
	// It returns once no further events will be emitted for it.
	DisposeSearch(ctx context.Context, sessionID string) error
}

// EventSink receives events for one search session.
// Whether a handler may cancel its own session before returning is up to
// the engine; the local engine allows it.
type EventSink interface {
	// OnProgress receives the latest complete progress snapshot.
	OnProgress(event core.ProgressEvent)

	// OnResult receives one matching seed.
	OnResult(event core.ResultEvent)
}

// StartOptions is the configuration handed to StartSearch: the caller's
// options, untouched, plus the sink for the session's events.
type StartOptions struct {
	Config core.Options
	Sink   EventSink
}

// LoadFunc initializes an engine.
type LoadFunc func(ctx context.Context) (Engine, error)

// NopSink discards all events.
var NopSink EventSink = nopSink{}

type nopSink struct{}

func (nopSink) OnProgress(core.ProgressEvent) {}
func (nopSink) OnResult(core.ResultEvent)     {}
