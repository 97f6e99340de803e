package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
)

// EngineSource provides the shared engine, initializing it if needed.
// *loader.Loader implements it.
type EngineSource interface {
	Get(ctx context.Context) (engine.Engine, error)
}

// Manager starts and cancels search sessions on a shared engine.
// It is safe for concurrent use.
type Manager struct {
	source  EngineSource
	monitor SessionMonitor
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMonitor sets a lifecycle monitor.
// Default is a no-op monitor.
func WithMonitor(monitor SessionMonitor) Option {
	return func(m *Manager) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// NewManager creates a new session manager.
func NewManager(source EngineSource, opts ...Option) (*Manager, error) {
	if source == nil {
		return nil, ErrEngineSourceRequired
	}

	m := &Manager{
		source:  source,
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Start begins a search for query and returns the engine's acknowledgement.
//
// cfg is passed to the engine unmodified. handlers receives the session's
// progress and result events directly from the engine; pass nil to ignore
// them. The search keeps running after Start returns until it finishes or
// is cancelled; callers must Cancel every session they start to release
// engine resources. Whether a handler may Cancel its own session before
// returning is defined by the engine.
func (m *Manager) Start(ctx context.Context, query string, cfg core.Options, handlers engine.EventSink) (*core.Status, error) {
	if err := core.ValidateQuery(query); err != nil {
		m.monitor.StartFailed(query, err)
		return nil, err
	}
	if handlers == nil {
		handlers = engine.NopSink
	}

	eng, err := m.source.Get(ctx)
	if err != nil {
		m.logger.Error("error obtaining search engine", "err", err)
		m.monitor.StartFailed(query, err)
		return nil, err
	}

	status, err := eng.StartSearch(ctx, query, engine.StartOptions{
		Config: cfg,
		Sink:   handlers,
	})
	if err != nil {
		m.logger.Error("engine rejected search", "query", query, "err", err)
		m.monitor.StartFailed(query, err)
		return nil, err
	}

	if status != nil {
		m.logger.Debug("search started", "sessionID", status.SessionID, "query", query)
	}
	m.monitor.Started(status)
	return status, nil
}

// Cancel stops a session and releases the engine's resources for it.
//
// StopSearch is a fire-and-forget request: its error is logged and
// otherwise ignored. DisposeSearch is always called afterwards and its
// error, if any, is returned. Once Cancel returns nil the engine emits no
// further events for the session. Cancelling an unknown or already
// disposed session behaves however the engine defines it.
func (m *Manager) Cancel(ctx context.Context, sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		m.monitor.CancelFailed(sessionID, err)
		return err
	}

	eng, err := m.source.Get(ctx)
	if err != nil {
		m.logger.Error("error obtaining search engine", "err", err)
		m.monitor.CancelFailed(sessionID, err)
		return err
	}

	if err := eng.StopSearch(sessionID); err != nil {
		m.logger.Warn("error stopping search, disposing anyway", "sessionID", sessionID, "err", err)
	}

	if err := eng.DisposeSearch(ctx, sessionID); err != nil {
		m.logger.Error("error disposing search", "sessionID", sessionID, "err", err)
		m.monitor.CancelFailed(sessionID, err)
		return err
	}

	m.logger.Debug("search cancelled", "sessionID", sessionID)
	m.monitor.Cancelled(sessionID)
	return nil
}
