package search

import "github.com/poiesic/seedsearch/core"

// SessionMonitor provides hooks to observe session lifecycle.
// Implement this interface to track starts and cancellations.
// Hooks run synchronously on the caller's goroutine.
type SessionMonitor interface {
	Started(status *core.Status)
	StartFailed(query string, err error)
	Cancelled(sessionID string)
	CancelFailed(sessionID string, err error)
}

// noopMonitor is a no-op implementation of SessionMonitor
type noopMonitor struct{}

var _ SessionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Started(_ *core.Status)         {}
func (n *noopMonitor) StartFailed(_ string, _ error)  {}
func (n *noopMonitor) Cancelled(_ string)             {}
func (n *noopMonitor) CancelFailed(_ string, _ error) {}
