package search

import (
	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
)

// HandlerFuncs adapts plain functions to engine.EventSink.
// Either function may be nil, in which case those events are dropped.
type HandlerFuncs struct {
	Progress func(core.ProgressEvent)
	Result   func(core.ResultEvent)
}

var _ engine.EventSink = HandlerFuncs{}

// OnProgress calls h.Progress.
func (h HandlerFuncs) OnProgress(event core.ProgressEvent) {
	if h.Progress != nil {
		h.Progress(event)
	}
}

// OnResult calls h.Result.
func (h HandlerFuncs) OnResult(event core.ResultEvent) {
	if h.Result != nil {
		h.Result(event)
	}
}

// ChannelSink delivers events over channels.
//
// Sends block until received (or until the channel's buffer has room), so
// a slow reader slows the engine's delivery for that session. A nil
// channel drops its events. Close the sink only after the session has been
// cancelled, when no more events can arrive.
type ChannelSink struct {
	Progress chan core.ProgressEvent
	Results  chan core.ResultEvent
}

var _ engine.EventSink = (*ChannelSink)(nil)

// NewChannelSink creates a sink whose channels have the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelSink{
		Progress: make(chan core.ProgressEvent, buffer),
		Results:  make(chan core.ResultEvent, buffer),
	}
}

// OnProgress sends event on s.Progress.
func (s *ChannelSink) OnProgress(event core.ProgressEvent) {
	if s.Progress != nil {
		s.Progress <- event
	}
}

// OnResult sends event on s.Results.
func (s *ChannelSink) OnResult(event core.ResultEvent) {
	if s.Results != nil {
		s.Results <- event
	}
}

// Close closes both channels.
func (s *ChannelSink) Close() {
	if s.Progress != nil {
		close(s.Progress)
	}
	if s.Results != nil {
		close(s.Results)
	}
}
