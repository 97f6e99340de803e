package search

import (
	"testing"

	"github.com/poiesic/seedsearch/core"
	"github.com/stretchr/testify/assert"
)

func TestHandlerFuncs(t *testing.T) {
	t.Run("forwards to functions", func(t *testing.T) {
		var gotProgress core.ProgressEvent
		var gotResult core.ResultEvent
		h := HandlerFuncs{
			Progress: func(ev core.ProgressEvent) { gotProgress = ev },
			Result:   func(ev core.ResultEvent) { gotResult = ev },
		}

		h.OnProgress(core.ProgressEvent{SessionID: "s1", SeedsSearched: 10})
		h.OnResult(core.ResultEvent{SessionID: "s1", Seed: "ABCD1234", Score: 1})

		assert.Equal(t, core.ProgressEvent{SessionID: "s1", SeedsSearched: 10}, gotProgress)
		assert.Equal(t, core.ResultEvent{SessionID: "s1", Seed: "ABCD1234", Score: 1}, gotResult)
	})

	t.Run("nil functions drop events", func(t *testing.T) {
		h := HandlerFuncs{}
		assert.NotPanics(t, func() {
			h.OnProgress(core.ProgressEvent{})
			h.OnResult(core.ResultEvent{})
		})
	})
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(2)

	sink.OnProgress(core.ProgressEvent{SessionID: "s1", SeedsSearched: 1})
	sink.OnResult(core.ResultEvent{SessionID: "s1", Seed: "AAAAAAAA"})
	sink.OnProgress(core.ProgressEvent{SessionID: "s1", SeedsSearched: 2})
	sink.Close()

	var progress []uint64
	for ev := range sink.Progress {
		progress = append(progress, ev.SeedsSearched)
	}
	var seeds []string
	for ev := range sink.Results {
		seeds = append(seeds, ev.Seed)
	}

	assert.Equal(t, []uint64{1, 2}, progress)
	assert.Equal(t, []string{"AAAAAAAA"}, seeds)
}

func TestChannelSink_NilChannels(t *testing.T) {
	sink := &ChannelSink{}
	assert.NotPanics(t, func() {
		sink.OnProgress(core.ProgressEvent{})
		sink.OnResult(core.ResultEvent{})
		sink.Close()
	})
}

func TestNewChannelSink_NegativeBuffer(t *testing.T) {
	sink := NewChannelSink(-1)
	assert.Equal(t, 0, cap(sink.Progress))
	assert.Equal(t, 0, cap(sink.Results))
}
