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

// Package seedsearch starts and cancels seed searches on a lazily loaded,
// process-wide engine.
//
// The package-level functions share one loader and one session manager.
// The engine is loaded on the first Start, Cancel or Engine call; by default
// it is the in-process engine from engine/local. SetEngineLoader replaces
// the load function until the engine has been loaded.
//
// Callers that want their own engine lifecycle can build a loader.Loader and
// a search.Manager directly.
package seedsearch

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine"
	"github.com/poiesic/seedsearch/engine/local"
	"github.com/poiesic/seedsearch/loader"
	"github.com/poiesic/seedsearch/search"
)

// ErrEngineAlreadyLoaded is returned by SetEngineLoader once the default
// engine has started loading.
var ErrEngineAlreadyLoaded = errors.New("engine already loaded")

// Options is a search configuration handed to the engine unmodified.
type Options = core.Options

// Handlers receives a session's progress and result events.
type Handlers = engine.EventSink

// HandlerFuncs adapts plain functions to Handlers.
type HandlerFuncs = search.HandlerFuncs

var (
	mu             sync.Mutex
	defaultLoad    engine.LoadFunc = local.Loader(local.DefaultConfig())
	defaultLoader  *loader.Loader
	defaultManager *search.Manager
)

// SetEngineLoader replaces the function used to load the default engine.
// It fails with ErrEngineAlreadyLoaded once loading has begun. A load that
// failed leaves the loader uninitialized, so the function can be replaced
// before the next attempt.
func SetEngineLoader(load engine.LoadFunc) error {
	if load == nil {
		return loader.ErrLoadFuncRequired
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLoader != nil && defaultLoader.State() != loader.StateUninitialized {
		return ErrEngineAlreadyLoaded
	}
	defaultLoad = load
	return nil
}

// Engine returns the default engine, loading it if necessary.
func Engine(ctx context.Context) (engine.Engine, error) {
	l, _ := defaults()
	return l.Get(ctx)
}

// Start begins a search on the default engine.
// See search.Manager.Start.
func Start(ctx context.Context, query string, cfg Options, handlers Handlers) (*core.Status, error) {
	_, m := defaults()
	return m.Start(ctx, query, cfg, handlers)
}

// Cancel stops a search on the default engine and releases its resources.
// See search.Manager.Cancel.
func Cancel(ctx context.Context, sessionID string) error {
	_, m := defaults()
	return m.Cancel(ctx, sessionID)
}

// defaults returns the process-wide loader and manager, creating them once.
// The loader reads defaultLoad when a load starts, so every caller shares
// one loader no matter when SetEngineLoader ran.
func defaults() (*loader.Loader, *search.Manager) {
	mu.Lock()
	defer mu.Unlock()
	if defaultManager == nil {
		// Neither constructor fails for a non-nil load function and source.
		defaultLoader, _ = loader.New(loadDefault)
		defaultManager, _ = search.NewManager(defaultLoader)
	}
	return defaultLoader, defaultManager
}

func loadDefault(ctx context.Context) (engine.Engine, error) {
	mu.Lock()
	load := defaultLoad
	mu.Unlock()
	return load(ctx)
}
