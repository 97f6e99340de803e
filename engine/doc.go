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

// Package engine defines the capability surface of a seed search engine.
//
// The engine is an opaque computational module loaded at runtime. This
// package does not search anything itself; it describes what an engine
// must offer so that the loader and session manager can drive it:
//   - Engine: start, stop and dispose searches identified by session ID
//   - EventSink: receives streamed progress snapshots and results
//   - LoadFunc: produces an Engine, possibly slowly, possibly failing
//
// # Implementation Packages
//
//   - engine/local: an in-process reference engine backed by a worker pool
//   - engine/mock: test doubles with scripted events and call recording
//
// # Event Delivery
//
// Engines call EventSink methods from their own goroutines. Callers that
// share state between a sink and other code must synchronize it. An engine
// must not call a session's sink after DisposeSearch for that session has
// returned.
package engine
