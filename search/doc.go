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

// Package search starts seed searches on a shared engine and relays their events.
//
// The Manager is a thin orchestration layer over an opaque engine:
//   - Start obtains the engine from its EngineSource (waiting for the first
//     load if one is in flight), hands the query and options to the engine
//     untouched, and returns the engine's acknowledgement
//   - Cancel asks the engine to stop a session and then always disposes it
//
// The Manager keeps no session table. Events are delivered by the engine
// straight to the caller's engine.EventSink; nothing is buffered, filtered,
// deduplicated or reordered on the way. HandlerFuncs, ChannelSink and
// Printer are ready-made sinks.
//
// Errors from the loader and the engine are returned exactly as received.
// Nothing is retried.
package search
