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

// Package storage provides the storage abstraction layer for seedsearch.
//
// The only state kept on disk is a scan checkpoint per query: how far the
// local engine got through the seed space, so a later run of the same query
// can pick up where the previous one stopped. Search results are never
// stored.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the repository interface:
//
//	repo, err := badger.NewMemoryCheckpointRepository()  // returns storage.CheckpointRepository
//
// so engines depend on CheckpointRepository rather than on BadgerDB.
//
// # Serialization
//
// Values are encoded with the MUS binary format (github.com/mus-format/mus-go)
// through MarshalCheckpoint and UnmarshalCheckpoint.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
