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

// Package local provides an in-process search engine.
//
// The engine scans a contiguous range of seeds on a shared ants worker pool,
// scores each seed against the query and reports matches and progress to the
// session's sink. Seeds are 8-character strings over a 34-symbol alphabet
// (digits without zero and letters without O) and are addressed by their
// index in that space, so a scan can be described by a start index and a
// count and resumed from a stored checkpoint.
//
// Recognized per-search options:
//
//	numSeeds            seeds to examine (default 1,000,000)
//	startSeed           first seed, as a seed string or an index
//	minScore            minimum score for a match, 0-100 (default 99)
//	maxResults          stop after this many results (default 0, unlimited)
//	batchSize           seeds per pool task (default from Config)
//	progressIntervalMs  progress snapshot interval (default from Config)
//	resume              continue from the stored checkpoint for the query
//	resetCheckpoint     delete the stored checkpoint before scanning
//
// Unrecognized options are ignored.
package local
