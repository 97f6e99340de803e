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

package local

import "errors"

var (
	// ErrMalformedQuery is returned when a query cannot be compiled.
	ErrMalformedQuery = errors.New("malformed query")
	// ErrSessionNotFound is returned when a session ID is unknown or already disposed.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEngineClosed is returned when the engine has been closed.
	ErrEngineClosed = errors.New("engine closed")
	// ErrInvalidSeed is returned when a seed string is not a valid seed.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrInvalidConfig is returned when the engine configuration is invalid.
	ErrInvalidConfig = errors.New("invalid engine config")
)
