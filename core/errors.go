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

package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyQuery indicates the search query text is empty or blank.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptySessionID indicates a session identifier is empty.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrInvalidOption indicates a search option has a value of the wrong type.
	ErrInvalidOption = errors.New("invalid search option")

	// ErrInvalidCheckpoint indicates a Checkpoint failed validation.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
