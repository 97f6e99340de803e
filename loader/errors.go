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

package loader

import "errors"

var (
	// ErrLoadFuncRequired is returned when a load function is not provided.
	ErrLoadFuncRequired = errors.New("load function required")

	// ErrNilEngine is returned when a load function reports success without an engine.
	ErrNilEngine = errors.New("load function returned a nil engine")

	// ErrLoadPanicked is returned when a load function panics.
	ErrLoadPanicked = errors.New("load function panicked")
)
