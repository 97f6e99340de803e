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

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds configuration for the local engine.
type Config struct {
	// PoolSize is the number of workers scanning seed batches, shared by all sessions.
	// Default: runtime.NumCPU()
	PoolSize int

	// BatchSize is the default number of seeds per pool task.
	// A search can override it with the batchSize option.
	// Default: 4096
	BatchSize int

	// ProgressInterval is the default time between progress snapshots.
	// A search can override it with the progressIntervalMs option.
	// Default: 250ms
	ProgressInterval time.Duration

	// CheckpointPath is the BadgerDB directory used to store scan checkpoints.
	// Empty disables checkpoints unless InMemoryCheckpoints is set.
	CheckpointPath string

	// InMemoryCheckpoints keeps checkpoints in an in-memory database.
	// Checkpoints then only survive for the lifetime of the engine.
	InMemoryCheckpoints bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithPoolSize sets the number of scanning workers.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithBatchSize sets the default number of seeds per pool task.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithProgressInterval sets the default time between progress snapshots.
func WithProgressInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		c.ProgressInterval = interval
	}
}

// WithCheckpointPath stores checkpoints in a BadgerDB database at path.
func WithCheckpointPath(path string) ConfigOption {
	return func(c *Config) {
		c.CheckpointPath = path
	}
}

// WithInMemoryCheckpoints stores checkpoints in an in-memory database.
func WithInMemoryCheckpoints() ConfigOption {
	return func(c *Config) {
		c.InMemoryCheckpoints = true
	}
}

// DefaultConfig returns a Config with one worker per CPU and checkpoints disabled.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		PoolSize:         poolSize,
		BatchSize:        4096,
		ProgressInterval: 250 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithPoolSize(4),
//	    WithCheckpointPath("./checkpoints"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: PoolSize must be at least 1", ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: BatchSize must be at least 1", ErrInvalidConfig)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("%w: ProgressInterval must be positive", ErrInvalidConfig)
	}
	if c.CheckpointPath != "" && c.InMemoryCheckpoints {
		return fmt.Errorf("%w: CheckpointPath and InMemoryCheckpoints are mutually exclusive", ErrInvalidConfig)
	}
	return nil
}

// checkpointsEnabled reports whether a checkpoint store should be opened.
func (c *Config) checkpointsEnabled() bool {
	return c.CheckpointPath != "" || c.InMemoryCheckpoints
}
