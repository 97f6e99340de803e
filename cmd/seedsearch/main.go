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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/poiesic/seedsearch"
	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/engine/local"
	"github.com/poiesic/seedsearch/search"
	"github.com/poiesic/seedsearch/sprite"
	"github.com/urfave/cli/v2"
)

// disposeTimeout bounds the final Cancel once the search is over.
const disposeTimeout = 30 * time.Second

var errNoQuery = errors.New("a query is required")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seedsearch",
		Usage: "Search seeds and look up card sprites",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search seeds matching a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "options",
						Aliases: []string{"o"},
						Usage:   "YAML file of search options; flags override it",
					},
					&cli.Uint64Flag{
						Name:  "num-seeds",
						Usage: "Number of seeds to examine",
						Value: 1_000_000,
					},
					&cli.StringFlag{
						Name:  "start-seed",
						Usage: "First seed to examine",
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum score (0-100) for a seed to match",
						Value: 99,
					},
					&cli.Uint64Flag{
						Name:  "max-results",
						Usage: "Stop after this many results (0 for no limit)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of seeds per worker task",
						Value: local.DefaultConfig().BatchSize,
					},
					&cli.IntFlag{
						Name:    "threads",
						Aliases: []string{"t"},
						Usage:   "Number of scanning workers",
						Value:   local.DefaultConfig().PoolSize,
					},
					&cli.StringFlag{
						Name:  "checkpoint-db",
						Usage: "Path to BadgerDB directory for scan checkpoints",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue from the stored checkpoint for this query",
					},
					&cli.BoolFlag{
						Name:  "reset-checkpoint",
						Usage: "Delete the stored checkpoint for this query before scanning",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Give up after this long (0 for no limit)",
					},
				},
			},
			{
				Name:   "sprite",
				Usage:  "Print atlas rectangles for a deck and a stake",
				Action: spriteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "deck",
						Usage: "Deck name",
						Value: sprite.DefaultCardBack,
					},
					&cli.StringFlag{
						Name:  "stake",
						Usage: "Stake name",
						Value: sprite.DefaultStake,
					},
					&cli.Float64Flag{
						Name:  "scale",
						Usage: "Display scale",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "list",
						Usage: "List known deck and stake names",
					},
				},
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errNoQuery
	}

	opts, err := searchOptions(c)
	if err != nil {
		return err
	}

	cfgOpts := []local.ConfigOption{
		local.WithPoolSize(c.Int("threads")),
		local.WithBatchSize(c.Int("batch-size")),
	}
	if path := c.String("checkpoint-db"); path != "" {
		cfgOpts = append(cfgOpts, local.WithCheckpointPath(path))
	}
	cfg := local.NewConfig(cfgOpts...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid engine configuration: %w", err)
	}
	if err := seedsearch.SetEngineLoader(local.Loader(cfg)); err != nil {
		return fmt.Errorf("failed to configure engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	maxResults, err := opts.Uint64(local.OptionMaxResults, 0)
	if err != nil {
		return err
	}
	printer := search.NewPrinter(c.App.ErrWriter, c.App.Writer, 0)
	sink := newCompletionSink(printer, maxResults)

	status, err := seedsearch.Start(ctx, query, opts, sink)
	if err != nil {
		return fmt.Errorf("search failed to start: %w", err)
	}
	printer.SetTotal(status.TotalSeeds)
	sink.setTotal(status.TotalSeeds)
	slog.Debug("search running", "sessionID", status.SessionID, "totalSeeds", status.TotalSeeds)

	select {
	case <-sink.done:
	case <-ctx.Done():
		slog.Info("search interrupted", "reason", context.Cause(ctx))
	}

	// The search context may be gone; disposal still has to happen.
	disposeCtx, cancel := context.WithTimeout(context.Background(), disposeTimeout)
	defer cancel()
	cancelErr := seedsearch.Cancel(disposeCtx, status.SessionID)
	printer.Finish()

	last := printer.Last()
	fmt.Fprintf(c.App.ErrWriter, "Searched %d seeds, %d matches, %d results in %s\n",
		last.SeedsSearched, last.MatchingSeeds, last.ResultCount, last.Elapsed().Round(time.Millisecond))

	if eng, err := seedsearch.Engine(disposeCtx); err == nil {
		if closer, ok := eng.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Error("error closing engine", "err", err)
			}
		}
	}

	if cancelErr != nil {
		return fmt.Errorf("failed to dispose search: %w", cancelErr)
	}
	return nil
}

// searchOptions builds the search options from the options file and the
// flags that were set explicitly.
func searchOptions(c *cli.Context) (core.Options, error) {
	opts := core.Options{}
	if path := c.String("options"); path != "" {
		loaded, err := core.LoadOptionsFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load options: %w", err)
		}
		opts = loaded
	}

	flags := core.Options{}
	// Defaults apply only when neither the file nor a flag sets the option.
	setDefault := func(name string, value any) {
		if !opts.Has(name) {
			flags[name] = value
		}
	}
	if c.IsSet("num-seeds") {
		flags[local.OptionNumSeeds] = c.Uint64("num-seeds")
	} else {
		setDefault(local.OptionNumSeeds, c.Uint64("num-seeds"))
	}
	if c.IsSet("min-score") {
		flags[local.OptionMinScore] = c.Float64("min-score")
	} else {
		setDefault(local.OptionMinScore, c.Float64("min-score"))
	}
	if c.IsSet("start-seed") {
		flags[local.OptionStartSeed] = c.String("start-seed")
	}
	if c.IsSet("max-results") {
		flags[local.OptionMaxResults] = c.Uint64("max-results")
	}
	if c.IsSet("resume") {
		flags[local.OptionResume] = c.Bool("resume")
	}
	if c.IsSet("reset-checkpoint") {
		flags[local.OptionResetCheckpoint] = c.Bool("reset-checkpoint")
	}
	return opts.Merge(flags), nil
}

// completionSink forwards events to a printer and closes done once the
// search has examined every planned seed or produced maxResults results.
type completionSink struct {
	*search.Printer

	maxResults uint64
	done       chan struct{}
	once       sync.Once

	mu         sync.Mutex
	total      uint64
	totalKnown bool
	last       core.ProgressEvent
}

func newCompletionSink(printer *search.Printer, maxResults uint64) *completionSink {
	return &completionSink{
		Printer:    printer,
		maxResults: maxResults,
		done:       make(chan struct{}),
	}
}

func (s *completionSink) OnProgress(event core.ProgressEvent) {
	s.Printer.OnProgress(event)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = event
	s.check()
}

func (s *completionSink) setTotal(total uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.totalKnown = true
	s.check()
}

// check must be called with mu held.
func (s *completionSink) check() {
	exhausted := s.totalKnown && s.last.SeedsSearched >= s.total
	limited := s.maxResults > 0 && s.last.ResultCount >= s.maxResults
	if exhausted || limited {
		s.once.Do(func() { close(s.done) })
	}
}

func spriteCommand(c *cli.Context) error {
	w := c.App.Writer
	if c.Bool("list") {
		fmt.Fprintf(w, "Decks: %s\n", strings.Join(sprite.CardBacks(), ", "))
		fmt.Fprintf(w, "Stakes: %s\n", strings.Join(sprite.Stakes(), ", "))
		return nil
	}

	scale := c.Float64("scale")
	printRect(w, "deck", sprite.CardBack(c.String("deck"), scale))
	printRect(w, "stake", sprite.Stake(c.String("stake"), scale))
	return nil
}

func printRect(w io.Writer, kind string, r sprite.Rect) {
	fmt.Fprintf(w, "%s\t%s\tx=%g y=%g w=%g h=%g sheet=%gx%g\n",
		kind, r.Name, r.X, r.Y, r.Width, r.Height, r.SheetWidth, r.SheetHeight)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
