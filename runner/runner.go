// Package runner drives the scan, hash, group and relocate pipeline once per
// directory, running directories in parallel and isolating their failures.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"imagededup/duplicates"
	"imagededup/logging"
	"imagededup/scanner"
	"imagededup/signalhandler"
	"imagededup/types"

	"golang.org/x/sync/errgroup"
)

// ErrNoDirectories is the usage error for an empty directory list
var ErrNoDirectories = errors.New("missing argument: directory")

// Observer is told about directory progress. Implementations must be safe
// for concurrent use; calls arrive from worker goroutines.
type Observer interface {
	DirectoryStarted(dir string)
	DirectoryFinished(result types.RunResult)
}

// Runner processes directories independently of each other
type Runner struct {
	extractor *scanner.Extractor
	relocator *duplicates.Relocator
	logger    *slog.Logger
	workers   int
	observer  Observer
}

// Option customises a Runner
type Option func(*Runner)

// WithWorkers bounds how many directories are processed at once
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithObserver registers an Observer
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logging.NewComponentLogger(logger, "runner") }
}

// New creates a Runner. Workers default to the number of CPUs.
func New(extractor *scanner.Extractor, relocator *duplicates.Relocator, opts ...Option) *Runner {
	r := &Runner{
		extractor: extractor,
		relocator: relocator,
		logger:    logging.NewNop(),
		workers:   signalhandler.GetOptimalProcs(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every directory and waits for all of them. The only error
// it returns is ErrNoDirectories; directory failures live in the Report.
func (r *Runner) Run(dirs []string) (Report, error) {
	if len(dirs) == 0 {
		return Report{}, ErrNoDirectories
	}

	results := make([]types.RunResult, len(dirs))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			results[i] = r.runDirectory(dir)
			return nil
		})
	}
	_ = g.Wait()

	return Report{Results: results}, nil
}

func (r *Runner) runDirectory(dir string) (result types.RunResult) {
	result.Dir = dir
	if r.observer != nil {
		r.observer.DirectoryStarted(dir)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Errorf("panic while processing %s: %v", dir, rec)
			r.logger.Error("directory run panicked", logging.Dir(dir), logging.Error(result.Err),
				logging.String("stack", string(debug.Stack())))
		}
		if r.observer != nil {
			r.observer.DirectoryFinished(result)
		}
	}()

	result = r.process(dir)
	if result.Err != nil {
		r.logger.Error("directory failed", logging.Dir(dir), logging.Error(result.Err))
	}
	return result
}

// process runs the four stages sequentially; grouping needs every record
// before duplicates can be identified
func (r *Runner) process(dir string) types.RunResult {
	result := types.RunResult{Dir: dir}

	candidates, err := scanner.ListCandidates(dir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Candidates = len(candidates)
	r.logger.Debug("scanned directory", logging.Dir(dir), logging.Int("candidates", len(candidates)))

	extracted := r.extractor.Extract(candidates)
	result.Hashed = len(extracted.Records)
	result.Skipped = extracted.Skipped

	groups := duplicates.Group(extracted.Records)

	outcome, err := r.relocator.Relocate(dir, groups)
	result.DuplicateSets = outcome.DuplicateSets
	result.Moved = outcome.Moved
	result.MovedBytes = outcome.MovedBytes
	result.MoveFailures = outcome.Failed
	result.NoDuplicates = outcome.NoDuplicates
	if err != nil {
		result.Err = err
	}
	return result
}
