package organize

import (
	"context"
	"fmt"
	"math"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// DefaultWorkers bounds the executor and backup worker pools when the caller
// does not choose a size.
const DefaultWorkers = 4

// Reporter receives the two live output streams: progress percentages and
// human-readable status lines, both in action completion order.
type Reporter interface {
	Progress(pct int)
	Status(line string)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Progress(int)  {}
func (NopReporter) Status(string) {}

// Outcome records what happened to a single action.
type Outcome struct {
	Action   Action
	Err      error
	Duration time.Duration
}

// Result summarizes one executed batch. Outcomes are in completion order,
// matching the journal. Success means every action succeeded; execution is
// best-effort, so a false Success still leaves the succeeded actions applied.
type Result struct {
	Sequence uint64
	Run      string
	Outcomes []Outcome
	Errors   []error
	Success  bool
	Duration time.Duration
}

// Executor runs a planned batch against the filesystem. Actions are dispatched
// to a bounded worker pool; per-action failures are caught, logged and counted
// toward progress without aborting the batch.
type Executor struct {
	fs       filesystem.FullFileSystem
	journal  *Journal
	logger   zerolog.Logger
	errorLog zerolog.Logger
	workers  int
	dryRun   bool
}

// NewExecutor creates an executor. workers <= 0 selects DefaultWorkers.
func NewExecutor(fsys filesystem.FullFileSystem, journal *Journal, logger, errorLog zerolog.Logger, workers int, dryRun bool) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Executor{
		fs:       fsys,
		journal:  journal,
		logger:   logger,
		errorLog: errorLog,
		workers:  workers,
		dryRun:   dryRun,
	}
}

// Execute runs every action in the batch and returns the per-action outcomes.
// The batch is assigned the next sequence id; each completed action is
// journaled with it. In dry-run mode nothing on disk changes but journal
// entries and status lines are still produced.
func (e *Executor) Execute(ctx context.Context, batch *Batch, reporter Reporter) *Result {
	if reporter == nil {
		reporter = NopReporter{}
	}
	start := time.Now()
	result := &Result{Success: true}
	total := len(batch.Actions)
	if total == 0 {
		result.Duration = time.Since(start)
		return result
	}

	result.Sequence = e.journal.NextSequence()
	result.Run = uuid.NewString()

	e.logger.Info().
		Uint64("sequence", result.Sequence).
		Str("run", result.Run).
		Str("mode", batch.Mode.String()).
		Int("actions", total).
		Bool("dry_run", e.dryRun).
		Msg("starting execution")

	state := &executionState{total: total, result: result, reporter: reporter}

	// Removals run only after every move has finished: a recursive remove
	// racing a move out of the same directory would destroy the file.
	var moves, removes []Action
	for _, a := range batch.Actions {
		if a.Kind == ActionRemove {
			removes = append(removes, a)
		} else {
			moves = append(moves, a)
		}
	}
	e.runPhase(ctx, moves, state)
	e.runPhase(ctx, removes, state)

	result.Duration = time.Since(start)
	e.logger.Info().
		Uint64("sequence", result.Sequence).
		Int("failed", len(result.Errors)).
		Dur("elapsed", result.Duration).
		Msg("execution finished")
	return result
}

// executionState is the shared mutable tail of one Execute call. Its lock
// serializes outcome recording, journal appends and event emission, so the
// on-disk journal order is the completion order and progress never regresses.
type executionState struct {
	mu        sync.Mutex
	total     int
	completed int
	result    *Result
	reporter  Reporter
}

func (e *Executor) runPhase(ctx context.Context, actions []Action, state *executionState) {
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for _, action := range actions {
		sem <- struct{}{}
		wg.Add(1)
		go func(a Action) {
			defer wg.Done()
			defer func() { <-sem }()
			started := time.Now()
			err := e.perform(ctx, a)
			e.complete(state, Outcome{Action: a, Err: err, Duration: time.Since(started)})
		}(action)
	}
	wg.Wait()
}

func (e *Executor) complete(state *executionState, outcome Outcome) {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.completed++
	pct := int(math.Round(float64(state.completed) / float64(state.total) * 100))
	state.reporter.Progress(pct)

	a := outcome.Action
	if outcome.Err == nil {
		entry := Entry{
			Kind:      a.Kind,
			Source:    a.Source,
			Path:      a.Path,
			Timestamp: time.Now(),
			Sequence:  state.result.Sequence,
			Run:       state.result.Run,
		}
		if err := e.journal.Append(entry); err != nil {
			e.logger.Error().Err(err).Str("action", a.String()).Msg("journal append failed")
		}
		state.reporter.Status(e.successLine(a))
	} else {
		line := fmt.Sprintf("Error executing action %s: %v", a, outcome.Err)
		state.reporter.Status(line)
		e.errorLog.Error().
			Str("action", a.String()).
			Uint64("sequence", state.result.Sequence).
			Err(outcome.Err).
			Msg("action failed")
		e.logger.Error().Str("action", a.String()).Err(outcome.Err).Msg("action failed")
		state.result.Errors = append(state.result.Errors, outcome.Err)
		state.result.Success = false
	}

	state.result.Outcomes = append(state.result.Outcomes, outcome)
}

func (e *Executor) successLine(a Action) string {
	switch {
	case e.dryRun && a.Kind == ActionMove:
		return fmt.Sprintf("Dry: Move %s to %s", a.Source, a.Path)
	case e.dryRun:
		return fmt.Sprintf("Dry: Remove %s", a.Path)
	case a.Kind == ActionMove:
		return fmt.Sprintf("Moved file: %s to %s", a.Source, a.Path)
	default:
		return fmt.Sprintf("Removed: %s", a.Path)
	}
}

// perform applies one action. In dry-run mode it only checks the context.
func (e *Executor) perform(ctx context.Context, a Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.dryRun {
		return nil
	}
	switch a.Kind {
	case ActionMove:
		return moveFile(e.fs, a.Source, a.Path)
	case ActionRemove:
		return e.fs.RemoveAll(a.Path)
	default:
		return fmt.Errorf("unknown action kind %q", string(a.Kind))
	}
}

// moveFile relocates src to dst, creating destination parents first. Rename
// can fail across devices, so a failed rename with a still-present source
// falls back to copy + delete.
func moveFile(fsys filesystem.FullFileSystem, src, dst string) error {
	if dir := path.Dir(dst); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create destination directory: %w", err)
		}
	}
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	} else if _, statErr := fsys.Stat(src); statErr != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := copyFile(fsys, src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}
	if err := fsys.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
