package organize

import (
	"context"
	"fmt"
	"math"
	"path"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// RollbackEngine reverses the most recent batch recorded in the journal.
// Entries are replayed last-executed-first and only while they belong to the
// newest sequence id; repeated invocations unwind older batches one at a time.
// Every undo step is best-effort: a missing destination or an already existing
// target is logged and skipped, never fatal.
type RollbackEngine struct {
	fs       filesystem.FullFileSystem
	journal  *Journal
	logger   zerolog.Logger
	errorLog zerolog.Logger
}

// NewRollbackEngine creates a rollback engine over the given journal.
func NewRollbackEngine(fsys filesystem.FullFileSystem, journal *Journal, logger, errorLog zerolog.Logger) *RollbackEngine {
	return &RollbackEngine{fs: fsys, journal: journal, logger: logger, errorLog: errorLog}
}

// Rollback undoes the most recent batch. It reads a snapshot of the journal,
// reverses the qualifying entries, then retires the batch from the journal so
// the next invocation targets the one before it.
func (r *RollbackEngine) Rollback(ctx context.Context, reporter Reporter) error {
	if reporter == nil {
		reporter = NopReporter{}
	}
	entries, err := r.journal.ReadAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		reporter.Status("Nothing to roll back.")
		return nil
	}

	// Newest first; the newest entry's sequence picks the batch to unwind.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sequence := entries[0].Sequence

	var batch []Entry
	for _, e := range entries {
		if e.Sequence != sequence {
			break
		}
		batch = append(batch, e)
	}

	r.logger.Info().
		Uint64("sequence", sequence).
		Int("entries", len(batch)).
		Msg("rolling back batch")

	for i, e := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch e.Kind {
		case ActionMove:
			r.undoMove(e, reporter)
		case ActionRemove:
			r.undoRemove(e, reporter)
		default:
			r.skip(e, reporter, fmt.Errorf("unknown action kind %q", string(e.Kind)))
		}
		pct := int(math.Round(float64(i+1) / float64(len(batch)) * 100))
		reporter.Progress(pct)
	}

	if err := r.journal.DropBatch(sequence); err != nil {
		return fmt.Errorf("retire rolled-back batch: %w", err)
	}
	r.logger.Info().Uint64("sequence", sequence).Msg("rollback finished")
	return nil
}

// undoMove puts the recorded destination back at the recorded source and
// prunes the directories the move touched when they end up empty, so no empty
// scaffolding is left behind.
func (r *RollbackEngine) undoMove(e Entry, reporter Reporter) {
	if _, err := r.fs.Stat(e.Path); err != nil {
		r.skip(e, reporter, fmt.Errorf("destination no longer exists: %w", err))
		return
	}
	if err := moveFile(r.fs, e.Path, e.Source); err != nil {
		r.skip(e, reporter, err)
		return
	}
	reporter.Status(fmt.Sprintf("Rolled back: moved %s to %s", e.Path, e.Source))
	r.pruneIfEmpty(path.Dir(e.Path))
	r.pruneIfEmpty(path.Dir(e.Source))
}

// undoRemove recreates a removed entry as an empty directory. If something
// already sits at the path there is no safe way to tell whether recreation is
// needed, so the step is skipped.
func (r *RollbackEngine) undoRemove(e Entry, reporter Reporter) {
	if _, err := r.fs.Stat(e.Path); err == nil {
		r.skip(e, reporter, fmt.Errorf("path already exists"))
		return
	}
	if err := r.fs.MkdirAll(e.Path, 0o755); err != nil {
		r.skip(e, reporter, err)
		return
	}
	reporter.Status(fmt.Sprintf("Rolled back: recreated directory %s", e.Path))
}

func (r *RollbackEngine) pruneIfEmpty(dir string) {
	if dir == "." || dir == "" {
		return
	}
	entries, err := r.fs.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		return
	}
	if err := r.fs.Remove(dir); err == nil {
		r.logger.Debug().Str("dir", dir).Msg("pruned empty directory")
	}
}

func (r *RollbackEngine) skip(e Entry, reporter Reporter, cause error) {
	line := fmt.Sprintf("Cannot roll back %s %s: %v", string(e.Kind), e.Path, cause)
	reporter.Status(line)
	r.errorLog.Error().
		Str("action", string(e.Kind)).
		Str("path", e.Path).
		Str("source", e.Source).
		Uint64("sequence", e.Sequence).
		Err(cause).
		Msg("rollback step skipped")
	r.logger.Error().Str("path", e.Path).Err(cause).Msg("rollback step skipped")
}
