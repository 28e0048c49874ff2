// Package organize is a transactional file-organizing engine. It plans a set
// of filesystem actions from a naming rule, executes them concurrently with
// partial-failure tolerance, journals every applied action, and can reverse
// the most recent batch from the journal.
//
// The guarantees are deliberately best-effort, not ACID: a failure mid-batch
// leaves the succeeded actions applied and relies on an explicit rollback to
// unwind them.
package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// JournalName is the transaction log file inside the root.
const JournalName = artifactPrefix + ".journal"

// ErrorLogName is the durable error log file inside the root.
const ErrorLogName = artifactPrefix + ".errors.log"

// Options configures an engine instance.
type Options struct {
	// Rule names the destination folder for each file. Required for Forward
	// planning, ignored by ByType and Reverse.
	Rule NamingRule
	// IncludeSubfolders extends organizing to files at any depth.
	IncludeSubfolders bool
	// DryRun plans, journals and reports without touching the filesystem.
	DryRun bool
	// Backup copies every move source into the backup mirror before execution.
	Backup bool
	// Workers bounds the execution and backup pools; <= 0 uses DefaultWorkers.
	Workers int
	// Logger is the process-wide logging sink. Zero value falls back to
	// DefaultLogger.
	Logger *zerolog.Logger
}

// Engine ties the planner, backup service, executor, journal and rollback
// engine together over one root directory.
type Engine struct {
	root     string
	fs       *filesystem.OSFileSystem
	journal  *Journal
	logger   zerolog.Logger
	errorLog zerolog.Logger
	errClose io.Closer
	opts     Options
}

// New creates an engine rooted at root. The root must be an existing
// directory; anything else is a ConfigError. The journal and error log are
// opened inside the root.
func New(root string, opts Options) (*Engine, error) {
	if root == "" {
		return nil, &ConfigError{Reason: "no directory selected"}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ConfigError{Reason: "cannot resolve root directory", Cause: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &ConfigError{Reason: "root directory does not exist", Cause: err}
	}
	if !info.IsDir() {
		return nil, &ConfigError{Reason: fmt.Sprintf("%s is not a directory", abs)}
	}

	logger := DefaultLogger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	journal, err := OpenJournal(filepath.Join(abs, JournalName))
	if err != nil {
		return nil, err
	}
	errorLog, errClose, err := NewErrorLogger(filepath.Join(abs, ErrorLogName))
	if err != nil {
		_ = journal.Close()
		return nil, err
	}

	return &Engine{
		root:     abs,
		fs:       filesystem.NewOSFileSystem(abs),
		journal:  journal,
		logger:   logger,
		errorLog: errorLog,
		errClose: errClose,
		opts:     opts,
	}, nil
}

// Root returns the absolute root directory.
func (e *Engine) Root() string {
	return e.root
}

// Journal exposes the engine's transaction log.
func (e *Engine) Journal() *Journal {
	return e.journal
}

// Plan produces the action batch for mode without touching the filesystem.
func (e *Engine) Plan(mode Mode) (*Batch, error) {
	planner := NewPlanner(e.fs, e.opts.Rule, e.opts.IncludeSubfolders, e.logger)
	return planner.Plan(mode)
}

// Execute runs a planned batch, optionally snapshotting move sources first.
// Runs on the same root are serialized by the run lock.
func (e *Engine) Execute(ctx context.Context, batch *Batch, reporter Reporter) (*Result, error) {
	lock, err := AcquireRunLock(e.root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	if e.opts.Backup && !e.opts.DryRun {
		backup := NewBackupService(e.fs, e.logger, e.errorLog, e.opts.Workers)
		backup.Backup(ctx, batch)
	}
	executor := NewExecutor(e.fs, e.journal, e.logger, e.errorLog, e.opts.Workers, e.opts.DryRun)
	return executor.Execute(ctx, batch, reporter), nil
}

// Run plans and executes in one step.
func (e *Engine) Run(ctx context.Context, mode Mode, reporter Reporter) (*Result, error) {
	batch, err := e.Plan(mode)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, batch, reporter)
}

// Rollback reverses the most recent journaled batch.
func (e *Engine) Rollback(ctx context.Context, reporter Reporter) error {
	lock, err := AcquireRunLock(e.root)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	rb := NewRollbackEngine(e.fs, e.journal, e.logger, e.errorLog)
	return rb.Rollback(ctx, reporter)
}

// Close releases the journal and error log handles.
func (e *Engine) Close() error {
	err := e.journal.Close()
	if e.errClose != nil {
		if cerr := e.errClose.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
