package organize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T, root string, opts Options) *Engine {
	t.Helper()
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	engine, err := New(root, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func mustRun(t *testing.T, engine *Engine, mode Mode) *Result {
	t.Helper()
	result, err := engine.Run(context.Background(), mode, nil)
	if err != nil {
		t.Fatalf("Run(%s) failed: %v", mode, err)
	}
	if !result.Success {
		t.Fatalf("Run(%s) had failures: %v", mode, result.Errors)
	}
	return result
}

func TestOrganizeRollbackRoundTrip(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "Show - 01.mkv", "Show - 02.mkv")

	rule, err := NewPatternRule(`^(.*?) - \d+.*\.(mkv)$`)
	if err != nil {
		t.Fatalf("NewPatternRule failed: %v", err)
	}
	engine := newTestEngine(t, root, Options{Rule: rule})

	mustRun(t, engine, Forward)
	for _, name := range []string{"Show/Show - 01.mkv", "Show/Show - 02.mkv"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s after organize: %v", name, err)
		}
	}

	if err := engine.Rollback(context.Background(), nil); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	for _, name := range []string{"Show - 01.mkv", "Show - 02.mkv"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("expected %s back at root: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "Show")); !os.IsNotExist(err) {
		t.Error("emptied Show directory should be pruned")
	}

	reporter := &recordingReporter{}
	if err := engine.Rollback(context.Background(), reporter); err != nil {
		t.Fatalf("second Rollback failed: %v", err)
	}
	if !reporter.hasLine("Nothing to roll back") {
		t.Errorf("expected nothing left to roll back, got %v", reporter.lines)
	}
}

func TestRollbackBatchIsolation(t *testing.T) {
	root := t.TempDir()
	seedFiles(t, root, "Show - 01.mkv")

	rule, err := NewPatternRule(`^(.*?) - \d+.*\.(mkv)$`)
	if err != nil {
		t.Fatalf("NewPatternRule failed: %v", err)
	}
	engine := newTestEngine(t, root, Options{Rule: rule})

	batchA := mustRun(t, engine, Forward)

	seedFiles(t, root, "Other - 01.mkv")
	batchB := mustRun(t, engine, Forward)
	if batchB.Sequence <= batchA.Sequence {
		t.Fatalf("expected increasing sequences, got %d then %d", batchA.Sequence, batchB.Sequence)
	}

	// First rollback reverses only batch B.
	if err := engine.Rollback(context.Background(), nil); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Other - 01.mkv")); err != nil {
		t.Errorf("batch B file should be restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Show", "Show - 01.mkv")); err != nil {
		t.Errorf("batch A result must be untouched by the first rollback: %v", err)
	}

	// Second rollback reverses batch A.
	if err := engine.Rollback(context.Background(), nil); err != nil {
		t.Fatalf("second Rollback failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Show - 01.mkv")); err != nil {
		t.Errorf("batch A file should be restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Show")); !os.IsNotExist(err) {
		t.Error("emptied Show directory should be pruned")
	}
}

func TestRollbackRecreatesRemovedDirs(t *testing.T) {
	fsys, root := newTestFS(t)
	journal := newTestJournal(t, root)
	if err := journal.Append(Entry{Kind: ActionRemove, Path: "gone/dir", Sequence: 1}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rb := NewRollbackEngine(fsys, journal, zerolog.Nop(), zerolog.Nop())
	if err := rb.Rollback(context.Background(), nil); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "gone", "dir"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected recreated directory, got %v (err %v)", info, err)
	}
}

func TestRollbackSkipsUnsafeSteps(t *testing.T) {
	t.Run("missing move destination", func(t *testing.T) {
		fsys, root := newTestFS(t)
		seedFiles(t, root, "A/kept.txt")
		journal := newTestJournal(t, root)
		for _, e := range []Entry{
			{Kind: ActionMove, Source: "kept.txt", Path: "A/kept.txt", Sequence: 1},
			{Kind: ActionMove, Source: "lost.txt", Path: "A/lost.txt", Sequence: 1},
		} {
			if err := journal.Append(e); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}

		reporter := &recordingReporter{}
		rb := NewRollbackEngine(fsys, journal, zerolog.Nop(), zerolog.Nop())
		if err := rb.Rollback(context.Background(), reporter); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "kept.txt")); err != nil {
			t.Errorf("the rest of the batch must still be reversed: %v", err)
		}
		if !reporter.hasLine("Cannot roll back") {
			t.Errorf("expected a skip status line, got %v", reporter.lines)
		}
	})

	t.Run("remove target already exists", func(t *testing.T) {
		fsys, root := newTestFS(t)
		seedDirs(t, root, "still-here")
		journal := newTestJournal(t, root)
		if err := journal.Append(Entry{Kind: ActionRemove, Path: "still-here", Sequence: 1}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		reporter := &recordingReporter{}
		rb := NewRollbackEngine(fsys, journal, zerolog.Nop(), zerolog.Nop())
		if err := rb.Rollback(context.Background(), reporter); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}
		if !reporter.hasLine("already exists") {
			t.Errorf("expected an already-exists skip, got %v", reporter.lines)
		}
	})
}

func TestRollbackRetiresBatch(t *testing.T) {
	fsys, root := newTestFS(t)
	seedFiles(t, root, "A/a.txt")
	journal := newTestJournal(t, root)
	for _, e := range []Entry{
		{Kind: ActionMove, Source: "old.txt", Path: "Old/old.txt", Sequence: 1},
		{Kind: ActionMove, Source: "a.txt", Path: "A/a.txt", Sequence: 2},
	} {
		if err := journal.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	rb := NewRollbackEngine(fsys, journal, zerolog.Nop(), zerolog.Nop())
	if err := rb.Rollback(context.Background(), nil); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	entries, err := journal.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Sequence != 1 {
		t.Errorf("expected only batch 1 to remain journaled, got %+v", entries)
	}
}
