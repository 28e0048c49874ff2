package organize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// recordingReporter captures both output streams. Executor and rollback emit
// events under their own locks, so plain slices are safe here.
type recordingReporter struct {
	pcts  []int
	lines []string
}

func (r *recordingReporter) Progress(pct int)   { r.pcts = append(r.pcts, pct) }
func (r *recordingReporter) Status(line string) { r.lines = append(r.lines, line) }

func (r *recordingReporter) hasLine(fragment string) bool {
	for _, line := range r.lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func newTestJournal(t *testing.T, root string) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(root, JournalName))
	if err != nil {
		t.Fatalf("OpenJournal failed: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func newTestExecutor(fsys *filesystem.OSFileSystem, j *Journal, workers int, dryRun bool) *Executor {
	return NewExecutor(fsys, j, zerolog.Nop(), zerolog.Nop(), workers, dryRun)
}

func checkProgress(t *testing.T, pcts []int, wantEvents int) {
	t.Helper()
	if len(pcts) != wantEvents {
		t.Fatalf("expected %d progress events, got %v", wantEvents, pcts)
	}
	prev := 0
	for _, pct := range pcts {
		if pct < prev {
			t.Errorf("progress regressed: %v", pcts)
		}
		prev = pct
	}
	if pcts[0] <= 0 {
		t.Errorf("first progress value must be above 0, got %v", pcts)
	}
	if pcts[len(pcts)-1] != 100 {
		t.Errorf("final progress must be 100, got %v", pcts)
	}
}

func TestExecuteMoves(t *testing.T) {
	fsys, root := newTestFS(t)
	seedFiles(t, root, "Show - 01.mkv", "Show - 02.mkv")
	journal := newTestJournal(t, root)

	batch := &Batch{Mode: Forward, Actions: []Action{
		MoveAction("Show - 01.mkv", "Show/Show - 01.mkv"),
		MoveAction("Show - 02.mkv", "Show/Show - 02.mkv"),
	}}
	reporter := &recordingReporter{}
	result := newTestExecutor(fsys, journal, 2, false).Execute(context.Background(), batch, reporter)

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	for _, name := range []string{"Show/Show - 01.mkv", "Show/Show - 02.mkv"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "Show - 01.mkv")); !os.IsNotExist(err) {
		t.Error("source file should be gone after the move")
	}

	entries, err := journal.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Sequence != result.Sequence {
			t.Errorf("entry sequence %d does not match batch sequence %d", e.Sequence, result.Sequence)
		}
		if e.Run != result.Run {
			t.Errorf("entry run %q does not match batch run %q", e.Run, result.Run)
		}
	}
	checkProgress(t, reporter.pcts, 2)
}

func TestExecutePartialFailure(t *testing.T) {
	fsys, root := newTestFS(t)
	seedFiles(t, root, "real.txt")
	journal := newTestJournal(t, root)

	batch := &Batch{Mode: Forward, Actions: []Action{
		MoveAction("missing.txt", "Folder/missing.txt"),
		MoveAction("real.txt", "Folder/real.txt"),
	}}
	reporter := &recordingReporter{}
	result := newTestExecutor(fsys, journal, 1, false).Execute(context.Background(), batch, reporter)

	if result.Success {
		t.Fatal("expected failure to be reported")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if _, err := os.Stat(filepath.Join(root, "Folder", "real.txt")); err != nil {
		t.Error("the surviving action must still be applied")
	}

	entries, err := journal.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("only applied actions belong in the journal, got %d entries", len(entries))
	}
	checkProgress(t, reporter.pcts, 2)
	if !reporter.hasLine("Error executing action") {
		t.Errorf("expected an error status line, got %v", reporter.lines)
	}
}

func TestExecuteDryRun(t *testing.T) {
	fsys, root := newTestFS(t)
	seedFiles(t, root, "Show - 01.mkv")
	journal := newTestJournal(t, root)

	batch := &Batch{Mode: Forward, Actions: []Action{
		MoveAction("Show - 01.mkv", "Show/Show - 01.mkv"),
	}}
	reporter := &recordingReporter{}
	result := newTestExecutor(fsys, journal, 1, true).Execute(context.Background(), batch, reporter)

	if !result.Success {
		t.Fatalf("dry run failed: %v", result.Errors)
	}
	if _, err := os.Stat(filepath.Join(root, "Show - 01.mkv")); err != nil {
		t.Error("dry run must not touch the filesystem")
	}
	if _, err := os.Stat(filepath.Join(root, "Show")); !os.IsNotExist(err) {
		t.Error("dry run must not create destination directories")
	}
	entries, err := journal.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dry run still journals actions, got %d entries", len(entries))
	}
	if !reporter.hasLine("Dry: Move") {
		t.Errorf("expected a dry-run status line, got %v", reporter.lines)
	}
}

func TestExecuteEmptyBatch(t *testing.T) {
	fsys, root := newTestFS(t)
	journal := newTestJournal(t, root)

	reporter := &recordingReporter{}
	result := newTestExecutor(fsys, journal, 1, false).Execute(context.Background(), &Batch{}, reporter)

	if !result.Success {
		t.Error("empty batch must succeed")
	}
	if len(reporter.pcts) != 0 {
		t.Errorf("empty batch must not emit progress, got %v", reporter.pcts)
	}
	if result.Sequence != 0 {
		t.Errorf("empty batch must not consume a sequence id, got %d", result.Sequence)
	}
}

func TestExecuteSequencesIncrease(t *testing.T) {
	fsys, root := newTestFS(t)
	seedFiles(t, root, "a.txt", "b.txt")
	journal := newTestJournal(t, root)
	exec := newTestExecutor(fsys, journal, 1, false)

	first := exec.Execute(context.Background(), &Batch{Actions: []Action{
		MoveAction("a.txt", "A/a.txt"),
	}}, nil)
	second := exec.Execute(context.Background(), &Batch{Actions: []Action{
		MoveAction("b.txt", "B/b.txt"),
	}}, nil)

	if second.Sequence != first.Sequence+1 {
		t.Errorf("sequences must strictly increase: %d then %d", first.Sequence, second.Sequence)
	}
}

func TestExecuteRemovesWaitForMoves(t *testing.T) {
	// A reverse batch removes directories files are still moving out of; the
	// removals must not race those moves even with a wide worker pool.
	fsys, root := newTestFS(t)
	seedFiles(t, root, "a/1.txt", "a/2.txt", "a/3.txt", "a/4.txt")
	journal := newTestJournal(t, root)

	batch := &Batch{Mode: Reverse, Actions: []Action{
		RemoveAction("a"),
		MoveAction("a/1.txt", "1.txt"),
		MoveAction("a/2.txt", "2.txt"),
		MoveAction("a/3.txt", "3.txt"),
		MoveAction("a/4.txt", "4.txt"),
	}}
	result := newTestExecutor(fsys, journal, 8, false).Execute(context.Background(), batch, nil)

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	for _, name := range []string{"1.txt", "2.txt", "3.txt", "4.txt"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("expected %s at root: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Error("directory should be removed after the moves")
	}
}
