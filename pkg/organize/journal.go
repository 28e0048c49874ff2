package organize

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one persisted journal record: a single JSON object per line, no
// prefix. Source is set for moves only; Path is the move destination or the
// removal target. Sequence groups entries into one reversible batch; Run is
// an opaque per-execution id kept for postmortem grouping.
type Entry struct {
	Kind      ActionKind `json:"action"`
	Source    string     `json:"source,omitempty"`
	Path      string     `json:"path"`
	Timestamp time.Time  `json:"timestamp"`
	Sequence  uint64     `json:"sequence"`
	Run       string     `json:"run,omitempty"`
}

// Journal is the append-only transaction log. Appends are serialized by a
// single writer lock so concurrent worker completions never interleave within
// a line; on-disk order is completion order, which is what rollback trusts.
type Journal struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	lastSeq uint64
}

// OpenJournal opens (or creates) the journal at path and recovers the highest
// sequence id already present, so sequence ids keep increasing across process
// restarts.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := &Journal{path: path, file: f}
	entries, err := j.ReadAll()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.Sequence > j.lastSeq {
			j.lastSeq = e.Sequence
		}
	}
	return j, nil
}

// NextSequence reserves and returns the next batch sequence id.
func (j *Journal) NextSequence() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastSeq++
	return j.lastSeq
}

// Append writes one entry as a JSON line. Entries are never mutated after
// being written.
func (j *Journal) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// ReadAll parses the journal oldest-first. Lines that do not parse are
// skipped; a damaged line should not make the rest of the history unreadable.
func (j *Journal) ReadAll() ([]Entry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("scan journal: %w", err)
	}
	return entries, nil
}

// DropBatch rewrites the journal without the entries of the given sequence.
// Rollback uses it to retire the batch it just reversed so the next rollback
// targets the one before it.
func (j *Journal) DropBatch(sequence uint64) error {
	entries, err := j.ReadAll()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Sequence != sequence {
			kept = append(kept, e)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tmp := j.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("rewrite journal: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range kept {
		data, err := json.Marshal(e)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("encode journal entry: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			_ = f.Close()
			return fmt.Errorf("rewrite journal: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("rewrite journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("rewrite journal: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("rewrite journal: %w", err)
	}
	return j.reopenLocked()
}

// Clear truncates the journal. This is the surrounding application's explicit
// clear-log operation, never something the engine does on its own.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.Truncate(j.path, 0); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	return j.reopenLocked()
}

// Close releases the journal file handle.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

func (j *Journal) reopenLocked() error {
	_ = j.file.Close()
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("reopen journal: %w", err)
	}
	j.file = f
	return nil
}
