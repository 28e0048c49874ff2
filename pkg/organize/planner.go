package organize

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gammazero/toposort"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// BackupDirName is the directory under the root that mirrors moved files when
// backups are enabled.
const BackupDirName = "backup"

// artifactPrefix marks the engine's own files inside the root (journal, error
// log, run lock). They are never planned into a move.
const artifactPrefix = ".organize"

// Planner walks the tree rooted at the engine root and produces an ordered
// action batch for one mode. Planning is synchronous and single-threaded; the
// batch is complete and stable before execution begins, which is what lets
// reverse mode judge directory emptiness against the projected post-move
// state rather than the current snapshot.
type Planner struct {
	fs                filesystem.FullFileSystem
	rule              NamingRule
	includeSubfolders bool
	logger            zerolog.Logger
}

// NewPlanner creates a planner. rule may be nil for ByType and Reverse modes.
func NewPlanner(fsys filesystem.FullFileSystem, rule NamingRule, includeSubfolders bool, logger zerolog.Logger) *Planner {
	return &Planner{
		fs:                fsys,
		rule:              rule,
		includeSubfolders: includeSubfolders,
		logger:            logger,
	}
}

// Plan produces the action batch for mode. Configuration problems (Forward
// mode without a usable pattern rule) abort planning with a ConfigError and
// an empty batch; unreadable files or directories are skipped, not fatal.
func (p *Planner) Plan(mode Mode) (*Batch, error) {
	batch := &Batch{Mode: mode}
	switch mode {
	case Forward:
		if p.rule == nil {
			return batch, &ConfigError{Reason: "forward mode requires a pattern rule"}
		}
		return p.planOrganize(batch, p.rule)
	case ByType:
		return p.planOrganize(batch, NewTypeRule())
	case Reverse:
		return p.planReverse(batch)
	default:
		return batch, &ConfigError{Reason: fmt.Sprintf("unknown mode %d", int(mode))}
	}
}

// planOrganize emits one move per file the rule resolves. Files already at
// their destination are excluded, which makes organizing an already-organized
// tree a no-op.
func (p *Planner) planOrganize(batch *Batch, rule NamingRule) (*Batch, error) {
	files, err := p.collectFiles()
	if err != nil {
		return batch, err
	}
	for _, rel := range files {
		name := path.Base(rel)
		folder, ok := rule.Resolve(name)
		if !ok {
			p.logger.Debug().Str("file", rel).Msg("no match, skipping")
			continue
		}
		dst := path.Join(folder, name)
		if dst == rel {
			continue
		}
		batch.Actions = append(batch.Actions, MoveAction(rel, dst))
	}
	p.logger.Info().
		Str("mode", batch.Mode.String()).
		Int("files", len(files)).
		Int("actions", len(batch.Actions)).
		Msg("planning complete")
	return batch, nil
}

// planReverse schedules every file below the root back into it, then removes
// the directories that the projected post-move state leaves empty. Removals
// are ordered child-before-parent by topological sort over parent edges.
func (p *Planner) planReverse(batch *Batch) (*Batch, error) {
	var files, dirs []string
	err := fs.WalkDir(p.fs, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			p.logger.Warn().Str("path", rel).Err(err).Msg("skipping unreadable entry")
			return nil
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if rel == BackupDirName {
				return fs.SkipDir
			}
			dirs = append(dirs, rel)
			return nil
		}
		if isArtifact(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return batch, err
	}

	moving := make(map[string]bool, len(files))
	for _, rel := range files {
		if path.Dir(rel) == "." {
			continue
		}
		batch.Actions = append(batch.Actions, MoveAction(rel, path.Base(rel)))
		moving[rel] = true
	}

	// A directory is removable only when no file in its subtree survives the
	// scheduled moves. Judging against the pre-move snapshot would under-remove.
	remaining := make(map[string]int, len(dirs))
	for _, rel := range files {
		if moving[rel] {
			continue
		}
		for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
			remaining[dir]++
		}
	}

	var removable []string
	for _, dir := range dirs {
		if remaining[dir] == 0 {
			removable = append(removable, dir)
		}
	}
	for _, dir := range sortChildrenFirst(removable) {
		batch.Actions = append(batch.Actions, RemoveAction(dir))
	}

	if empty, err := p.dirIsEmpty(BackupDirName); err == nil && empty {
		batch.Actions = append(batch.Actions, RemoveAction(BackupDirName))
	}

	p.logger.Info().
		Str("mode", batch.Mode.String()).
		Int("files", len(files)).
		Int("actions", len(batch.Actions)).
		Msg("planning complete")
	return batch, nil
}

// collectFiles returns the candidate files for organizing, root-relative. With
// includeSubfolders disabled only direct children of the root are candidates.
func (p *Planner) collectFiles() ([]string, error) {
	if !p.includeSubfolders {
		entries, err := p.fs.ReadDir(".")
		if err != nil {
			return nil, &ConfigError{Reason: "cannot read root directory", Cause: err}
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() || isArtifact(entry.Name()) {
				continue
			}
			files = append(files, entry.Name())
		}
		return files, nil
	}

	var files []string
	err := fs.WalkDir(p.fs, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			p.logger.Warn().Str("path", rel).Err(err).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			if rel == BackupDirName {
				return fs.SkipDir
			}
			return nil
		}
		if isArtifact(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, &ConfigError{Reason: "cannot walk root directory", Cause: err}
	}
	return files, nil
}

func (p *Planner) dirIsEmpty(dir string) (bool, error) {
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func isArtifact(rel string) bool {
	return path.Dir(rel) == "." && strings.HasPrefix(path.Base(rel), artifactPrefix)
}

// sortChildrenFirst orders directories so every directory precedes its parent,
// using topological sort over child -> parent edges. Directories directly
// under the root with no subdirectories have no edges and are appended last.
func sortChildrenFirst(dirs []string) []string {
	known := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		known[dir] = true
	}

	edges := make([]toposort.Edge, 0, len(dirs))
	inEdges := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		parent := path.Dir(dir)
		if parent == "." || !known[parent] {
			continue
		}
		edges = append(edges, toposort.Edge{dir, parent})
		inEdges[dir] = true
		inEdges[parent] = true
	}

	ordered := make([]string, 0, len(dirs))
	if len(edges) > 0 {
		sorted, err := toposort.Toposort(edges)
		if err != nil {
			// Parent edges cannot cycle; depth order is an equivalent fallback.
			deepest := make([]string, 0, len(dirs))
			for _, dir := range dirs {
				if inEdges[dir] {
					deepest = append(deepest, dir)
				}
			}
			sort.Slice(deepest, func(i, j int) bool {
				return strings.Count(deepest[i], "/") > strings.Count(deepest[j], "/")
			})
			ordered = append(ordered, deepest...)
		} else {
			for _, node := range sorted {
				ordered = append(ordered, node.(string))
			}
		}
	}
	for _, dir := range dirs {
		if !inEdges[dir] {
			ordered = append(ordered, dir)
		}
	}
	return ordered
}
