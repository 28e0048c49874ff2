package organize

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/organize/pkg/organize/filesystem"
)

// BackupService duplicates the source of every planned move into the backup
// mirror under the root, preserving relative paths, before execution starts.
// Copies run on a bounded worker pool. A failed copy is logged and does not
// block execution; byte-for-byte content is the only hard requirement, mtime
// is carried over when the copy succeeds.
type BackupService struct {
	fs       filesystem.FullFileSystem
	logger   zerolog.Logger
	errorLog zerolog.Logger
	workers  int
}

// NewBackupService creates a backup service. workers <= 0 selects DefaultWorkers.
func NewBackupService(fsys filesystem.FullFileSystem, logger, errorLog zerolog.Logger, workers int) *BackupService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &BackupService{fs: fsys, logger: logger, errorLog: errorLog, workers: workers}
}

// Backup snapshots the move sources of batch into the backup mirror.
func (b *BackupService) Backup(ctx context.Context, batch *Batch) {
	moves := batch.Moves()
	if len(moves) == 0 {
		return
	}
	b.logger.Info().Int("files", len(moves)).Msg("backing up move sources")

	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup
	for _, action := range moves {
		sem <- struct{}{}
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				return
			}
			if err := b.backupOne(src); err != nil {
				b.logger.Error().Str("file", src).Err(err).Msg("backup failed")
				b.errorLog.Error().Str("file", src).Err(err).Msg("backup failed")
			}
		}(action.Source)
	}
	wg.Wait()
}

func (b *BackupService) backupOne(src string) error {
	target := path.Join(BackupDirName, src)
	if dir := path.Dir(target); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}
	return copyFile(b.fs, src, target)
}

// copyFile copies content and mode from src to dst and carries the source
// mtime over. Used by backups and by the executor's cross-device move fallback.
func copyFile(fsys filesystem.FullFileSystem, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	f, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	mode := info.Mode() & fs.ModePerm
	if mode == 0 {
		mode = 0o644
	}
	if err := fsys.WriteFile(dst, content, mode); err != nil {
		return fmt.Errorf("write copy: %w", err)
	}
	if err := fsys.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		// Content is already safe; losing the mtime is not worth failing for.
		return nil
	}
	return nil
}
