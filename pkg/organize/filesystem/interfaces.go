package filesystem

import (
	"io/fs"
	"time"
)

// ReadFS is an alias for fs.FS, representing a read-only file system.
type ReadFS = fs.FS

// WriteFS defines the interface for write operations on a file system.
type WriteFS interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	RemoveAll(name string) error
	Rename(oldpath, newpath string) error
	Chtimes(name string, atime, mtime time.Time) error
}

// FullFileSystem combines read and write operations with Stat and ReadDir.
// All paths are slash-separated and relative to the filesystem root; fs.ValidPath
// is the boundary that keeps every operation inside the root.
type FullFileSystem interface {
	ReadFS
	WriteFS
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}
