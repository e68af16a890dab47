package filesystem

import (
	"io/fs"
)

// ReadFS is an alias for fs.FS, representing a read-only file system.
type ReadFS = fs.FS

// WriteFS defines the write operations a rename batch needs.
// Rename must refuse to clobber an existing destination: the planner
// guarantees clobber-free plans, and implementations enforce the same
// guarantee as a last line of defense.
type WriteFS interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// FileSystem combines read and write operations over a single directory.
type FileSystem interface {
	ReadFS
	WriteFS
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
}
