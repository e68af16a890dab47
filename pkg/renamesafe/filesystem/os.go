package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystem using the OS filesystem, rooted at
// a single directory. All paths are relative to that root.
type OSFileSystem struct {
	root string
}

// NewOSFileSystem creates a new OS-based filesystem rooted at the given path.
func NewOSFileSystem(root string) *OSFileSystem {
	return &OSFileSystem{root: root}
}

// Root returns the root directory this filesystem operates on.
func (osfs *OSFileSystem) Root() string {
	return osfs.root
}

// Open implements fs.FS.
func (osfs *OSFileSystem) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return os.Open(filepath.Join(osfs.root, name))
}

// Stat implements FileSystem.
func (osfs *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	return os.Stat(filepath.Join(osfs.root, name))
}

// ReadDir implements FileSystem.
func (osfs *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	return os.ReadDir(filepath.Join(osfs.root, name))
}

// WriteFile implements WriteFS.
func (osfs *OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}
	return os.WriteFile(filepath.Join(osfs.root, name), data, perm)
}

// Remove implements WriteFS.
func (osfs *OSFileSystem) Remove(name string) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	return os.Remove(filepath.Join(osfs.root, name))
}

// Rename implements WriteFS. Unlike os.Rename it refuses to overwrite an
// existing destination. The existence check and the rename are not atomic;
// this is a guard against planner bugs, not against concurrent writers
// (concurrent batches on one directory are unsupported).
func (osfs *OSFileSystem) Rename(oldpath, newpath string) error {
	if !fs.ValidPath(oldpath) || !fs.ValidPath(newpath) {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrInvalid}
	}
	oldFullPath := filepath.Join(osfs.root, oldpath)
	newFullPath := filepath.Join(osfs.root, newpath)
	if _, err := os.Lstat(newFullPath); err == nil {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrExist}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.Rename(oldFullPath, newFullPath)
}
