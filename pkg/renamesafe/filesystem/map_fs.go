package filesystem

import (
	"io/fs"
	"testing/fstest"
)

// MapFileSystem extends fstest.MapFS to implement our FileSystem interface.
// It lets batch logic run against testing/fstest in tests without touching
// the real filesystem.
type MapFileSystem struct {
	fstest.MapFS
}

// NewMapFileSystem creates an empty in-memory filesystem.
func NewMapFileSystem() *MapFileSystem {
	return &MapFileSystem{
		MapFS: make(fstest.MapFS),
	}
}

// NewMapFileSystemFromMap creates an in-memory filesystem from an existing map.
func NewMapFileSystemFromMap(files map[string]*fstest.MapFile) *MapFileSystem {
	return &MapFileSystem{
		MapFS: files,
	}
}

// WriteFile implements WriteFS.
func (mfs *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}
	mfs.MapFS[name] = &fstest.MapFile{
		Data: data,
		Mode: perm,
	}
	return nil
}

// Remove implements WriteFS.
func (mfs *MapFileSystem) Remove(name string) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	if _, exists := mfs.MapFS[name]; !exists {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(mfs.MapFS, name)
	return nil
}

// Rename implements WriteFS. Like OSFileSystem.Rename it refuses to
// overwrite an existing destination.
func (mfs *MapFileSystem) Rename(oldpath, newpath string) error {
	if !fs.ValidPath(oldpath) || !fs.ValidPath(newpath) {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrInvalid}
	}
	file, exists := mfs.MapFS[oldpath]
	if !exists {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	if _, exists := mfs.MapFS[newpath]; exists {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrExist}
	}
	mfs.MapFS[newpath] = file
	delete(mfs.MapFS, oldpath)
	return nil
}
