package renamesafe

import (
	"sort"

	"github.com/arthur-debert/renamesafe/pkg/renamesafe/filesystem"
)

// Snapshot is the directory listing captured once at the start of a batch.
// It is the single source of truth for "does X exist" checks for the
// remainder of the batch; the directory is never re-scanned mid-batch, so
// external mutation during execution is a documented hazard.
//
// Names are stored sorted, which makes every scan over the snapshot
// deterministic (the ambiguous-match tie-break in the resolver relies on
// this).
type Snapshot struct {
	names []string
	index map[string]struct{}
}

// NewSnapshot creates a snapshot from a list of filenames. The input is
// copied, sorted, and de-duplicated.
func NewSnapshot(names []string) *Snapshot {
	index := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, seen := index[name]; seen {
			continue
		}
		index[name] = struct{}{}
		unique = append(unique, name)
	}
	sort.Strings(unique)
	return &Snapshot{names: unique, index: index}
}

// TakeSnapshot lists the root of fsys and snapshots the regular files in it.
// Subdirectories are ignored: a batch operates on a single flat directory.
func TakeSnapshot(fsys filesystem.FileSystem) (*Snapshot, error) {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return NewSnapshot(names), nil
}

// Contains reports whether name was present when the snapshot was taken.
func (s *Snapshot) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the snapshot's filenames in sorted order. The returned
// slice is a copy.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.names)
}
