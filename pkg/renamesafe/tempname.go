package renamesafe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TempPrefix is the reserved prefix for staging names. Files carrying it
// exist only between the stage-out and rename phases of a batch; any left
// after a run indicate a planning bug or external interference.
const TempPrefix = ".rs-tmp-"

// IsTempName reports whether name matches the temporary-name pattern.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}

// Alias is the temporary name assigned to a file that must be moved out of
// the way before the final renames can proceed. Class records why the file
// was displaced.
type Alias struct {
	Original string
	TempName string
	Class    ConflictClass
}

// Allocator hands out collision-free temporary names for one batch. It is
// owned by a single batch run and discarded with it, so no counter state
// leaks across batches. Names are checked against the snapshot and against
// everything already claimed (earlier temps and reserved targets) and
// re-rolled on collision.
type Allocator struct {
	snap  *Snapshot
	taken map[string]struct{}
	next  int
}

// NewAllocator creates an allocator for one batch over the given snapshot.
func NewAllocator(snap *Snapshot) *Allocator {
	return &Allocator{
		snap:  snap,
		taken: make(map[string]struct{}),
		next:  1,
	}
}

// Reserve marks a name as claimed so no temporary name will coincide with
// it. The planner reserves every mapping target up front.
func (a *Allocator) Reserve(name string) {
	a.taken[name] = struct{}{}
}

// Allocate returns a fresh temporary name for the given file, keeping its
// extension so tools that key on extensions behave during the staged
// window.
func (a *Allocator) Allocate(original string) string {
	ext := filepath.Ext(original)
	for {
		candidate := fmt.Sprintf("%s%d%s", TempPrefix, a.next, ext)
		a.next++
		if a.snap.Contains(candidate) {
			continue
		}
		if _, claimed := a.taken[candidate]; claimed {
			continue
		}
		a.taken[candidate] = struct{}{}
		return candidate
	}
}
