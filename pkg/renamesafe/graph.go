package renamesafe

import (
	"sort"

	"github.com/gammazero/toposort"
)

// ConflictClass classifies a mapping's target against the snapshot and the
// rest of the batch.
type ConflictClass int

const (
	// ClassFree means the target is absent from the snapshot and is not a
	// source of any mapping; the rename can land directly.
	ClassFree ConflictClass = iota
	// ClassExternalConflict means the target is occupied by a file that is
	// not itself a mapping's source (a bystander). With no destination of
	// its own such a file would be stranded under a temporary name, so
	// batches containing one fail validation before any mutation.
	ClassExternalConflict
	// ClassChainedConflict means the target equals another mapping's source;
	// it only blocks until that mapping's own rename has occurred.
	ClassChainedConflict
)

func (c ConflictClass) String() string {
	switch c {
	case ClassFree:
		return "free"
	case ClassExternalConflict:
		return "external-conflict"
	case ClassChainedConflict:
		return "chained-conflict"
	default:
		return "unknown"
	}
}

// Edge records that Mappings[From].Target equals Mappings[To].Source:
// To must vacate that name before From's rename can land there safely.
// Edges are index-to-index so the graph never re-scans mappings by value.
type Edge struct {
	From int
	To   int
}

// Graph is the conflict graph over a batch's mappings. Mappings holds the
// surviving mappings (self no-ops filtered out), Classes is parallel to it,
// and Order is the phase-2 execution order as indices into Mappings.
type Graph struct {
	Mappings []Mapping
	Classes  []ConflictClass
	Edges    []Edge
	Order    []int
	Cyclic   bool
}

// BuildGraph classifies every mapping's target and derives the dependency
// edges between mappings. It validates the batch before any mutation can
// happen: duplicate targets, duplicate sources, and bystander conflicts are
// all fatal. Cycles (mutual renames) are valid and flagged so the planner
// routes them through temporary names.
func BuildGraph(mappings []Mapping, snap *Snapshot) (*Graph, error) {
	g := &Graph{}

	// Self-renames are no-ops and take no part in the graph.
	for _, m := range mappings {
		if m.Source == m.Target {
			continue
		}
		g.Mappings = append(g.Mappings, m)
	}

	sourceIndex := make(map[string]int, len(g.Mappings))
	targetIndex := make(map[string]int, len(g.Mappings))
	for i, m := range g.Mappings {
		if _, dup := sourceIndex[m.Source]; dup {
			return nil, &ValidationError{Reason: ReasonDuplicateSource, Path: m.Source}
		}
		sourceIndex[m.Source] = i
		if _, dup := targetIndex[m.Target]; dup {
			return nil, &ValidationError{Reason: ReasonDuplicateTarget, Path: m.Target}
		}
		targetIndex[m.Target] = i
	}

	g.Classes = make([]ConflictClass, len(g.Mappings))
	for i, m := range g.Mappings {
		if j, chained := sourceIndex[m.Target]; chained {
			g.Classes[i] = ClassChainedConflict
			g.Edges = append(g.Edges, Edge{From: i, To: j})
			continue
		}
		if snap.Contains(m.Target) {
			g.Classes[i] = ClassExternalConflict
			// Fail closed: a bystander occupying a wanted target has no
			// designated resting place, and leaving it under a temporary
			// name is a data-loss risk.
			return nil, &ValidationError{Reason: ReasonStrandedBystander, Path: m.Target}
		}
		g.Classes[i] = ClassFree
	}

	g.resolveOrder()
	return g, nil
}

// resolveOrder computes the phase-2 execution order. When the dependency
// relation is acyclic the order is a topological one (vacate first, land
// after). A cycle means some mappings swap names; those are staged through
// temporary names, so any order is safe and the request order is kept.
func (g *Graph) resolveOrder() {
	g.Order = make([]int, len(g.Mappings))
	for i := range g.Order {
		g.Order[i] = i
	}
	if len(g.Edges) == 0 {
		return
	}

	edges := make([]toposort.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		// The vacating mapping (To) must run before the one landing on its
		// old name (From).
		edges = append(edges, toposort.Edge{e.To, e.From})
	}
	if _, err := toposort.Toposort(edges); err != nil {
		g.Cyclic = true
		return
	}

	// Toposort validated acyclicity above, but its ordering of
	// incomparable nodes follows map iteration and varies run to run.
	// Plans must come out identical for identical input, so the order
	// itself is derived with a Kahn pass over the index edges, taking the
	// smallest ready index first.
	indegree := make([]int, len(g.Mappings))
	successors := make([][]int, len(g.Mappings))
	for _, e := range g.Edges {
		successors[e.To] = append(successors[e.To], e.From)
		indegree[e.From]++
	}

	frontier := make([]int, 0, len(g.Mappings))
	for i, d := range indegree {
		if d == 0 {
			frontier = append(frontier, i)
		}
	}

	order := make([]int, 0, len(g.Mappings))
	for len(frontier) > 0 {
		sort.Ints(frontier)
		next := frontier[0]
		frontier = frontier[1:]
		order = append(order, next)
		for _, s := range successors[next] {
			indegree[s]--
			if indegree[s] == 0 {
				frontier = append(frontier, s)
			}
		}
	}
	g.Order = order
}

// Displaced returns the indices of mappings whose source must be staged out
// before phase 2: every node on the vacating end of a dependency edge. The
// result is sorted and free of duplicates.
func (g *Graph) Displaced() []int {
	seen := make(map[int]struct{}, len(g.Edges))
	var displaced []int
	for _, e := range g.Edges {
		if _, ok := seen[e.To]; ok {
			continue
		}
		seen[e.To] = struct{}{}
		displaced = append(displaced, e.To)
	}
	sort.Ints(displaced)
	return displaced
}
