package renamesafe

import (
	"errors"
	"testing"
)

func TestBuildGraphClassifiesFreeTargets(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt", "b.txt"})
	mappings := []Mapping{
		{Source: "a.txt", Target: "c.txt"},
		{Source: "b.txt", Target: "d.txt"},
	}

	g, err := BuildGraph(mappings, snap)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	for i, class := range g.Classes {
		if class != ClassFree {
			t.Errorf("mapping %d class = %v, want free", i, class)
		}
	}
	if len(g.Edges) != 0 {
		t.Errorf("expected no edges, got %v", g.Edges)
	}
	if g.Cyclic {
		t.Error("graph marked cyclic without edges")
	}
}

func TestBuildGraphChain(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt", "b.txt"})
	// a wants b's name; b moves to a free name.
	mappings := []Mapping{
		{Source: "a.txt", Target: "b.txt"},
		{Source: "b.txt", Target: "c.txt"},
	}

	g, err := BuildGraph(mappings, snap)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	if g.Classes[0] != ClassChainedConflict {
		t.Errorf("mapping 0 class = %v, want chained-conflict", g.Classes[0])
	}
	if g.Classes[1] != ClassFree {
		t.Errorf("mapping 1 class = %v, want free", g.Classes[1])
	}
	if len(g.Edges) != 1 || g.Edges[0] != (Edge{From: 0, To: 1}) {
		t.Errorf("edges = %v, want [{0 1}]", g.Edges)
	}
	if g.Cyclic {
		t.Error("chain misreported as cyclic")
	}
	// The vacating mapping must come first in the resolved order.
	if len(g.Order) != 2 || g.Order[0] != 1 || g.Order[1] != 0 {
		t.Errorf("order = %v, want [1 0]", g.Order)
	}
}

func TestBuildGraphCycle(t *testing.T) {
	snap := NewSnapshot([]string{"ep1.mkv", "ep2.mkv"})
	mappings := []Mapping{
		{Source: "ep1.mkv", Target: "ep2.mkv"},
		{Source: "ep2.mkv", Target: "ep1.mkv"},
	}

	g, err := BuildGraph(mappings, snap)
	if err != nil {
		t.Fatalf("swap must be valid, got: %v", err)
	}
	if !g.Cyclic {
		t.Error("swap not detected as cyclic")
	}
	if g.Classes[0] != ClassChainedConflict || g.Classes[1] != ClassChainedConflict {
		t.Errorf("classes = %v, want both chained-conflict", g.Classes)
	}
	displaced := g.Displaced()
	if len(displaced) != 2 {
		t.Errorf("displaced = %v, want both mappings", displaced)
	}
}

func TestBuildGraphDuplicateTargetIsFatal(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt", "b.txt"})
	mappings := []Mapping{
		{Source: "a.txt", Target: "same.txt"},
		{Source: "b.txt", Target: "same.txt"},
	}

	_, err := BuildGraph(mappings, snap)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonDuplicateTarget {
		t.Errorf("reason = %q, want %q", verr.Reason, ReasonDuplicateTarget)
	}
	if verr.Path != "same.txt" {
		t.Errorf("path = %q, want same.txt", verr.Path)
	}
}

func TestBuildGraphDuplicateSourceIsFatal(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt"})
	mappings := []Mapping{
		{Source: "a.txt", Target: "b.txt"},
		{Source: "a.txt", Target: "c.txt"},
	}

	_, err := BuildGraph(mappings, snap)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonDuplicateSource {
		t.Errorf("reason = %q, want %q", verr.Reason, ReasonDuplicateSource)
	}
}

func TestBuildGraphBystanderIsFatal(t *testing.T) {
	// movie2 wants movie3's name, and movie3 is not part of the batch.
	// Displacing it would leave it stranded under a temporary name, so the
	// batch must be rejected before any move.
	snap := NewSnapshot([]string{"movie1.mkv", "movie2.mkv", "movie3.mkv"})
	mappings := []Mapping{
		{Source: "movie1.mkv", Target: "showA.mkv"},
		{Source: "movie2.mkv", Target: "movie3.mkv"},
	}

	_, err := BuildGraph(mappings, snap)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonStrandedBystander {
		t.Errorf("reason = %q, want %q", verr.Reason, ReasonStrandedBystander)
	}
	if verr.Path != "movie3.mkv" {
		t.Errorf("path = %q, want movie3.mkv", verr.Path)
	}
}

func TestBuildGraphFiltersSelfRenames(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt", "b.txt"})
	mappings := []Mapping{
		{Source: "a.txt", Target: "a.txt"},
		{Source: "b.txt", Target: "c.txt"},
	}

	g, err := BuildGraph(mappings, snap)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	if len(g.Mappings) != 1 {
		t.Fatalf("self-rename not filtered: %v", g.Mappings)
	}
	if g.Mappings[0].Source != "b.txt" {
		t.Errorf("surviving mapping = %+v", g.Mappings[0])
	}
}

func TestBuildGraphLongerChainOrder(t *testing.T) {
	snap := NewSnapshot([]string{"a.txt", "b.txt", "c.txt"})
	// a -> b -> c -> d, declared in worst-case order.
	mappings := []Mapping{
		{Source: "a.txt", Target: "b.txt"},
		{Source: "b.txt", Target: "c.txt"},
		{Source: "c.txt", Target: "d.txt"},
	}

	g, err := BuildGraph(mappings, snap)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	if g.Cyclic {
		t.Error("chain misreported as cyclic")
	}
	// Each mapping must be ordered after the one vacating its target.
	pos := make(map[int]int)
	for p, idx := range g.Order {
		pos[idx] = p
	}
	for _, e := range g.Edges {
		if pos[e.To] > pos[e.From] {
			t.Errorf("order %v violates edge %v", g.Order, e)
		}
	}
}
