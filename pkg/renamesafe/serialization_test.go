package renamesafe

import (
	"reflect"
	"strings"
	"testing"
)

func TestPlanRoundTrip(t *testing.T) {
	plan := &Plan{Steps: []Step{
		{Source: "ep1.mkv", Target: ".rs-tmp-1.mkv", Phase: PhaseStageOut},
		{Source: ".rs-tmp-1.mkv", Target: "ep2.mkv", Phase: PhaseRename},
	}}

	data, err := MarshalPlan(plan, "/media/shows")
	if err != nil {
		t.Fatalf("MarshalPlan failed: %v", err)
	}
	if !strings.Contains(string(data), `"stage-out"`) {
		t.Errorf("phase not serialized by name:\n%s", data)
	}

	doc, err := UnmarshalPlan(data)
	if err != nil {
		t.Fatalf("UnmarshalPlan failed: %v", err)
	}
	if doc.Metadata.Directory != "/media/shows" {
		t.Errorf("directory = %q", doc.Metadata.Directory)
	}
	if !reflect.DeepEqual(doc.Steps, plan.Steps) {
		t.Errorf("steps = %v, want %v", doc.Steps, plan.Steps)
	}
}

func TestUnmarshalPlanRejectsUnknownVersion(t *testing.T) {
	_, err := UnmarshalPlan([]byte(`{"metadata":{"version":"99"},"steps":[]}`))
	if err == nil {
		t.Fatal("expected error for unknown format version")
	}
}

func TestUnmarshalPlanRejectsUnknownPhase(t *testing.T) {
	_, err := UnmarshalPlan([]byte(`{"metadata":{"version":"1"},"steps":[{"source":"a","target":"b","phase":"sideways"}]}`))
	if err == nil {
		t.Fatal("expected error for unknown phase")
	}
}
