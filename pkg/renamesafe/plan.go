package renamesafe

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Phase identifies which of the three execution phases a step belongs to.
type Phase int

const (
	// PhaseStageOut moves a blocking file to its temporary name, clearing
	// every name that is about to be landed on.
	PhaseStageOut Phase = iota
	// PhaseRename performs the actual renames. With all blocking names
	// cleared in stage-out, every move in this phase is clobber-free.
	PhaseRename
	// PhaseStageIn would restore displaced bystanders. Because bystander
	// conflicts fail validation before execution, this phase is empty in
	// any plan that reaches the executor; it is modeled so the invariant
	// is checkable.
	PhaseStageIn
)

func (p Phase) String() string {
	switch p {
	case PhaseStageOut:
		return "stage-out"
	case PhaseRename:
		return "rename"
	case PhaseStageIn:
		return "stage-in"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the phase as its string name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase from its string name.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "stage-out":
		*p = PhaseStageOut
	case "rename":
		*p = PhaseRename
	case "stage-in":
		*p = PhaseStageIn
	default:
		return fmt.Errorf("unknown phase %q", s)
	}
	return nil
}

// Step is one literal filesystem move, after any temporary-alias
// substitution. Steps are executed strictly in plan order.
type Step struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Phase  Phase  `json:"phase"`
}

// Plan is the ordered list of moves that realizes a batch, plus the
// temporary aliases it routes through. Building a plan never mutates the
// filesystem; only the executor does.
type Plan struct {
	Steps   []Step
	Aliases []Alias
}

// StepsInPhase returns the plan's steps belonging to the given phase, in
// plan order.
func (p *Plan) StepsInPhase(phase Phase) []Step {
	var steps []Step
	for _, s := range p.Steps {
		if s.Phase == phase {
			steps = append(steps, s)
		}
	}
	return steps
}

// BuildPlan orders a validated graph's mappings into the three-phase move
// sequence. Every mapping source sitting on another mapping's target gets a
// temporary alias and a stage-out step; the rename phase then runs in the
// graph's resolved order with staged sources substituted.
func BuildPlan(g *Graph, snap *Snapshot, logger zerolog.Logger) *Plan {
	alloc := NewAllocator(snap)
	for _, m := range g.Mappings {
		alloc.Reserve(m.Target)
	}

	plan := &Plan{}
	staged := make(map[string]string, len(g.Mappings))

	for _, idx := range g.Displaced() {
		m := g.Mappings[idx]
		alias := Alias{
			Original: m.Source,
			TempName: alloc.Allocate(m.Source),
			Class:    g.Classes[idx],
		}
		plan.Aliases = append(plan.Aliases, alias)
		staged[m.Source] = alias.TempName
		plan.Steps = append(plan.Steps, Step{
			Source: alias.Original,
			Target: alias.TempName,
			Phase:  PhaseStageOut,
		})
		logger.Debug().
			Str("file", alias.Original).
			Str("temp", alias.TempName).
			Str("class", alias.Class.String()).
			Msg("staging blocking file")
	}

	consumed := make(map[string]bool, len(staged))
	for _, idx := range g.Order {
		m := g.Mappings[idx]
		source := m.Source
		if temp, ok := staged[m.Source]; ok {
			source = temp
			consumed[m.Source] = true
		}
		plan.Steps = append(plan.Steps, Step{
			Source: source,
			Target: m.Target,
			Phase:  PhaseRename,
		})
	}

	// Any alias not consumed by a rename belongs to a displaced file with
	// no mapping of its own. Validation rejects those batches, so this
	// phase stays empty; restoring the original name keeps the plan sound
	// if that ever changes.
	for _, alias := range plan.Aliases {
		if consumed[alias.Original] {
			continue
		}
		plan.Steps = append(plan.Steps, Step{
			Source: alias.TempName,
			Target: alias.Original,
			Phase:  PhaseStageIn,
		})
	}

	logger.Debug().
		Int("steps", len(plan.Steps)).
		Int("aliases", len(plan.Aliases)).
		Bool("cyclic", g.Cyclic).
		Msg("plan built")
	return plan
}
