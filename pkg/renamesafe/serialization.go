package renamesafe

import (
	"encoding/json"
	"fmt"
	"time"
)

// PlanDocument is the serializable form of a plan, written by the CLI's
// preview mode and usable as an audit record of what a batch was about to
// do.
type PlanDocument struct {
	Metadata PlanMetadata `json:"metadata"`
	Steps    []Step       `json:"steps"`
}

// PlanMetadata describes when and where a plan was computed.
type PlanMetadata struct {
	Version   string `json:"version"`
	Directory string `json:"directory,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// planFormatVersion is bumped when the document layout changes.
const planFormatVersion = "1"

// MarshalPlan serializes a plan to indented JSON.
func MarshalPlan(plan *Plan, directory string) ([]byte, error) {
	doc := PlanDocument{
		Metadata: PlanMetadata{
			Version:   planFormatVersion,
			Directory: directory,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Steps: plan.Steps,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalPlan deserializes a plan document from JSON.
func UnmarshalPlan(data []byte) (*PlanDocument, error) {
	var doc PlanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan document: %w", err)
	}
	if doc.Metadata.Version != planFormatVersion {
		return nil, fmt.Errorf("unsupported plan format version %q", doc.Metadata.Version)
	}
	return &doc, nil
}
