package domain

import "github.com/kapu/comp-table-go/internal/util"

// EntityKind is the category of entity a prompt asks for: the pipeline
// processes competitors and criteria identically but independently.
type EntityKind string

const (
	EntityKindCompetitors EntityKind = "competitors"
	EntityKindCriteria    EntityKind = "criteria"
	EntityKindUnknown     EntityKind = "unknown"
)

func (k EntityKind) String() string {
	return string(k)
}

func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCompetitors, EntityKindCriteria:
		return true
	default:
		return false
	}
}

func NormalizeEntityKind(raw string) EntityKind {
	switch util.Normalize(raw) {
	case string(EntityKindCompetitors):
		return EntityKindCompetitors
	case string(EntityKindCriteria):
		return EntityKindCriteria
	default:
		return EntityKindUnknown
	}
}

// ModelResponse is one model's answer to one prompt. A response either
// carries items or a failure; a failed response contributes nothing to
// aggregation but is kept for the raw-outcomes audit view.
type ModelResponse struct {
	Model   string     `json:"model"`
	Kind    EntityKind `json:"kind"`
	Items   []string   `json:"items,omitempty"`
	Failure string     `json:"failure,omitempty"`
}

func (r *ModelResponse) Failed() bool {
	return r != nil && r.Failure != ""
}
