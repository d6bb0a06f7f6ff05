package domain

// NormalizationRequest carries the deduplicated union of raw entity
// strings for one kind, plus the user target for disambiguation.
type NormalizationRequest struct {
	Entities []string   `json:"entities"`
	Context  string     `json:"context"`
	Kind     EntityKind `json:"kind"`
}

// NormalizationResult maps each raw entity string to its canonical
// form. Groups is the optional reverse mapping kept for diagnostics;
// ranking never reads it.
type NormalizationResult struct {
	Normalized map[string]string   `json:"normalized"`
	Groups     map[string][]string `json:"groups,omitempty"`
}

// IdentityNormalization builds the fallback map where every entity is
// its own canonical form. Substituted whenever the normalization
// service fails; an entity is never left unmapped.
func IdentityNormalization(entities []string) *NormalizationResult {
	normalized := make(map[string]string, len(entities))
	for _, entity := range entities {
		normalized[entity] = entity
	}
	return &NormalizationResult{Normalized: normalized}
}

// Canonical resolves a raw entity through the map, falling back to the
// raw string itself when absent.
func (n *NormalizationResult) Canonical(raw string) string {
	if n == nil || n.Normalized == nil {
		return raw
	}
	if canonical, ok := n.Normalized[raw]; ok && canonical != "" {
		return canonical
	}
	return raw
}
