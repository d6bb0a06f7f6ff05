// Package aggregate merges normalized per-model responses into
// frequency-ranked, deduplicated top-K entity lists. It is a pure
// function over already-validated inputs: it never errors, and an
// empty response set yields an empty list.
package aggregate

import (
	"sort"

	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
)

type entityCount struct {
	name      string
	frequency int
	order     int
}

// countFrequencies tallies raw mentions per canonical name. Frequency
// counts mentions, not distinct models: a model listing the same
// canonical entity twice counts twice. Failed responses contribute
// nothing. Encounter order is recorded for deterministic tie-breaks.
func countFrequencies(responses []*domain.ModelResponse, normalized *domain.NormalizationResult) []entityCount {
	counts := make(map[string]*entityCount)
	ordered := make([]*entityCount, 0)

	for _, response := range responses {
		if response == nil || response.Failed() {
			continue
		}
		for _, item := range response.Items {
			canonical := normalized.Canonical(item)
			entry, ok := counts[canonical]
			if !ok {
				entry = &entityCount{name: canonical, order: len(ordered)}
				counts[canonical] = entry
				ordered = append(ordered, entry)
			}
			entry.frequency++
		}
	}

	result := make([]entityCount, len(ordered))
	for i, entry := range ordered {
		result[i] = *entry
	}
	return result
}

// rank sorts by descending frequency with first-encounter order
// breaking ties, then truncates to the top K. Never pads: fewer than K
// distinct entities means a shorter list.
func rank(counts []entityCount) []entityCount {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].frequency != counts[j].frequency {
			return counts[i].frequency > counts[j].frequency
		}
		return counts[i].order < counts[j].order
	})

	if len(counts) > constants.AggregationConfig.TopK {
		counts = counts[:constants.AggregationConfig.TopK]
	}
	return counts
}

// Competitors aggregates competitor responses into the ranked top-K
// competitor list.
func Competitors(responses []*domain.ModelResponse, normalized *domain.NormalizationResult) []*domain.Competitor {
	ranked := rank(countFrequencies(responses, normalized))

	competitors := make([]*domain.Competitor, len(ranked))
	for i, entry := range ranked {
		kind, parent := ClassifyCompetitor(entry.name)
		competitors[i] = &domain.Competitor{
			Name:      entry.name,
			Kind:      kind,
			Parent:    parent,
			Frequency: entry.frequency,
			Rank:      i + 1,
		}
	}
	return competitors
}

// Criteria aggregates criterion responses into the ranked top-K
// criterion list.
func Criteria(responses []*domain.ModelResponse, normalized *domain.NormalizationResult) []*domain.Criterion {
	ranked := rank(countFrequencies(responses, normalized))

	criteria := make([]*domain.Criterion, len(ranked))
	for i, entry := range ranked {
		valueType := InferValueType(entry.name)
		criteria[i] = &domain.Criterion{
			Name:      entry.name,
			ValueType: valueType,
			Unit:      InferUnit(entry.name),
			Scale:     InferScale(valueType),
			Frequency: entry.frequency,
			Rank:      i + 1,
		}
	}
	return criteria
}
