package aggregate

import (
	"fmt"
	"testing"

	"github.com/kapu/comp-table-go/internal/domain"
)

func response(model string, items ...string) *domain.ModelResponse {
	return &domain.ModelResponse{
		Model: model,
		Kind:  domain.EntityKindCompetitors,
		Items: items,
	}
}

func TestCompetitorsMergesVariantsThroughNormalization(t *testing.T) {
	responses := []*domain.ModelResponse{
		response("model-a", "Uber", "Lyft"),
		response("model-b", "UBER"),
		response("model-c", "uber", "Bolt"),
	}
	normalized := &domain.NormalizationResult{
		Normalized: map[string]string{
			"Uber": "Uber",
			"UBER": "Uber",
			"uber": "Uber",
			"Lyft": "Lyft",
			"Bolt": "Bolt",
		},
	}

	competitors := Competitors(responses, normalized)
	if len(competitors) != 3 {
		t.Fatalf("expected 3 competitors, got %d", len(competitors))
	}

	if competitors[0].Name != "Uber" || competitors[0].Frequency != 3 || competitors[0].Rank != 1 {
		t.Fatalf("unexpected top competitor: %+v", competitors[0])
	}
	// Equal frequencies break by first encounter: Lyft before Bolt.
	if competitors[1].Name != "Lyft" || competitors[1].Rank != 2 {
		t.Fatalf("unexpected second competitor: %+v", competitors[1])
	}
	if competitors[2].Name != "Bolt" || competitors[2].Frequency != 1 {
		t.Fatalf("unexpected third competitor: %+v", competitors[2])
	}
}

func TestCompetitorsCountRawMentionsNotModels(t *testing.T) {
	// One model listing the same canonical entity twice counts twice.
	responses := []*domain.ModelResponse{
		response("model-a", "Uber", "UBER"),
	}
	normalized := &domain.NormalizationResult{
		Normalized: map[string]string{"Uber": "Uber", "UBER": "Uber"},
	}

	competitors := Competitors(responses, normalized)
	if len(competitors) != 1 || competitors[0].Frequency != 2 {
		t.Fatalf("expected single entity with frequency 2, got %+v", competitors)
	}
}

func TestCompetitorsSkipFailedResponses(t *testing.T) {
	responses := []*domain.ModelResponse{
		response("model-a", "Uber"),
		{Model: "model-b", Kind: domain.EntityKindCompetitors, Failure: "timeout"},
		nil,
	}

	competitors := Competitors(responses, domain.IdentityNormalization([]string{"Uber"}))
	if len(competitors) != 1 || competitors[0].Name != "Uber" {
		t.Fatalf("expected failed and nil responses ignored, got %+v", competitors)
	}
}

func TestCompetitorsTruncatesToTopTen(t *testing.T) {
	items := make([]string, 15)
	for i := range items {
		items[i] = fmt.Sprintf("Company %02d", i)
	}

	responses := []*domain.ModelResponse{response("model-a", items...)}
	competitors := Competitors(responses, domain.IdentityNormalization(items))

	if len(competitors) != 10 {
		t.Fatalf("expected top 10, got %d", len(competitors))
	}
	for i, competitor := range competitors {
		if competitor.Rank != i+1 {
			t.Fatalf("ranks must be contiguous from 1, got %d at position %d", competitor.Rank, i)
		}
	}
	// Equal frequencies keep encounter order after truncation.
	if competitors[0].Name != "Company 00" || competitors[9].Name != "Company 09" {
		t.Fatalf("unexpected truncation order: first=%s last=%s", competitors[0].Name, competitors[9].Name)
	}
}

func TestCompetitorsEmptyInput(t *testing.T) {
	competitors := Competitors(nil, domain.IdentityNormalization(nil))
	if len(competitors) != 0 {
		t.Fatalf("expected empty list, got %+v", competitors)
	}
}

func TestCompetitorsUnmappedEntityFallsBackToRaw(t *testing.T) {
	responses := []*domain.ModelResponse{response("model-a", "Waymo")}

	competitors := Competitors(responses, &domain.NormalizationResult{Normalized: map[string]string{}})
	if len(competitors) != 1 || competitors[0].Name != "Waymo" {
		t.Fatalf("expected raw fallback for unmapped entity, got %+v", competitors)
	}
}

func TestCriteriaCarryClassification(t *testing.T) {
	responses := []*domain.ModelResponse{
		{
			Model: "model-a",
			Kind:  domain.EntityKindCriteria,
			Items: []string{"Battery Life", "Color", "Battery Life", "Ease of Use"},
		},
	}
	normalized := domain.IdentityNormalization([]string{"Battery Life", "Color", "Ease of Use"})

	criteria := Criteria(responses, normalized)
	if len(criteria) != 3 {
		t.Fatalf("expected 3 criteria, got %d", len(criteria))
	}

	battery := criteria[0]
	if battery.Name != "Battery Life" || battery.Frequency != 2 || battery.Rank != 1 {
		t.Fatalf("unexpected top criterion: %+v", battery)
	}
	if battery.ValueType != domain.ValueTypeQuantitative || battery.Unit != "hours" || battery.Scale != "" {
		t.Fatalf("unexpected battery classification: %+v", battery)
	}

	color := criteria[1]
	if color.ValueType != domain.ValueTypeCategorical || color.Unit != "" {
		t.Fatalf("unexpected color classification: %+v", color)
	}

	ease := criteria[2]
	if ease.ValueType != domain.ValueTypeQualitative || ease.Scale != "1-5" {
		t.Fatalf("unexpected qualitative classification: %+v", ease)
	}
}
