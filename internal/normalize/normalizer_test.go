package normalize

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/llm"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
	lastReq  llm.ChatRequest
}

func (f *fakeProvider) Name() string { return "fake/normalizer" }

func (f *fakeProvider) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestNormalizeMapsVariantsToCanonical(t *testing.T) {
	provider := &fakeProvider{
		response: `{"normalized": {"Uber": "Uber", "UBER": "Uber", "uber technologies": "Uber", "Lyft": "Lyft"}}`,
	}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber", "UBER", "uber technologies", "Lyft"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if result.Canonical("UBER") != "Uber" {
		t.Fatalf("expected UBER to map to Uber, got %q", result.Canonical("UBER"))
	}
	if result.Canonical("Lyft") != "Lyft" {
		t.Fatalf("expected Lyft unchanged, got %q", result.Canonical("Lyft"))
	}
	if !provider.lastReq.JSONMode {
		t.Fatalf("normalization calls must request JSON mode")
	}
}

func TestNormalizeFillsGapsTheModelLeft(t *testing.T) {
	provider := &fakeProvider{
		response: `{"normalized": {"Uber": "Uber"}}`,
	}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber", "Lyft"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if result.Canonical("Lyft") != "Lyft" {
		t.Fatalf("unmapped entity must self-map, got %q", result.Canonical("Lyft"))
	}
	if len(result.Normalized) != 2 {
		t.Fatalf("expected complete map, got %v", result.Normalized)
	}
}

func TestNormalizeAcceptsFencedJSON(t *testing.T) {
	provider := &fakeProvider{
		response: "```json\n{\"normalized\": {\"Uber\": \"Uber\"}}\n```",
	}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if result.Canonical("Uber") != "Uber" {
		t.Fatalf("fenced JSON should parse, got %v", result.Normalized)
	}
}

func TestNormalizeProviderErrorFallsBackToIdentity(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("upstream unavailable")}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber", "Lyft"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if len(result.Normalized) != 2 {
		t.Fatalf("expected identity map for both entities, got %v", result.Normalized)
	}
	for _, entity := range []string{"Uber", "Lyft"} {
		if result.Canonical(entity) != entity {
			t.Fatalf("identity fallback broken for %q: %q", entity, result.Canonical(entity))
		}
	}
}

func TestNormalizeGarbagePayloadFallsBackToIdentity(t *testing.T) {
	provider := &fakeProvider{response: "I cannot produce JSON right now."}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if result.Canonical("Uber") != "Uber" {
		t.Fatalf("expected identity fallback, got %v", result.Normalized)
	}
}

func TestNormalizeEmptyRequestSkipsProvider(t *testing.T) {
	provider := &fakeProvider{response: `{"normalized": {}}`}
	normalizer := NewNormalizer(provider, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Kind: domain.EntityKindCompetitors,
	})

	if len(result.Normalized) != 0 {
		t.Fatalf("expected empty map, got %v", result.Normalized)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for an empty request, got %d calls", provider.calls)
	}
}

func TestNormalizeNilProviderFallsBackToIdentity(t *testing.T) {
	normalizer := NewNormalizer(nil, nil, zap.NewNop())

	result := normalizer.Normalize(context.Background(), domain.NormalizationRequest{
		Entities: []string{"Uber"},
		Context:  "ride sharing",
		Kind:     domain.EntityKindCompetitors,
	})

	if result.Canonical("Uber") != "Uber" {
		t.Fatalf("expected identity fallback without provider, got %v", result.Normalized)
	}
}
