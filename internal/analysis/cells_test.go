package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/llm"
)

type fakeProvider struct {
	mu        sync.Mutex
	name      string
	responses map[string]string
	response  string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeProvider) Name() string {
	if f.name == "" {
		return "fake/model"
	}
	return f.name
}

func (f *fakeProvider) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	for key, response := range f.responses {
		if key != "" && strings.Contains(req.Prompt, key) {
			return response, nil
		}
	}
	return f.response, nil
}

func TestPostProcessAnswer(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Electric", "Electric"},
		{"Answer: Electric", "Electric"},
		{"A: Electric motor", "Electric motor"},
		{"Response: 350 miles", "350 miles"},
		{"Answer only: Yes", "Yes"},
		{"answer: lowercase label stripped", "lowercase label stripped"},
		{"<think>internal reasoning\nspanning lines</think>Answer: Electric propulsion system here", "Electric propulsion system here"},
		{"Electric\nAdditional detail on next line", "Electric"},
		{"one two three four five six seven", "one two three four five"},
		{"", "Unknown"},
		{"<think>only reasoning</think>", "Unknown"},
		{"   \n\n  ", "Unknown"},
	}

	for _, tt := range tests {
		if got := PostProcessAnswer(tt.input); got != tt.want {
			t.Fatalf("PostProcessAnswer(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAnswerReturnsProcessedValue(t *testing.T) {
	provider := &fakeProvider{response: "Answer: Electric propulsion"}
	resolver := NewCellResolver(provider, nil, zap.NewNop())

	answer := resolver.Answer(context.Background(), "Tesla", "Fuel Source")
	if answer.Error {
		t.Fatalf("unexpected error flag: %+v", answer)
	}
	if answer.Answer != "Electric propulsion" {
		t.Fatalf("expected processed answer, got %q", answer.Answer)
	}
	if answer.Competitor != "Tesla" || answer.Criterion != "Fuel Source" {
		t.Fatalf("answer lost identity: %+v", answer)
	}
}

func TestAnswerProviderFailureYieldsErrorSentinel(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("upstream unavailable")}
	resolver := NewCellResolver(provider, nil, zap.NewNop())

	answer := resolver.Answer(context.Background(), "Tesla", "Price")
	if !answer.Error {
		t.Fatalf("expected error flag, got %+v", answer)
	}
	if answer.Answer != "Error" {
		t.Fatalf("expected error sentinel, got %q", answer.Answer)
	}
}

func TestDescriptionProviderFailureIsLocal(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("upstream unavailable")}
	resolver := NewCellResolver(provider, nil, zap.NewNop())

	desc := resolver.Description(context.Background(), "Rivian", "electric trucks")
	if !desc.Error || desc.Text != "Error" {
		t.Fatalf("expected local error sentinel, got %+v", desc)
	}
}

func TestResolveAllFillsEveryCell(t *testing.T) {
	provider := &fakeProvider{response: "Electric"}
	resolver := NewCellResolver(provider, nil, zap.NewNop())

	result := &domain.AnalysisResult{
		Target: "electric cars",
		Competitors: []*domain.Competitor{
			{Name: "Tesla", Rank: 1},
		},
		Criteria: []*domain.Criterion{
			{Name: "Fuel Source", Rank: 1},
			{Name: "Range", Rank: 2},
		},
		Table: domain.NewEmptyTable(1, 2),
	}

	if err := resolver.ResolveAll(context.Background(), result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for ki := range result.Criteria {
		cell := result.Cell(0, ki)
		if cell == nil {
			t.Fatalf("cell 0-%d not resolved", ki)
		}
		if cell.Answer != "Electric" {
			t.Fatalf("unexpected cell answer: %+v", cell)
		}
		if result.Table[0][ki] != "Electric" {
			t.Fatalf("table grid not updated at 0-%d", ki)
		}
	}

	if result.Descriptions["Tesla"] == nil || result.Descriptions["Tesla"].Text != "Electric" {
		t.Fatalf("description not resolved: %+v", result.Descriptions)
	}

	// One description plus one call per cell.
	if provider.calls != 3 {
		t.Fatalf("expected 3 provider calls, got %d", provider.calls)
	}
}

func TestResolveAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{response: "Electric"}
	resolver := NewCellResolver(provider, nil, zap.NewNop())

	result := &domain.AnalysisResult{
		Target: "electric cars",
		Competitors: []*domain.Competitor{
			{Name: "Tesla", Rank: 1},
		},
		Criteria: []*domain.Criterion{
			{Name: "Range", Rank: 1},
		},
		Table: domain.NewEmptyTable(1, 1),
	}

	start := time.Now()
	if err := resolver.ResolveAll(ctx, result); err == nil {
		t.Fatalf("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancellation should return promptly, took %v", elapsed)
	}
}
