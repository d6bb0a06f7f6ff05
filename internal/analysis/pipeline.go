// Package analysis orchestrates the full pipeline: fan the target out
// to every configured model, parse each payload, normalize the raw
// entity unions, and aggregate into the ranked comparison table.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/aggregate"
	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/llm"
	"github.com/kapu/comp-table-go/internal/normalize"
	"github.com/kapu/comp-table-go/internal/parser"
	"github.com/kapu/comp-table-go/internal/prompt"
	"github.com/kapu/comp-table-go/internal/util"
	"github.com/kapu/comp-table-go/pkg/errors"
)

// ProgressFunc receives stage transitions for presentation layers.
type ProgressFunc func(stage domain.Stage, message string)

type Pipeline struct {
	fanout     []llm.ChatProvider
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

func NewPipeline(fanout []llm.ChatProvider, normalizer *normalize.Normalizer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fanout:     fanout,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Run executes one analysis. Per-model failures and normalization
// failures degrade the result; the only fatal case is both fan-out
// stages yielding zero usable responses.
func (p *Pipeline) Run(ctx context.Context, target string, progress ProgressFunc) (*domain.AnalysisResult, error) {
	if progress == nil {
		progress = func(domain.Stage, string) {}
	}

	progress(domain.StageFetching, "Querying multiple LLMs for competitors and criteria...")
	started := time.Now()

	var (
		competitorResponses []*domain.ModelResponse
		criteriaResponses   []*domain.ModelResponse
		wg                  sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		competitorResponses = p.fanOut(ctx, target, domain.EntityKindCompetitors)
	}()
	go func() {
		defer wg.Done()
		criteriaResponses = p.fanOut(ctx, target, domain.EntityKindCriteria)
	}()
	wg.Wait()

	if countUsable(competitorResponses) == 0 && countUsable(criteriaResponses) == 0 {
		return nil, errors.New("all model queries failed", errors.CodePipelineFailed, map[string]any{
			"target": target,
			"models": len(p.fanout),
		})
	}

	progress(domain.StageNormalizing, "Normalizing and deduplicating results...")

	competitorUnion := rawUnion(competitorResponses)
	criteriaUnion := rawUnion(criteriaResponses)

	// Both normalization calls need the complete raw unions, so they
	// start only after the fan-out join; between themselves they run
	// concurrently.
	var (
		competitorNorm *domain.NormalizationResult
		criteriaNorm   *domain.NormalizationResult
		normWG         sync.WaitGroup
	)
	normWG.Add(2)
	go func() {
		defer normWG.Done()
		competitorNorm = p.normalizer.Normalize(ctx, domain.NormalizationRequest{
			Entities: competitorUnion,
			Context:  target,
			Kind:     domain.EntityKindCompetitors,
		})
	}()
	go func() {
		defer normWG.Done()
		criteriaNorm = p.normalizer.Normalize(ctx, domain.NormalizationRequest{
			Entities: criteriaUnion,
			Context:  target,
			Kind:     domain.EntityKindCriteria,
		})
	}()
	normWG.Wait()

	competitors := aggregate.Competitors(competitorResponses, competitorNorm)
	criteria := aggregate.Criteria(criteriaResponses, criteriaNorm)

	result := &domain.AnalysisResult{
		Target:      target,
		Competitors: competitors,
		Criteria:    criteria,
		Table:       domain.NewEmptyTable(len(competitors), len(criteria)),
		Timestamp:   time.Now(),
		Raw: &domain.RawResponses{
			Competitors: competitorResponses,
			Criteria:    criteriaResponses,
		},
	}

	p.logger.Info("Analysis complete",
		zap.String("target", target),
		zap.Int("competitors", len(competitors)),
		zap.Int("criteria", len(criteria)),
		zap.Int("usable_competitor_responses", countUsable(competitorResponses)),
		zap.Int("usable_criteria_responses", countUsable(criteriaResponses)),
		zap.Duration("elapsed", time.Since(started)),
	)

	progress(domain.StageComplete, "Analysis complete!")
	return result, nil
}

// fanOut issues one prompt to every configured model concurrently. The
// join completes when every model has either returned or failed;
// failures convert to failed responses so the wait can never be left
// pending by a single model's error.
func (p *Pipeline) fanOut(ctx context.Context, target string, kind domain.EntityKind) []*domain.ModelResponse {
	promptText := prompt.BuildCompetitorsPrompt(prompt.FanoutPromptData{Target: target})
	if kind == domain.EntityKindCriteria {
		promptText = prompt.BuildCriteriaPrompt(prompt.FanoutPromptData{Target: target})
	}

	responses := make([]*domain.ModelResponse, len(p.fanout))
	fanoutPool := pool.New().WithMaxGoroutines(len(p.fanout))

	for idx, provider := range p.fanout {
		idx, provider := idx, provider
		fanoutPool.Go(func() {
			responses[idx] = p.queryModel(ctx, provider, promptText, kind)
		})
	}
	fanoutPool.Wait()

	return responses
}

func (p *Pipeline) queryModel(ctx context.Context, provider llm.ChatProvider, promptText string, kind domain.EntityKind) *domain.ModelResponse {
	callCtx, cancel := context.WithTimeout(ctx, constants.APIConfig.FanoutTimeout)
	defer cancel()

	text, err := provider.Complete(callCtx, llm.ChatRequest{
		Prompt:      promptText,
		Temperature: constants.GenerationConfig.FanoutTemperature,
		MaxTokens:   constants.GenerationConfig.FanoutMaxTokens,
	})
	if err != nil {
		apiErr := errors.NewAPIError("model query failed", provider.Name(), err)
		p.logger.Warn("Model query failed",
			zap.String("model", provider.Name()),
			zap.String("kind", kind.String()),
			zap.Error(apiErr),
		)
		return parser.Failed(provider.Name(), kind, apiErr.Error())
	}

	response := parser.Parse(provider.Name(), text, kind)
	if response.Failed() {
		p.logger.Warn("Model response unparseable",
			zap.String("model", provider.Name()),
			zap.String("kind", kind.String()),
			zap.String("reason", response.Failure),
		)
	}
	return response
}

// rawUnion collects the deduplicated union of raw items across all
// non-failed responses, preserving first-seen order.
func rawUnion(responses []*domain.ModelResponse) []string {
	var all []string
	for _, response := range responses {
		if response == nil || response.Failed() {
			continue
		}
		all = append(all, response.Items...)
	}
	return util.Dedupe(all)
}

func countUsable(responses []*domain.ModelResponse) int {
	usable := 0
	for _, response := range responses {
		if response != nil && !response.Failed() {
			usable++
		}
	}
	return usable
}
