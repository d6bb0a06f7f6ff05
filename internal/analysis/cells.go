package analysis

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/llm"
	"github.com/kapu/comp-table-go/internal/prompt"
	"github.com/kapu/comp-table-go/internal/service/cache"
	"github.com/kapu/comp-table-go/internal/util"
)

var (
	thinkBlockPattern  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	answerLabelPattern = regexp.MustCompile(`(?i)^(Answer:|A:|Response:|Answer only:)\s*`)
)

// CellResolver answers individual (competitor, criterion) questions.
// Every cell is independent and idempotently replaceable; failures are
// always local and surface as error-flagged values, never as errors.
type CellResolver struct {
	provider llm.ChatProvider
	cache    *cache.Service
	logger   *zap.Logger
}

func NewCellResolver(provider llm.ChatProvider, cacheSvc *cache.Service, logger *zap.Logger) *CellResolver {
	return &CellResolver{
		provider: provider,
		cache:    cacheSvc,
		logger:   logger,
	}
}

// Answer resolves one cell to a short phrase. The caller always gets a
// value: provider failure yields the fixed error sentinel with the
// error flag set.
func (cr *CellResolver) Answer(ctx context.Context, competitor, criterion string) *domain.CellAnswer {
	cacheKey := cache.CellKey(competitor, criterion)
	var cached domain.CellAnswer
	if hit, err := cr.cache.Get(ctx, cacheKey, &cached); err == nil && hit && cached.Answer != "" {
		return &cached
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.APIConfig.CellTimeout)
	defer cancel()

	text, err := cr.provider.Complete(callCtx, llm.ChatRequest{
		Prompt:       prompt.BuildCellPrompt(prompt.CellPromptData{Competitor: competitor, Criterion: criterion}),
		SystemPrompt: prompt.CellSystemPrompt,
		Temperature:  constants.GenerationConfig.CellTemperature,
		MaxTokens:    constants.GenerationConfig.CellMaxTokens,
	})
	if err != nil {
		cr.logger.Warn("Cell answer failed",
			zap.String("competitor", competitor),
			zap.String("criterion", criterion),
			zap.Error(err),
		)
		return &domain.CellAnswer{
			Competitor: competitor,
			Criterion:  criterion,
			Answer:     constants.CellConfig.ErrorSentinel,
			Error:      true,
		}
	}

	answer := &domain.CellAnswer{
		Competitor: competitor,
		Criterion:  criterion,
		Answer:     PostProcessAnswer(text),
	}
	_ = cr.cache.Set(ctx, cacheKey, answer, constants.CacheTTL.CellAnswer)
	return answer
}

// Description resolves a short competitor blurb, with the same local
// failure semantics as Answer.
func (cr *CellResolver) Description(ctx context.Context, competitor, target string) *domain.Description {
	cacheKey := cache.DescriptionKey(competitor)
	var cached domain.Description
	if hit, err := cr.cache.Get(ctx, cacheKey, &cached); err == nil && hit && cached.Text != "" {
		return &cached
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.APIConfig.CellTimeout)
	defer cancel()

	text, err := cr.provider.Complete(callCtx, llm.ChatRequest{
		Prompt:      prompt.BuildDescriptionPrompt(prompt.DescriptionPromptData{Competitor: competitor, Context: target}),
		Temperature: constants.GenerationConfig.CellTemperature,
		MaxTokens:   constants.GenerationConfig.FanoutMaxTokens,
	})
	if err != nil {
		cr.logger.Warn("Description failed", zap.String("competitor", competitor), zap.Error(err))
		return &domain.Description{
			Competitor: competitor,
			Text:       constants.CellConfig.ErrorSentinel,
			Error:      true,
		}
	}

	desc := &domain.Description{
		Competitor: competitor,
		Text:       util.FirstLine(thinkBlockPattern.ReplaceAllString(text, "")),
	}
	_ = cr.cache.Set(ctx, cacheKey, desc, constants.CacheTTL.Description)
	return desc
}

type cellJob struct {
	run func()
}

// ResolveAll fills every cell and description of a result. Requests
// are grouped into small fixed-size batches processed sequentially
// with a short pause between batches: backpressure against the
// third-party service, not a correctness requirement. Concurrent cell
// writes are safe because each writes a distinct key; the result's
// mutex-free map is therefore guarded here.
func (cr *CellResolver) ResolveAll(ctx context.Context, result *domain.AnalysisResult) error {
	var (
		jobs []cellJob
		mu   sync.Mutex
	)

	for ci, competitor := range result.Competitors {
		competitor := competitor
		jobs = append(jobs, cellJob{run: func() {
			desc := cr.Description(ctx, competitor.Name, result.Target)
			mu.Lock()
			result.SetDescription(desc)
			mu.Unlock()
		}})
		for ki, criterion := range result.Criteria {
			ci, ki := ci, ki
			competitorName, criterionName := competitor.Name, criterion.Name
			jobs = append(jobs, cellJob{run: func() {
				answer := cr.Answer(ctx, competitorName, criterionName)
				mu.Lock()
				result.SetCell(ci, ki, answer)
				mu.Unlock()
			}})
		}
	}

	batchSize := constants.CellConfig.BatchSize
	for start := 0; start < len(jobs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + batchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		batch := pool.New().WithMaxGoroutines(batchSize)
		for _, job := range jobs[start:end] {
			job := job
			batch.Go(job.run)
		}
		batch.Wait()

		if end < len(jobs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(constants.CellConfig.BatchPause):
			}
		}
	}

	cr.logger.Info("Bulk cell resolution finished",
		zap.String("target", result.Target),
		zap.Int("requests", len(jobs)),
	)
	return nil
}

// PostProcessAnswer reduces raw model text to the short factual form:
// reasoning markup removed, leading label stripped, first line only,
// capped at the word limit.
func PostProcessAnswer(text string) string {
	content := thinkBlockPattern.ReplaceAllString(text, "")
	content = util.FirstLine(content)
	content = answerLabelPattern.ReplaceAllString(content, "")
	content = util.TruncateWords(content, constants.CellConfig.MaxAnswerWords)
	if content == "" {
		return "Unknown"
	}
	return content
}
