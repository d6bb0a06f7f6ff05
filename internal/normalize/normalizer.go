// Package normalize deduplicates near-identical entity strings into
// canonical forms through an LLM-backed normalization capability.
package normalize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/llm"
	"github.com/kapu/comp-table-go/internal/prompt"
	"github.com/kapu/comp-table-go/internal/service/cache"
	"github.com/kapu/comp-table-go/internal/util"
	"github.com/kapu/comp-table-go/pkg/errors"
)

// Normalizer is a pure function of (raw strings, context) to a
// canonical-name map; it keeps no memory of previous calls beyond the
// optional shared cache.
type Normalizer struct {
	provider llm.ChatProvider
	cache    *cache.Service
	logger   *zap.Logger
}

func NewNormalizer(provider llm.ChatProvider, cacheSvc *cache.Service, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		provider: provider,
		cache:    cacheSvc,
		logger:   logger,
	}
}

// Normalize maps every raw entity to a canonical form. Normalization
// failure is never fatal: any provider error or unparseable payload
// substitutes the identity map and the pipeline proceeds.
func (n *Normalizer) Normalize(ctx context.Context, req domain.NormalizationRequest) *domain.NormalizationResult {
	if len(req.Entities) == 0 {
		return &domain.NormalizationResult{Normalized: map[string]string{}}
	}

	cacheKey := n.cacheKey(req)
	var cached domain.NormalizationResult
	if hit, err := n.cache.Get(ctx, cacheKey, &cached); err == nil && hit && len(cached.Normalized) > 0 {
		n.logger.Debug("Normalization cache hit", zap.String("kind", req.Kind.String()))
		return &cached
	}

	result, err := n.callProvider(ctx, req)
	if err != nil {
		n.logger.Warn("Normalization failed, substituting identity map",
			zap.String("kind", req.Kind.String()),
			zap.Int("entities", len(req.Entities)),
			zap.Error(err),
		)
		return domain.IdentityNormalization(req.Entities)
	}

	// Every input entity must resolve; fill gaps the model left.
	for _, entity := range req.Entities {
		if _, ok := result.Normalized[entity]; !ok {
			result.Normalized[entity] = entity
		}
	}

	_ = n.cache.Set(ctx, cacheKey, result, constants.CacheTTL.NormalizationMap)

	n.logger.Info("Entities normalized",
		zap.String("kind", req.Kind.String()),
		zap.Int("raw", len(req.Entities)),
		zap.Int("canonical", countCanonical(result)),
	)
	return result
}

func (n *Normalizer) callProvider(ctx context.Context, req domain.NormalizationRequest) (*domain.NormalizationResult, error) {
	if n.provider == nil {
		return nil, fmt.Errorf("normalization provider not configured")
	}

	data := prompt.NormalizationPromptData{
		Context:  req.Context,
		Entities: req.Entities,
	}
	var promptText string
	if req.Kind == domain.EntityKindCriteria {
		promptText = prompt.BuildCriteriaNormalizationPrompt(data)
	} else {
		promptText = prompt.BuildCompetitorNormalizationPrompt(data)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.APIConfig.NormalizeTimeout)
	defer cancel()

	text, err := n.provider.Complete(ctx, llm.ChatRequest{
		Prompt:       promptText,
		SystemPrompt: prompt.NormalizationSystemPrompt,
		Temperature:  constants.GenerationConfig.NormalizeTemperature,
		MaxTokens:    constants.GenerationConfig.NormalizeMaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	// The response may be free text wrapping the JSON object.
	var result domain.NormalizationResult
	if err := json.Unmarshal([]byte(util.StripCodeFences(text)), &result); err != nil {
		return nil, errors.New("unparseable normalization payload", errors.CodeNormalization, map[string]any{
			"kind": req.Kind.String(),
		}).WithCause(err)
	}
	if result.Normalized == nil {
		result.Normalized = map[string]string{}
	}
	return &result, nil
}

func (n *Normalizer) cacheKey(req domain.NormalizationRequest) string {
	entities := make([]string, len(req.Entities))
	copy(entities, req.Entities)
	sort.Strings(entities)

	digest := sha256.Sum256([]byte(req.Context + "\x00" + strings.Join(entities, "\x00")))
	return fmt.Sprintf("comptable:norm:%s:%s", req.Kind, hex.EncodeToString(digest[:8]))
}

func countCanonical(result *domain.NormalizationResult) int {
	seen := make(map[string]struct{}, len(result.Normalized))
	for _, canonical := range result.Normalized {
		seen[canonical] = struct{}{}
	}
	return len(seen)
}
