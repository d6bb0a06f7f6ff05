package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/analysis"
	"github.com/kapu/comp-table-go/internal/config"
	"github.com/kapu/comp-table-go/internal/llm"
	"github.com/kapu/comp-table-go/internal/normalize"
	"github.com/kapu/comp-table-go/internal/service/cache"
	"github.com/kapu/comp-table-go/internal/service/database"
)

// Container bundles the assembled pipeline services. All heavy-weight
// initialization (cache, database, provider clients) happens in Build
// so the entrypoints stay focused on lifecycle.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *analysis.Pipeline
	Cells    *analysis.CellResolver
	Archive  *database.Archive

	closers []func()
}

// Close releases held resources in reverse acquisition order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Optional attachments first: cache and archive.
	var cacheSvc *cache.Service
	if cfg.RedisEnabled() {
		cacheSvc, err = cache.NewService(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	} else {
		logger.Info("Redis not configured, answer caching disabled")
	}

	var archive *database.Archive
	if cfg.PostgresEnabled() {
		archive, err = database.Open(database.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open analysis archive: %w", err)
		}
		closers = append(closers, func() {
			_ = archive.Close()
		})
	} else {
		logger.Info("Postgres not configured, analysis archive disabled")
	}

	// Fan-out provider set: one OpenRouter provider per model, plus a
	// direct Gemini provider when configured.
	fanout := make([]llm.ChatProvider, 0, len(cfg.OpenRouter.Models)+1)
	for _, model := range cfg.OpenRouter.Models {
		provider := llm.NewOpenRouterProvider(cfg.OpenRouter.APIKey, model, logger)
		if provider == nil {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		fanout = append(fanout, provider)
	}
	if cfg.Gemini.APIKey != "" {
		gemini, gErr := llm.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if gErr != nil {
			logger.Warn("Failed to initialize Gemini fan-out provider (optional)", zap.Error(gErr))
		} else if gemini != nil {
			fanout = append(fanout, gemini)
		}
	}
	logger.Info("Fan-out provider set assembled", zap.Int("models", len(fanout)))

	groq := llm.NewGroqProvider(cfg.Groq.APIKey, cfg.Groq.Model, logger)
	if groq == nil {
		return nil, fmt.Errorf("groq provider requires an API key")
	}
	guardedGroq := llm.NewGuardedProvider(groq, logger)

	normalizer := normalize.NewNormalizer(guardedGroq, cacheSvc, logger)
	pipeline := analysis.NewPipeline(fanout, normalizer, logger)
	cells := analysis.NewCellResolver(guardedGroq, cacheSvc, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
		Cells:    cells,
		Archive:  archive,
		closers:  closers,
	}, nil
}
