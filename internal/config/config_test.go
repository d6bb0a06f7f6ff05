package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")
	t.Setenv("GROQ_API_KEY", "groq-test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENROUTER_MODELS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	if len(cfg.OpenRouter.Models) != len(DefaultFanoutModels) {
		t.Fatalf("expected default fan-out models, got %v", cfg.OpenRouter.Models)
	}
	if cfg.Groq.Model != "meta-llama/llama-4-scout-17b-16e-instruct" {
		t.Fatalf("unexpected default normalization model: %s", cfg.Groq.Model)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default server addr: %s", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.Logging.Level)
	}
	if cfg.RedisEnabled() || cfg.PostgresEnabled() {
		t.Fatalf("optional services must stay off without configuration")
	}
}

func TestLoadParsesModelList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENROUTER_MODELS", " model/a , model/b ,, model/c ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	if len(cfg.OpenRouter.Models) != 3 {
		t.Fatalf("expected 3 models, got %v", cfg.OpenRouter.Models)
	}
	if cfg.OpenRouter.Models[1] != "model/b" {
		t.Fatalf("expected trimmed model names, got %v", cfg.OpenRouter.Models)
	}
}

func TestValidateRequiresOpenRouterKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "groq-test-key")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation failure without OpenRouter key")
	}
	if !strings.Contains(err.Error(), "OPENROUTER_API_KEY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresGroqKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation failure without Groq key")
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation failure for unknown log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOptionalServicesEnable(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("POSTGRES_HOST", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if !cfg.RedisEnabled() {
		t.Fatalf("expected Redis enabled with addr set")
	}
	if !cfg.PostgresEnabled() {
		t.Fatalf("expected Postgres enabled with host set")
	}
}
