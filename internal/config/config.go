package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kapu/comp-table-go/internal/util"
)

type Config struct {
	OpenRouter OpenRouterConfig
	Groq       GroqConfig
	Gemini     GeminiConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

type OpenRouterConfig struct {
	APIKey string
	Models []string
}

type GroqConfig struct {
	APIKey string
	Model  string
}

// GeminiConfig is optional: when an API key is present, a direct Gemini
// provider joins the fan-out set alongside the OpenRouter models.
type GeminiConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type ServerConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level string
	File  string
}

// DefaultFanoutModels mirrors the crowdsourcing set queried per analysis.
var DefaultFanoutModels = []string{
	"anthropic/claude-sonnet-4",
	"google/gemini-2.5-flash-lite-preview-06-17",
	"openai/gpt-4.1-mini",
	"deepseek/deepseek-chat-v3-0324",
	"qwen/qwen-2.5-7b-instruct",
	"perplexity/sonar",
	"openai/gpt-4o-mini-search-preview",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenRouter: OpenRouterConfig{
			APIKey: getEnv("OPENROUTER_API_KEY", ""),
			Models: parseCommaSeparated(getEnv("OPENROUTER_MODELS", strings.Join(DefaultFanoutModels, ","))),
		},
		Groq: GroqConfig{
			APIKey: getEnv("GROQ_API_KEY", ""),
			Model:  getEnv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "comptable"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "comptable"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if len(c.OpenRouter.Models) == 0 {
		return fmt.Errorf("OPENROUTER_MODELS must list at least one model")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if !util.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of %s", strings.Join(logLevels, ", "))
	}
	return nil
}

var logLevels = []string{"debug", "info", "warn", "error"}

// RedisEnabled reports whether the optional answer cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// PostgresEnabled reports whether the optional analysis archive is configured.
func (c *Config) PostgresEnabled() bool {
	return c.Postgres.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
