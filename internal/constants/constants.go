package constants

import "time"

var APIConfig = struct {
	OpenRouterBaseURL string
	GroqBaseURL       string
	FanoutTimeout     time.Duration
	NormalizeTimeout  time.Duration
	CellTimeout       time.Duration
}{
	OpenRouterBaseURL: "https://openrouter.ai/api/v1",
	GroqBaseURL:       "https://api.groq.com/openai/v1",
	FanoutTimeout:     45 * time.Second,
	NormalizeTimeout:  30 * time.Second,
	CellTimeout:       15 * time.Second,
}

var GenerationConfig = struct {
	FanoutTemperature    float64
	FanoutMaxTokens      int
	NormalizeTemperature float64
	NormalizeMaxTokens   int
	CellTemperature      float64
	CellMaxTokens        int
}{
	FanoutTemperature:    0.7,
	FanoutMaxTokens:      500,
	NormalizeTemperature: 0.1,
	NormalizeMaxTokens:   1000,
	CellTemperature:      0.1,
	CellMaxTokens:        15,
}

var AggregationConfig = struct {
	TopK int
}{
	TopK: 10,
}

var CellConfig = struct {
	MaxAnswerWords int
	BatchSize      int
	BatchPause     time.Duration
	ErrorSentinel  string
}{
	MaxAnswerWords: 5,
	BatchSize:      3,
	BatchPause:     time.Second,
	ErrorSentinel:  "Error",
}

var CacheTTL = struct {
	CellAnswer       time.Duration
	NormalizationMap time.Duration
	Description      time.Duration
}{
	CellAnswer:       6 * time.Hour,
	NormalizationMap: 30 * time.Minute,
	Description:      6 * time.Hour,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
	RateLimitTimeout: 5 * time.Minute,
}

var ParserConfig = struct {
	MinLineLength int
}{
	MinLineLength: 2,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    5 * time.Minute,
	ShutdownTimeout: 10 * time.Second,
}
