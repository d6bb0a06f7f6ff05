package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/constants"
)

const jsonModeSystemPrompt = "You must respond with valid JSON only. Do not include any text outside the JSON object."

// OpenAICompatProvider wraps one model behind any OpenAI-compatible
// chat completion endpoint. OpenRouter and Groq both speak this
// protocol, so a single implementation covers the fan-out models and
// the normalization/cell model.
type OpenAICompatProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenRouterProvider builds a provider for one OpenRouter model.
func NewOpenRouterProvider(apiKey, model string, logger *zap.Logger) *OpenAICompatProvider {
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(constants.APIConfig.OpenRouterBaseURL),
		option.WithHeader("X-Title", "comp_table"),
	)
	return &OpenAICompatProvider{
		client: &client,
		model:  model,
		logger: logger,
	}
}

// NewGroqProvider builds the fast normalization/cell-answer provider.
func NewGroqProvider(apiKey, model string, logger *zap.Logger) *OpenAICompatProvider {
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(constants.APIConfig.GroqBaseURL),
	)
	return &OpenAICompatProvider{
		client: &client,
		model:  model,
		logger: logger,
	}
}

func (p *OpenAICompatProvider) Name() string {
	return p.model
}

func (p *OpenAICompatProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("chat client not initialized")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.JSONMode && req.SystemPrompt == "" {
		messages = append(messages, openai.SystemMessage(jsonModeSystemPrompt))
	} else if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	p.logger.Debug("Calling chat model",
		zap.String("model", p.model),
		zap.Bool("json_mode", req.JSONMode),
	)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		p.logger.Warn("Chat completion failed", zap.String("model", p.model), zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from %s", p.model)
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("empty response from %s", p.model)
	}

	p.logger.Debug("Chat response received",
		zap.String("model", p.model),
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return text, nil
}
