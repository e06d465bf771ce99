package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"medbill/internal/config"
	"medbill/internal/domain"
	"medbill/internal/llm"
	"medbill/internal/port"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1/"

	defaultGroqModel   = "llama-3.1-8b-instant"
	defaultOpenAIModel = "gpt-4o-mini"
)

// Client implements port.ChatClient against any OpenAI-compatible Chat
// Completions API.
type Client struct {
	client      openaisdk.Client
	provider    string
	model       string
	temperature float64
}

// NewGroqClient creates a Client for Groq, the default provider.
func NewGroqClient(cfg *config.LLMConfig) (port.ChatClient, error) {
	return newClient(cfg, "groq", GroqBaseURL, defaultGroqModel)
}

// NewOpenAIClient creates a Client for the OpenAI API.
func NewOpenAIClient(cfg *config.LLMConfig) (port.ChatClient, error) {
	return newClient(cfg, "openai", "", defaultOpenAIModel)
}

func newClient(cfg *config.LLMConfig, provider, baseURL, defaultModel string) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is required", provider)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		// calls are attempted exactly once
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:      openaisdk.NewClient(opts...),
		provider:    provider,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// CompleteJSON sends one JSON-mode chat completion. An empty system prompt
// sends the user message alone.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (*port.ChatCompletion, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openaisdk.SystemMessage(system))
	}
	messages = append(messages, openaisdk.UserMessage(user))

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(c.temperature),
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
			retryAfter := 0
			if apiErr.Response != nil {
				retryAfter = llm.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
			}
			return nil, llm.NewRateLimitError(c.provider, err, retryAfter)
		}
		return nil, fmt.Errorf("calling %s API: %w", c.provider, err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &port.ChatCompletion{
		Content: content,
		Usage: domain.TokenUsage{
			Total:  resp.Usage.TotalTokens,
			Input:  resp.Usage.PromptTokens,
			Output: resp.Usage.CompletionTokens,
		},
		ModelUsed: resp.Model,
	}, nil
}
