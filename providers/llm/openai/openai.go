// Package openai implements llm.Provider for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/contentalchemy/alchemy/internal/utils"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/observability"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"

	chatCompletionsEndpoint = "/chat/completions"
)

// OpenAIProvider implements [llm.Provider] for OpenAI's Chat Completions API.
// Use [New] to construct a ready-to-use instance.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.Provider = (*OpenAIProvider)(nil)

// New returns an [OpenAIProvider] initialized from environment variables.
// It reads OPENAI_API_KEY for authentication, OPENAI_API_BASE_URL for the
// endpoint base, and OPENAI_MODEL for the model (defaulting to gpt-4o).
func New() *OpenAIProvider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &OpenAIProvider{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// Name implements [llm.Provider].
func (p *OpenAIProvider) Name() string { return "OpenAI" }

// Enabled reports whether an API key is configured.
func (p *OpenAIProvider) Enabled() bool { return p.apiKey != "" }

// WithAPIKey overrides the value read from OPENAI_API_KEY.
func (p *OpenAIProvider) WithAPIKey(apiKey string) llm.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL. Use this when targeting a proxy or
// local testing endpoint.
func (p *OpenAIProvider) WithBaseURL(baseURL string) llm.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) llm.Provider {
	p.client = httpClient
	return p
}

// WithModel overrides the model configured via OPENAI_MODEL.
func (p *OpenAIProvider) WithModel(model string) *OpenAIProvider {
	p.model = model
	return p
}

// chatMessage is one entry of the Chat Completions messages array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the Chat Completions wire format.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate implements [llm.Provider] by sending a synchronous request to the
// Chat Completions endpoint. A missing API key and backend-signaled failures
// (auth, rate limit, 5xx) are returned as structured results; transport and
// decode faults are returned as errors.
func (p *OpenAIProvider) Generate(ctx context.Context, request llm.Request) (*llm.Result, error) {
	if p.apiKey == "" {
		return llm.Failure(llm.ErrKindAPIKeyMissing, "OPENAI_API_KEY not configured"), nil
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Trace(ctx, "OpenAI provider preparing request",
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, p.model),
		)
	}

	messages := make([]chatMessage, 0, 2)
	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: request.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: request.Prompt})

	payload := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, payload)
	if err != nil {
		if failure, isBackend := llm.BackendFailure(err); isBackend {
			return failure, nil
		}
		return nil, err
	}

	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI API")
	}

	result := &llm.Result{
		Success: true,
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
	}
	if result.Model == "" {
		result.Model = p.model
	}
	if resp.Usage != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return result, nil
}
