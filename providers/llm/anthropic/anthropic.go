// Package anthropic implements llm.Provider for the Anthropic Messages API.
package anthropic

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
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-sonnet-4-5"

	messagesEndpoint = "/messages"
	apiVersion       = "2023-06-01"

	// The Messages API rejects requests without an explicit token cap.
	defaultMaxTokens = 4096
)

// AnthropicProvider implements [llm.Provider] for Anthropic's Messages API.
// Use [New] to construct a ready-to-use instance.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.Provider = (*AnthropicProvider)(nil)

// New returns an [AnthropicProvider] initialized from environment variables.
// It reads ANTHROPIC_API_KEY for authentication, ANTHROPIC_API_BASE_URL for
// the endpoint base, and ANTHROPIC_MODEL for the model.
func New() *AnthropicProvider {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &AnthropicProvider{
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// Name implements [llm.Provider].
func (p *AnthropicProvider) Name() string { return "Claude" }

// Enabled reports whether an API key is configured.
func (p *AnthropicProvider) Enabled() bool { return p.apiKey != "" }

// WithAPIKey overrides the value read from ANTHROPIC_API_KEY.
func (p *AnthropicProvider) WithAPIKey(apiKey string) llm.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL.
func (p *AnthropicProvider) WithBaseURL(baseURL string) llm.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls.
func (p *AnthropicProvider) WithHttpClient(httpClient *http.Client) llm.Provider {
	p.client = httpClient
	return p
}

// WithModel overrides the model configured via ANTHROPIC_MODEL.
func (p *AnthropicProvider) WithModel(model string) *AnthropicProvider {
	p.model = model
	return p
}

// buildHeaders returns the auth headers the Messages API requires. Anthropic
// uses x-api-key rather than a Bearer token.
func (p *AnthropicProvider) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: p.apiKey},
		{Key: "anthropic-version", Value: apiVersion},
	}
}

type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string         `json:"model"`
	System      string         `json:"system,omitempty"`
	Messages    []messageParam `json:"messages"`
	Temperature float32        `json:"temperature,omitempty"`
	MaxTokens   int            `json:"max_tokens"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate implements [llm.Provider] by sending a synchronous request to the
// Messages endpoint. A missing API key and backend-signaled failures are
// returned as structured results; transport and decode faults as errors.
func (p *AnthropicProvider) Generate(ctx context.Context, request llm.Request) (*llm.Result, error) {
	if p.apiKey == "" {
		return llm.Failure(llm.ErrKindAPIKeyMissing, "ANTHROPIC_API_KEY not configured"), nil
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Trace(ctx, "Anthropic provider preparing request",
			observability.String(observability.AttrLLMProvider, "anthropic"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, p.model),
		)
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	payload := messagesRequest{
		Model:       p.model,
		System:      request.SystemPrompt,
		Messages:    []messageParam{{Role: "user", Content: request.Prompt}},
		Temperature: request.Temperature,
		MaxTokens:   maxTokens,
	}

	_, resp, err := utils.DoPostSync[messagesResponse](ctx, p.client, p.baseURL+messagesEndpoint, "", payload, p.buildHeaders()...)
	if err != nil {
		if failure, isBackend := llm.BackendFailure(err); isBackend {
			return failure, nil
		}
		return nil, err
	}

	if resp == nil || len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from Anthropic API")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	result := &llm.Result{
		Success: true,
		Content: text,
		Model:   resp.Model,
	}
	if result.Model == "" {
		result.Model = p.model
	}
	if resp.Usage != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}

	return result, nil
}
