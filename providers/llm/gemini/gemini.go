// Package gemini implements llm.Provider for the Google Gemini API.
package gemini

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
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash-exp"
)

// GeminiProvider implements [llm.Provider] for Google's Gemini API.
// Use [New] to construct a ready-to-use instance.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.Provider = (*GeminiProvider)(nil)

// New returns a [GeminiProvider] initialized from environment variables.
// It reads GOOGLE_API_KEY (falling back to GEMINI_API_KEY), GEMINI_API_BASE_URL
// for the endpoint base, and GEMINI_MODEL for the model.
func New() *GeminiProvider {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// Name implements [llm.Provider].
func (p *GeminiProvider) Name() string { return "Gemini" }

// Enabled reports whether an API key is configured.
func (p *GeminiProvider) Enabled() bool { return p.apiKey != "" }

// WithAPIKey overrides the value read from GOOGLE_API_KEY.
func (p *GeminiProvider) WithAPIKey(apiKey string) llm.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL.
func (p *GeminiProvider) WithBaseURL(baseURL string) llm.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient replaces the default [http.Client] used for API calls.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) llm.Provider {
	p.client = httpClient
	return p
}

// WithModel overrides the model configured via GEMINI_MODEL.
func (p *GeminiProvider) WithModel(model string) *GeminiProvider {
	p.model = model
	return p
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateContentRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate implements [llm.Provider] by sending a synchronous request to the
// generateContent endpoint. A missing API key and backend-signaled failures
// are returned as structured results; transport and decode faults as errors.
func (p *GeminiProvider) Generate(ctx context.Context, request llm.Request) (*llm.Result, error) {
	if p.apiKey == "" {
		return llm.Failure(llm.ErrKindAPIKeyMissing, "GOOGLE_API_KEY not configured"), nil
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Trace(ctx, "Gemini provider preparing request",
			observability.String(observability.AttrLLMProvider, "gemini"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, p.model),
		)
	}

	payload := generateContentRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: request.Prompt}}},
		},
	}
	if request.SystemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: request.SystemPrompt}}}
	}
	if request.Temperature != 0 || request.MaxTokens != 0 {
		payload.GenerationConfig = &generationConfig{
			Temperature:     request.Temperature,
			MaxOutputTokens: request.MaxTokens,
		}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	headers := []utils.HeaderOption{{Key: "x-goog-api-key", Value: p.apiKey}}

	_, resp, err := utils.DoPostSync[generateContentResponse](ctx, p.client, url, "", payload, headers...)
	if err != nil {
		if failure, isBackend := llm.BackendFailure(err); isBackend {
			return failure, nil
		}
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	result := &llm.Result{
		Success: true,
		Content: text,
		Model:   p.model,
	}
	if resp.UsageMetadata != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return result, nil
}
