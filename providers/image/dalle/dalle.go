// Package dalle generates images via the OpenAI Images API (DALL-E 3).
package dalle

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/contentalchemy/alchemy/internal/utils"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "dall-e-3"

	generationsEndpoint = "/images/generations"

	// MaxPromptLength is the hard cap the Images API enforces on prompts.
	MaxPromptLength = 4000
)

// Supported sizes and qualities for DALL-E 3. Anything else is clamped to
// the first entry before the request is sent.
var (
	supportedSizes     = []string{"1024x1024", "1792x1024", "1024x1792"}
	supportedQualities = []string{"standard", "hd"}
)

// Client calls the OpenAI image generation endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New returns a Client configured from the OPENAI_API_KEY environment
// variable. The Images API shares credentials with the text endpoints.
func New() *Client {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   defaultModel,
		client:  &http.Client{},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// WithAPIKey overrides the value read from OPENAI_API_KEY.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL overrides the API base URL. Use this for testing.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHttpClient replaces the default [http.Client].
func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

// GenerateInput holds the parameters of one image generation call.
type GenerateInput struct {
	Prompt  string `json:"prompt"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

// GenerateResult is the structured outcome of an image generation call.
// Success=false carries a backend-signaled failure; transport faults surface
// as Go errors from [Client.Generate].
type GenerateResult struct {
	Success       bool   `json:"success"`
	ImageURL      string `json:"image_url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Model         string `json:"model,omitempty"`
	ErrorKind     string `json:"error,omitempty"`
	ErrorMessage  string `json:"message,omitempty"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// Generate creates a single image from input.Prompt. Size and quality values
// outside the supported set are clamped, and the prompt is truncated to
// [MaxPromptLength] characters.
func (c *Client) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if input.Prompt == "" {
		return nil, fmt.Errorf("image prompt cannot be empty")
	}
	if c.apiKey == "" {
		return &GenerateResult{
			Success:      false,
			ErrorKind:    "api_key_missing",
			ErrorMessage: "OPENAI_API_KEY not configured",
		}, nil
	}

	payload := imageRequest{
		Model:   c.model,
		Prompt:  utils.TruncateString(input.Prompt, MaxPromptLength),
		N:       1,
		Size:    clamp(input.Size, supportedSizes),
		Quality: clamp(input.Quality, supportedQualities),
		Style:   input.Style,
	}

	_, resp, err := utils.DoPostSync[imageResponse](ctx, c.client, c.baseURL+generationsEndpoint, c.apiKey, payload)
	if err != nil {
		if statusErr, isStatus := utils.AsHTTPStatusError(err); isStatus {
			switch {
			case statusErr.StatusCode == http.StatusTooManyRequests:
				return &GenerateResult{Success: false, ErrorKind: "rate_limit", ErrorMessage: statusErr.Error()}, nil
			case statusErr.StatusCode == http.StatusBadRequest:
				// Content-policy rejections come back as 400s.
				return &GenerateResult{Success: false, ErrorKind: "rejected", ErrorMessage: statusErr.Error()}, nil
			case statusErr.StatusCode >= 500:
				return &GenerateResult{Success: false, ErrorKind: "api_error", ErrorMessage: statusErr.Error()}, nil
			}
		}
		return nil, err
	}

	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty response from Images API")
	}

	return &GenerateResult{
		Success:       true,
		ImageURL:      resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Model:         c.model,
	}, nil
}

func clamp(value string, allowed []string) string {
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	return allowed[0]
}
