// Package serpapi provides web search via the SerpAPI Google Search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/contentalchemy/alchemy/internal/utils"
)

const (
	defaultBaseURL = "https://serpapi.com/search"

	// DefaultNumResults is used when the caller does not specify a count.
	DefaultNumResults = 5
	// MaxNumResults caps a single search.
	MaxNumResults = 10
)

// Client calls the SerpAPI search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a Client configured from the SERP_API_KEY environment variable.
func New() *Client {
	return &Client{
		apiKey:  os.Getenv("SERP_API_KEY"),
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// WithAPIKey overrides the value read from SERP_API_KEY.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL overrides the endpoint URL. Use this for testing.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHttpClient replaces the default [http.Client].
func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

// Result is one organic search hit.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet,omitempty"`
	Source   string `json:"source,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Response is the projected outcome of a search. Success=false carries the
// reason in Error and is used for quota and auth failures signaled by the
// backend; transport faults surface as Go errors instead.
type Response struct {
	Success bool     `json:"success"`
	Query   string   `json:"query"`
	Results []Result `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// serpAPIResponse is the slice of the SerpAPI wire format we consume.
type serpAPIResponse struct {
	OrganicResults []Result `json:"organic_results"`
	Error          string   `json:"error,omitempty"`
}

// Search runs a Google search for query and returns up to numResults organic
// hits. A non-positive numResults uses [DefaultNumResults].
func (c *Client) Search(ctx context.Context, query string, numResults int) (*Response, error) {
	if query = strings.TrimSpace(query); query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if c.apiKey == "" {
		return &Response{Success: false, Query: query, Error: "SERP_API_KEY not configured"}, nil
	}

	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	if numResults > MaxNumResults {
		numResults = MaxNumResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("num", fmt.Sprintf("%d", numResults))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling SerpAPI: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Auth and quota rejections are backend-signaled failures.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return &Response{
			Success: false,
			Query:   query,
			Error:   fmt.Sprintf("SerpAPI rejected request: status %d: %s", resp.StatusCode, utils.TruncateString(string(body), utils.DefaultMaxStringLength)),
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, utils.TruncateString(string(body), utils.DefaultMaxStringLength))
	}

	var apiResponse serpAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if apiResponse.Error != "" {
		return &Response{Success: false, Query: query, Error: apiResponse.Error}, nil
	}

	results := apiResponse.OrganicResults
	if len(results) > numResults {
		results = results[:numResults]
	}
	return &Response{Success: true, Query: query, Results: results}, nil
}

// FormatForPrompt renders the results as a numbered list suitable for
// inclusion in a generation prompt.
func (r *Response) FormatForPrompt() string {
	if r == nil || !r.Success || len(r.Results) == 0 {
		return "No search results available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", r.Query)
	for i, result := range r.Results {
		fmt.Fprintf(&b, "\n%d. %s\n   URL: %s\n", i+1, result.Title, result.Link)
		if result.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", utils.TruncateString(result.Snippet, 300))
		}
	}
	return b.String()
}
