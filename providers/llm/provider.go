// Package llm defines the uniform text-generation contract that every backend
// adapter implements. Failures are split into two tiers: a Go error return is
// a transport or programming fault and propagates to the caller, while a
// Result with Success=false is a failure signaled by the backend itself
// (missing credential, rate limit, overload) and is safe to route around.
package llm

import (
	"context"
	"net/http"
)

// Provider is the interface every text-generation backend adapter satisfies.
type Provider interface {
	// Name returns the backend identity used to tag successful results.
	Name() string

	// Enabled reports whether the adapter has the credentials it needs.
	// Disabled adapters are filtered out of the fallback chain at
	// construction time.
	Enabled() bool

	// Generate sends a single prompt to the backend and returns the result.
	// A nil error with Result.Success=false means the backend signaled a
	// failure; a non-nil error means the call itself broke (network fault,
	// malformed response) and must not be masked by fallback.
	Generate(ctx context.Context, request Request) (*Result, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
