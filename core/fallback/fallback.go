// Package fallback chains llm.Provider adapters so that a backend-signaled
// failure on one backend routes the same request to the next. Transport and
// programming faults are never routed around; they propagate to the caller.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/llm/anthropic"
	"github.com/contentalchemy/alchemy/providers/llm/gemini"
	"github.com/contentalchemy/alchemy/providers/llm/openai"
	"github.com/contentalchemy/alchemy/providers/observability"
)

// ErrNoProviders is returned by New when no supplied adapter is enabled.
var ErrNoProviders = errors.New("fallback: no enabled providers")

// Orchestrator tries a fixed chain of providers in order until one succeeds.
type Orchestrator struct {
	providers []llm.Provider
}

// New builds an orchestrator from the primary provider followed by fallbacks,
// keeping only adapters that report Enabled. It returns ErrNoProviders if the
// resulting chain is empty.
func New(primary llm.Provider, fallbacks ...llm.Provider) (*Orchestrator, error) {
	chain := make([]llm.Provider, 0, 1+len(fallbacks))
	for _, provider := range append([]llm.Provider{primary}, fallbacks...) {
		if provider != nil && provider.Enabled() {
			chain = append(chain, provider)
		}
	}
	if len(chain) == 0 {
		return nil, ErrNoProviders
	}
	return &Orchestrator{providers: chain}, nil
}

// NewFromEnv builds the standard OpenAI → Claude → Gemini chain from
// environment configuration. Setting ALCHEMY_PRIMARY_PROVIDER=anthropic
// promotes Claude to the front of the chain.
func NewFromEnv() (*Orchestrator, error) {
	openAI := openai.New()
	claude := anthropic.New()
	googleAI := gemini.New()

	if strings.EqualFold(os.Getenv("ALCHEMY_PRIMARY_PROVIDER"), "anthropic") {
		return New(claude, openAI, googleAI)
	}
	return New(openAI, claude, googleAI)
}

// Providers returns the names of the enabled chain, in try order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.providers))
	for i, provider := range o.providers {
		names[i] = provider.Name()
	}
	return names
}

// Generate runs the request through the chain. The first successful result is
// tagged with its provider's name and returned. A backend-signaled failure
// moves on to the next provider; a Go error aborts immediately. When every
// provider fails, Generate returns a structured all-providers-failed result
// and a nil error, so callers can degrade instead of crash.
func (o *Orchestrator) Generate(ctx context.Context, request llm.Request) (*llm.Result, error) {
	observer := observability.ObserverFromContext(ctx)

	var lastFailure *llm.Result
	for _, provider := range o.providers {
		result, err := provider.Generate(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
		}

		if result.Success {
			result.Provider = provider.Name()
			return result, nil
		}

		if observer != nil {
			observer.Warn(ctx, "Provider failed, trying next in chain",
				observability.String(observability.AttrLLMProvider, provider.Name()),
				observability.String("failure_kind", result.ErrorKind),
				observability.String("failure_message", result.ErrorMessage),
			)
		}
		lastFailure = result
	}

	message := "all providers failed"
	if lastFailure != nil && lastFailure.ErrorMessage != "" {
		message = fmt.Sprintf("all providers failed, last: %s", lastFailure.ErrorMessage)
	}
	return llm.Failure(llm.ErrKindAllProvidersFailed, message), nil
}
