// Package agents implements the content production agents: research, blog,
// LinkedIn, image, and strategy. Each agent talks to the model through the
// small Generator interface so the fallback chain (or a test double) can be
// plugged in, and returns a typed result whose Success flag reflects whether
// usable output was produced. Agents degrade instead of erroring wherever the
// failure is one the backend signaled; Go errors are reserved for transport
// and programming faults.
package agents

import (
	"context"

	"github.com/contentalchemy/alchemy/providers/image/dalle"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/search/serpapi"
)

// Generator is the text-generation dependency of every agent. It is satisfied
// by *fallback.Orchestrator and by any single llm.Provider.
type Generator interface {
	Generate(ctx context.Context, request llm.Request) (*llm.Result, error)
}

// SearchProvider supplies web search to the research agent. Satisfied by
// *serpapi.Client.
type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int) (*serpapi.Response, error)
	Enabled() bool
}

// PageFetcher supplies full-page retrieval for deep research. Satisfied by
// *webfetch.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ImageClient supplies image generation. Satisfied by *dalle.Client.
type ImageClient interface {
	Generate(ctx context.Context, input dalle.GenerateInput) (*dalle.GenerateResult, error)
	Enabled() bool
}
