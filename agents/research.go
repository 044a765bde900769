package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/core/parse"
	"github.com/contentalchemy/alchemy/internal/utils"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/observability"
)

// ResearchAgent gathers web sources for a topic and summarizes them with the
// model. Deep mode additionally fetches the top hit's page content.
type ResearchAgent struct {
	generator Generator
	search    SearchProvider
	fetcher   PageFetcher
}

// NewResearchAgent builds a research agent. fetcher may be nil; deep fetching
// is then skipped.
func NewResearchAgent(generator Generator, search SearchProvider, fetcher PageFetcher) *ResearchAgent {
	return &ResearchAgent{generator: generator, search: search, fetcher: fetcher}
}

const researchSystemPrompt = `You are a research analyst. Summarize the provided search results into findings the user can build content from.
Respond with JSON only:
{"summary": "2-3 paragraph synthesis", "key_points": ["point 1", "point 2", "..."]}`

// fetchedPageCap bounds how much page text is forwarded to the model.
const fetchedPageCap = 6000

// Research searches the web for query and asks the model to synthesize the
// hits. Failures are reported in the result, never as an error: a run without
// research still proceeds to generation.
func (a *ResearchAgent) Research(ctx context.Context, query string, numResults int) (*content.ResearchResult, error) {
	observer := observability.ObserverFromContext(ctx)

	if a.search == nil || !a.search.Enabled() {
		return &content.ResearchResult{
			Success: false,
			Query:   query,
			Error:   "search provider not configured",
		}, nil
	}

	searchResponse, err := a.search.Search(ctx, query, numResults)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	if !searchResponse.Success {
		return &content.ResearchResult{Success: false, Query: query, Error: searchResponse.Error}, nil
	}
	if len(searchResponse.Results) == 0 {
		return &content.ResearchResult{Success: false, Query: query, Error: "no search results found"}, nil
	}

	sources := make([]content.Source, 0, len(searchResponse.Results))
	for _, hit := range searchResponse.Results {
		sources = append(sources, content.Source{
			Title:   hit.Title,
			URL:     hit.Link,
			Source:  hit.Source,
			Snippet: hit.Snippet,
		})
	}

	prompt := searchResponse.FormatForPrompt()

	// Deep mode: pull the full text of the top hit when a fetcher is wired.
	if a.fetcher != nil && len(searchResponse.Results) > 0 {
		page, fetchErr := a.fetcher.Fetch(ctx, searchResponse.Results[0].Link)
		if fetchErr != nil {
			if observer != nil {
				observer.Debug(ctx, "Top-hit page fetch failed, continuing with snippets",
					observability.String("url", searchResponse.Results[0].Link),
					observability.Error(fetchErr),
				)
			}
		} else {
			prompt += "\n\nFull content of the top result:\n" + utils.TruncateString(page, fetchedPageCap)
		}
	}

	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: researchSystemPrompt,
		Prompt:       fmt.Sprintf("Research query: %s\n\n%s", query, prompt),
		Temperature:  0.3,
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizing research: %w", err)
	}
	if !generated.Success {
		return &content.ResearchResult{
			Success: false,
			Query:   query,
			Sources: sources,
			Error:   generated.ErrorMessage,
		}, nil
	}

	parsed, parseErr := parse.StringAs[struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}](generated.Content)
	if parseErr != nil || strings.TrimSpace(parsed.Summary) == "" {
		// Model answered in prose; keep it as the summary.
		return &content.ResearchResult{
			Success: true,
			Query:   query,
			Summary: generated.Content,
			Sources: sources,
		}, nil
	}

	return &content.ResearchResult{
		Success:   true,
		Query:     query,
		Summary:   parsed.Summary,
		KeyPoints: parsed.KeyPoints,
		Sources:   sources,
	}, nil
}
