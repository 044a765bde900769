package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/search/serpapi"
)

func searchHits() *serpapi.Response {
	return &serpapi.Response{
		Success: true,
		Query:   "edge computing",
		Results: []serpapi.Result{
			{Title: "Edge computing in 2026", Link: "https://example.com/edge", Snippet: "Latency matters.", Source: "example.com"},
			{Title: "CDN vs edge", Link: "https://example.com/cdn", Snippet: "Different tools."},
		},
	}
}

func TestResearchSynthesizesFindings(t *testing.T) {
	generator := fixedAnswer(`{"summary": "Edge computing keeps growing.", "key_points": ["latency", "cost"]}`)
	agent := NewResearchAgent(generator, &stubSearch{enabled: true, response: searchHits()}, nil)

	got, err := agent.Research(context.Background(), "edge computing", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if !got.Success {
		t.Fatalf("Research() result = %+v, want success", got)
	}
	if got.Summary != "Edge computing keeps growing." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if len(got.KeyPoints) != 2 {
		t.Errorf("KeyPoints = %v", got.KeyPoints)
	}
	if len(got.Sources) != 2 {
		t.Fatalf("Sources = %v, want 2 entries", got.Sources)
	}
	if got.Sources[0].URL != "https://example.com/edge" {
		t.Errorf("Sources[0].URL = %q", got.Sources[0].URL)
	}
}

func TestResearchProseAnswerBecomesSummary(t *testing.T) {
	generator := fixedAnswer("Edge computing is moving compute close to users.")
	agent := NewResearchAgent(generator, &stubSearch{enabled: true, response: searchHits()}, nil)

	got, err := agent.Research(context.Background(), "edge computing", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if !got.Success {
		t.Fatalf("result = %+v, want success", got)
	}
	if !strings.Contains(got.Summary, "moving compute") {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestResearchDeepFetchFeedsPrompt(t *testing.T) {
	var sawPage bool
	generator := &stubGenerator{fn: func(request llm.Request) (*llm.Result, error) {
		sawPage = strings.Contains(request.Prompt, "full page body text")
		return &llm.Result{Success: true, Content: `{"summary": "ok"}`}, nil
	}}
	fetcher := &stubFetcher{page: "full page body text"}
	agent := NewResearchAgent(generator, &stubSearch{enabled: true, response: searchHits()}, fetcher)

	if _, err := agent.Research(context.Background(), "edge computing", 5); err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if !sawPage {
		t.Error("fetched page content was not forwarded to the model")
	}
}

func TestResearchFetchFailureIsIgnored(t *testing.T) {
	generator := fixedAnswer(`{"summary": "ok"}`)
	fetcher := &stubFetcher{err: errors.New("timeout")}
	agent := NewResearchAgent(generator, &stubSearch{enabled: true, response: searchHits()}, fetcher)

	got, err := agent.Research(context.Background(), "edge computing", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if !got.Success {
		t.Errorf("result = %+v, want success despite fetch failure", got)
	}
}

func TestResearchWithoutSearchProvider(t *testing.T) {
	agent := NewResearchAgent(fixedAnswer("unused"), &stubSearch{enabled: false}, nil)

	got, err := agent.Research(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false without a search provider")
	}
	if got.Error == "" {
		t.Error("Error is empty")
	}
}

func TestResearchSearchBackendFailure(t *testing.T) {
	search := &stubSearch{enabled: true, response: &serpapi.Response{Success: false, Query: "q", Error: "quota exceeded"}}
	agent := NewResearchAgent(fixedAnswer("unused"), search, nil)

	got, err := agent.Research(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
	if got.Error != "quota exceeded" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestResearchTransportFaultPropagates(t *testing.T) {
	search := &stubSearch{enabled: true, err: errors.New("connection refused")}
	agent := NewResearchAgent(fixedAnswer("unused"), search, nil)

	if _, err := agent.Research(context.Background(), "q", 5); err == nil {
		t.Error("Research() error = nil, want transport fault to propagate")
	}
}

func TestResearchModelFailureKeepsSources(t *testing.T) {
	agent := NewResearchAgent(failingGenerator(llm.ErrKindAllProvidersFailed, "down"), &stubSearch{enabled: true, response: searchHits()}, nil)

	got, err := agent.Research(context.Background(), "edge computing", 5)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
	if len(got.Sources) != 2 {
		t.Errorf("Sources = %v, want the collected hits preserved", got.Sources)
	}
}
