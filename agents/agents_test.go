package agents

import (
	"context"

	"github.com/contentalchemy/alchemy/providers/image/dalle"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/search/serpapi"
)

// stubGenerator answers every Generate call through fn, letting each test
// script the model's behavior.
type stubGenerator struct {
	fn func(request llm.Request) (*llm.Result, error)
}

func (s *stubGenerator) Generate(_ context.Context, request llm.Request) (*llm.Result, error) {
	return s.fn(request)
}

func fixedAnswer(text string) *stubGenerator {
	return &stubGenerator{fn: func(llm.Request) (*llm.Result, error) {
		return &llm.Result{Success: true, Content: text, Provider: "Stub"}, nil
	}}
}

func failingGenerator(kind, message string) *stubGenerator {
	return &stubGenerator{fn: func(llm.Request) (*llm.Result, error) {
		return llm.Failure(kind, message), nil
	}}
}

type stubSearch struct {
	enabled  bool
	response *serpapi.Response
	err      error
}

func (s *stubSearch) Enabled() bool { return s.enabled }

func (s *stubSearch) Search(_ context.Context, _ string, _ int) (*serpapi.Response, error) {
	return s.response, s.err
}

type stubFetcher struct {
	page string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.page, s.err
}

type stubImages struct {
	enabled bool
	result  *dalle.GenerateResult
	err     error
	calls   int
}

func (s *stubImages) Enabled() bool { return s.enabled }

func (s *stubImages) Generate(_ context.Context, _ dalle.GenerateInput) (*dalle.GenerateResult, error) {
	s.calls++
	return s.result, s.err
}
