package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/llm"
)

const samplePost = `# Why Go Generics Matter

Generics landed in Go 1.18 and changed how libraries are written.

## The type parameter model

Constraints describe what a type can do.

## Conclusion

Use them where they remove duplication.

META: A practical look at Go generics and when to reach for them.`

func TestBlogWriteParsesTitleAndMeta(t *testing.T) {
	agent := NewBlogAgent(fixedAnswer(samplePost))

	got, err := agent.Write(context.Background(), content.DefaultRequirements("Go generics"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !got.Success {
		t.Fatalf("Write() result = %+v, want success", got)
	}
	if got.Title != "Why Go Generics Matter" {
		t.Errorf("Title = %q", got.Title)
	}
	if !strings.HasPrefix(got.MetaDescription, "A practical look") {
		t.Errorf("MetaDescription = %q", got.MetaDescription)
	}
	if strings.Contains(got.Content, "META:") {
		t.Error("Content still contains the META line")
	}
	if got.WordCount == 0 {
		t.Error("WordCount = 0")
	}
	if got.Provider != "Stub" {
		t.Errorf("Provider = %q, want Stub", got.Provider)
	}
}

func TestBlogWriteBackendFailure(t *testing.T) {
	agent := NewBlogAgent(failingGenerator(llm.ErrKindAllProvidersFailed, "everything is down"))

	got, err := agent.Write(context.Background(), content.DefaultRequirements("topic"), nil)
	if err != nil {
		t.Fatalf("Write() error = %v, backend failure must not be a Go error", err)
	}
	if got.Success {
		t.Fatal("Success = true, want false")
	}
	if got.Error != "everything is down" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestBlogWriteIncludesResearch(t *testing.T) {
	var sawResearch bool
	agent := NewBlogAgent(&stubGenerator{fn: func(request llm.Request) (*llm.Result, error) {
		sawResearch = strings.Contains(request.Prompt, "key finding about generics")
		return &llm.Result{Success: true, Content: samplePost}, nil
	}})

	research := &content.ResearchResult{
		Success:   true,
		Summary:   "key finding about generics",
		KeyPoints: []string{"constraints", "type inference"},
	}
	if _, err := agent.Write(context.Background(), content.DefaultRequirements("Go generics"), research); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !sawResearch {
		t.Error("research summary was not included in the prompt")
	}
}

func TestBlogRefine(t *testing.T) {
	agent := NewBlogAgent(fixedAnswer("# Revised Title\n\nTighter body.\n\nMETA: revised meta"))

	original := &content.BlogResult{
		Success:         true,
		Title:           "Old Title",
		Content:         "# Old Title\n\nOld body.",
		MetaDescription: "old meta",
	}
	got, err := agent.Refine(context.Background(), original, "make it tighter")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if got.Title != "Revised Title" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.MetaDescription != "revised meta" {
		t.Errorf("MetaDescription = %q", got.MetaDescription)
	}
}

func TestBlogRefineRequiresContent(t *testing.T) {
	agent := NewBlogAgent(fixedAnswer("irrelevant"))
	if _, err := agent.Refine(context.Background(), nil, "feedback"); err == nil {
		t.Error("Refine(nil) error = nil, want error")
	}
	if _, err := agent.Refine(context.Background(), &content.BlogResult{}, "feedback"); err == nil {
		t.Error("Refine(empty) error = nil, want error")
	}
}

func TestSplitMetaLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantMeta string
	}{
		{
			name:     "meta on last line",
			input:    "body text\n\nMETA: the description",
			wantBody: "body text",
			wantMeta: "the description",
		},
		{
			name:     "no meta line",
			input:    "just a body",
			wantBody: "just a body",
			wantMeta: "",
		},
		{
			name:     "meta too far from the end is ignored",
			input:    "META: early\nline\nline\nline\nline",
			wantBody: "META: early\nline\nline\nline\nline",
			wantMeta: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, meta := splitMetaLine(tt.input)
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if meta != tt.wantMeta {
				t.Errorf("meta = %q, want %q", meta, tt.wantMeta)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fallback string
		want     string
	}{
		{name: "h1 line", body: "# The Title\n\nBody", fallback: "x", want: "The Title"},
		{name: "first non-empty line", body: "\nPlain opener\nmore", fallback: "x", want: "Plain opener"},
		{name: "empty body uses fallback", body: "   \n  ", fallback: "Fallback", want: "Fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.body, tt.fallback); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
