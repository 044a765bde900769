package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/llm"
)

// BlogAgent writes long-form blog posts.
type BlogAgent struct {
	generator Generator
}

// NewBlogAgent builds a blog agent over the given generator.
func NewBlogAgent(generator Generator) *BlogAgent {
	return &BlogAgent{generator: generator}
}

// targetWordCounts maps the requirements length label to a word target.
var targetWordCounts = map[string]int{
	"short":  800,
	"medium": 1500,
	"long":   2500,
}

const blogSystemPrompt = `You are an expert blog writer. Write a complete, well-structured blog post in Markdown.
Start with a single H1 title line. Include an introduction, descriptive H2 section headings, and a conclusion.
After the post, on a separate final line, write: META: <a meta description of at most 160 characters>`

// Write generates a blog post for the given requirements, weaving in research
// findings when present. A backend failure is reported in the result.
func (a *BlogAgent) Write(ctx context.Context, requirements content.Requirements, research *content.ResearchResult) (*content.BlogResult, error) {
	wordCount := targetWordCounts[requirements.Length]
	if wordCount == 0 {
		wordCount = targetWordCounts["medium"]
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write a blog post about: %s\n", requirements.Topic)
	fmt.Fprintf(&prompt, "Tone: %s\nTarget audience: %s\nStyle: %s\nTarget length: about %d words\n",
		requirements.Tone, requirements.TargetAudience, requirements.Style, wordCount)
	if len(requirements.Keywords) > 0 {
		fmt.Fprintf(&prompt, "Incorporate these keywords naturally: %s\n", strings.Join(requirements.Keywords, ", "))
	}
	if research != nil && research.Success {
		fmt.Fprintf(&prompt, "\nBase the post on this research:\n%s\n", research.Summary)
		if len(research.KeyPoints) > 0 {
			prompt.WriteString("Key points to cover:\n")
			for _, point := range research.KeyPoints {
				fmt.Fprintf(&prompt, "- %s\n", point)
			}
		}
	}

	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: blogSystemPrompt,
		Prompt:       prompt.String(),
		Temperature:  0.7,
		MaxTokens:    4000,
	})
	if err != nil {
		return nil, fmt.Errorf("generating blog post: %w", err)
	}
	if !generated.Success {
		return &content.BlogResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	body, meta := splitMetaLine(generated.Content)
	title := extractTitle(body, requirements.Topic)

	return &content.BlogResult{
		Success:         true,
		Title:           title,
		Content:         body,
		MetaDescription: meta,
		WordCount:       len(strings.Fields(body)),
		Provider:        generated.Provider,
	}, nil
}

const blogRefineSystemPrompt = `You are an expert blog editor. Revise the given blog post according to the feedback while preserving its structure and voice. Return the full revised post in the same format, ending with the META: line.`

// Refine rewrites an existing post according to feedback. The refined result
// replaces the original; a backend failure leaves the caller with the
// original post and a failure result.
func (a *BlogAgent) Refine(ctx context.Context, post *content.BlogResult, feedback string) (*content.BlogResult, error) {
	if post == nil || post.Content == "" {
		return nil, fmt.Errorf("no blog post to refine")
	}

	prompt := fmt.Sprintf("Feedback:\n%s\n\nBlog post to revise:\n%s", feedback, post.Content)
	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: blogRefineSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.5,
		MaxTokens:    4000,
	})
	if err != nil {
		return nil, fmt.Errorf("refining blog post: %w", err)
	}
	if !generated.Success {
		return &content.BlogResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	body, meta := splitMetaLine(generated.Content)
	if meta == "" {
		meta = post.MetaDescription
	}
	return &content.BlogResult{
		Success:         true,
		Title:           extractTitle(body, post.Title),
		Content:         body,
		MetaDescription: meta,
		WordCount:       len(strings.Fields(body)),
		Provider:        generated.Provider,
	}, nil
}

// splitMetaLine separates the trailing "META: ..." line from the post body.
func splitMetaLine(text string) (body, meta string) {
	trimmed := strings.TrimSpace(text)
	lines := strings.Split(trimmed, "\n")
	for i := len(lines) - 1; i >= 0 && i >= len(lines)-3; i-- {
		line := strings.TrimSpace(lines[i])
		if rest, found := strings.CutPrefix(line, "META:"); found {
			meta = strings.TrimSpace(rest)
			body = strings.TrimSpace(strings.Join(lines[:i], "\n"))
			return body, meta
		}
	}
	return trimmed, ""
}

// extractTitle pulls the H1 line out of a Markdown post, falling back to the
// first non-empty line or the provided default.
func extractTitle(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, found := strings.CutPrefix(line, "# "); found {
			return strings.TrimSpace(rest)
		}
		return line
	}
	return fallback
}
