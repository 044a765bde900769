package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/image/dalle"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/observability"
)

// LinkedInAgent writes LinkedIn posts and, when an image client is wired,
// attaches a generated visual. Image generation is best-effort: its failure
// is recorded on the result without failing the post.
type LinkedInAgent struct {
	generator Generator
	images    ImageClient
}

// NewLinkedInAgent builds a LinkedIn agent. images may be nil; posts are then
// produced without visuals.
func NewLinkedInAgent(generator Generator, images ImageClient) *LinkedInAgent {
	return &LinkedInAgent{generator: generator, images: images}
}

const linkedinSystemPrompt = `You are a LinkedIn content expert. Write an engaging professional post.
Open with a hook, use short paragraphs and line breaks for readability, end with a question or call to action, and include 3-5 relevant hashtags on the final line.
Keep the post under 3000 characters.`

// maxHashtags caps how many hashtags are kept on a post.
const maxHashtags = 10

var hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)

// Write generates a LinkedIn post for the given requirements. When an image
// client is available a matching visual is generated in a second phase.
func (a *LinkedInAgent) Write(ctx context.Context, requirements content.Requirements, research *content.ResearchResult) (*content.LinkedInResult, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write a LinkedIn post about: %s\n", requirements.Topic)
	fmt.Fprintf(&prompt, "Tone: %s\nTarget audience: %s\n", requirements.Tone, requirements.TargetAudience)
	if len(requirements.Keywords) > 0 {
		fmt.Fprintf(&prompt, "Themes to touch on: %s\n", strings.Join(requirements.Keywords, ", "))
	}
	if research != nil && research.Success {
		fmt.Fprintf(&prompt, "\nGround the post in this research:\n%s\n", research.Summary)
	}

	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: linkedinSystemPrompt,
		Prompt:       prompt.String(),
		Temperature:  0.7,
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, fmt.Errorf("generating LinkedIn post: %w", err)
	}
	if !generated.Success {
		return &content.LinkedInResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	post := strings.TrimSpace(generated.Content)
	hashtags := extractHashtags(post)
	if len(hashtags) == 0 {
		hashtags = fallbackHashtags(requirements)
	}

	result := &content.LinkedInResult{
		Success:         true,
		Content:         post,
		Hashtags:        hashtags,
		EngagementScore: scoreEngagement(post, hashtags),
		CharacterCount:  len(post),
		Provider:        generated.Provider,
	}

	a.attachImage(ctx, result, requirements)
	return result, nil
}

// attachImage generates a visual for the post. Every failure path records
// ImageError and leaves the post intact.
func (a *LinkedInAgent) attachImage(ctx context.Context, result *content.LinkedInResult, requirements content.Requirements) {
	if a.images == nil || !a.images.Enabled() {
		return
	}

	imagePrompt := fmt.Sprintf(
		"Professional illustration for a LinkedIn post about %s. Clean, modern, business-appropriate style. No text in the image.",
		requirements.Topic,
	)
	result.ImagePrompt = imagePrompt

	generated, err := a.images.Generate(ctx, dalle.GenerateInput{
		Prompt:  imagePrompt,
		Size:    "1792x1024",
		Quality: "standard",
	})
	if err != nil {
		result.ImageError = err.Error()
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Warn(ctx, "Post image generation failed, keeping text-only post",
				observability.Error(err),
			)
		}
		return
	}
	if !generated.Success {
		result.ImageError = generated.ErrorMessage
		return
	}
	result.ImageURL = generated.ImageURL
}

const linkedinRefineSystemPrompt = `You are a LinkedIn content editor. Revise the post according to the feedback while keeping it under 3000 characters, with hashtags on the final line. Return the full revised post.`

// Refine rewrites an existing post according to feedback. The existing image
// attachment is carried over unchanged.
func (a *LinkedInAgent) Refine(ctx context.Context, post *content.LinkedInResult, feedback string) (*content.LinkedInResult, error) {
	if post == nil || post.Content == "" {
		return nil, fmt.Errorf("no LinkedIn post to refine")
	}

	prompt := fmt.Sprintf("Feedback:\n%s\n\nPost to revise:\n%s", feedback, post.Content)
	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: linkedinRefineSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.5,
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, fmt.Errorf("refining LinkedIn post: %w", err)
	}
	if !generated.Success {
		return &content.LinkedInResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	revised := strings.TrimSpace(generated.Content)
	hashtags := extractHashtags(revised)
	if len(hashtags) == 0 {
		hashtags = post.Hashtags
	}

	return &content.LinkedInResult{
		Success:         true,
		Content:         revised,
		Hashtags:        hashtags,
		EngagementScore: scoreEngagement(revised, hashtags),
		CharacterCount:  len(revised),
		ImageURL:        post.ImageURL,
		ImagePrompt:     post.ImagePrompt,
		ImageError:      post.ImageError,
		Provider:        generated.Provider,
	}, nil
}

// extractHashtags collects unique hashtags from the post, preserving first
// occurrence order, capped at maxHashtags.
func extractHashtags(post string) []string {
	seen := make(map[string]bool)
	var hashtags []string
	for _, tag := range hashtagPattern.FindAllString(post, -1) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		hashtags = append(hashtags, tag)
		if len(hashtags) == maxHashtags {
			break
		}
	}
	return hashtags
}

// fallbackHashtags derives tags from the requirements when the model omitted
// them.
func fallbackHashtags(requirements content.Requirements) []string {
	var hashtags []string
	for _, keyword := range requirements.Keywords {
		cleaned := strings.ReplaceAll(strings.TrimSpace(keyword), " ", "")
		if cleaned != "" {
			hashtags = append(hashtags, "#"+cleaned)
		}
		if len(hashtags) == 3 {
			break
		}
	}
	if len(hashtags) == 0 {
		hashtags = []string{"#ProfessionalDevelopment", "#Industry", "#Growth"}
	}
	return hashtags
}

// scoreEngagement estimates post engagement on a 0-10 scale from structural
// signals: a question, a hook, readable length, line breaks, and hashtags.
func scoreEngagement(post string, hashtags []string) float64 {
	score := 5.0
	if strings.Contains(post, "?") {
		score += 1.5
	}
	if len(post) >= 500 && len(post) <= 1500 {
		score += 1.0
	}
	if strings.Count(post, "\n\n") >= 2 {
		score += 1.0
	}
	if count := len(hashtags); count >= 3 && count <= 5 {
		score += 1.0
	}
	if len(post) > 2800 {
		score -= 1.0
	}
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}
