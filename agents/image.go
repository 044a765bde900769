package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/image/dalle"
	"github.com/contentalchemy/alchemy/providers/llm"
)

// ImageAgent produces standalone images: it crafts a detailed prompt with
// the model, then renders it through the image client.
type ImageAgent struct {
	generator Generator
	images    ImageClient
}

// NewImageAgent builds an image agent.
func NewImageAgent(generator Generator, images ImageClient) *ImageAgent {
	return &ImageAgent{generator: generator, images: images}
}

const promptCraftSystemPrompt = `You are a visual prompt engineer. Turn the user's request into one detailed image generation prompt: subject, composition, lighting, color palette, and style. Respond with the prompt text only, no preamble.`

// Generate creates an image for the request. Prompt crafting is best-effort:
// when the model is unavailable a template prompt is used instead.
func (a *ImageAgent) Generate(ctx context.Context, requirements content.Requirements) (*content.ImageResult, error) {
	if a.images == nil || !a.images.Enabled() {
		return &content.ImageResult{
			Success: false,
			Error:   "image client not configured",
		}, nil
	}

	prompt := a.craftPrompt(ctx, requirements)

	generated, err := a.images.Generate(ctx, dalle.GenerateInput{
		Prompt:  prompt,
		Size:    "1024x1024",
		Quality: "standard",
	})
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}
	if !generated.Success {
		return &content.ImageResult{
			Success: false,
			Prompt:  prompt,
			Error:   generated.ErrorMessage,
		}, nil
	}

	return &content.ImageResult{
		Success:       true,
		ImageURL:      generated.ImageURL,
		Prompt:        prompt,
		RevisedPrompt: generated.RevisedPrompt,
		Model:         generated.Model,
	}, nil
}

// craftPrompt asks the model for a detailed rendering prompt, falling back to
// a template when the model cannot help.
func (a *ImageAgent) craftPrompt(ctx context.Context, requirements content.Requirements) string {
	template := fmt.Sprintf(
		"A high-quality %s illustration of %s. Detailed, visually striking, professional composition.",
		requirements.Style, requirements.Topic,
	)
	if a.generator == nil {
		return template
	}

	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: promptCraftSystemPrompt,
		Prompt:       fmt.Sprintf("Image request: %s\nStyle: %s\nAudience: %s", requirements.Topic, requirements.Style, requirements.TargetAudience),
		Temperature:  0.8,
		MaxTokens:    300,
	})
	if err != nil || !generated.Success {
		return template
	}

	crafted := strings.TrimSpace(generated.Content)
	if crafted == "" {
		return template
	}
	return crafted
}
