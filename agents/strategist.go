package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/providers/llm"
)

// StrategistAgent produces content strategy briefs and scores produced
// content for quality.
type StrategistAgent struct {
	generator Generator
}

// NewStrategistAgent builds a strategist over the given generator.
func NewStrategistAgent(generator Generator) *StrategistAgent {
	return &StrategistAgent{generator: generator}
}

const strategySystemPrompt = `You are a senior content strategist. Produce a concise content strategy brief in Markdown covering: objectives, target audience, key messages, recommended channels and formats, publishing cadence, and success metrics.`

// CreateBrief writes a strategy brief for the given requirements.
func (a *StrategistAgent) CreateBrief(ctx context.Context, requirements content.Requirements, research *content.ResearchResult) (*content.StrategyResult, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Create a content strategy for: %s\n", requirements.Topic)
	fmt.Fprintf(&prompt, "Target audience: %s\nTone: %s\n", requirements.TargetAudience, requirements.Tone)
	if len(requirements.Keywords) > 0 {
		fmt.Fprintf(&prompt, "Focus themes: %s\n", strings.Join(requirements.Keywords, ", "))
	}
	if research != nil && research.Success {
		fmt.Fprintf(&prompt, "\nMarket context from research:\n%s\n", research.Summary)
	}

	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: strategySystemPrompt,
		Prompt:       prompt.String(),
		Temperature:  0.6,
		MaxTokens:    2500,
	})
	if err != nil {
		return nil, fmt.Errorf("creating strategy brief: %w", err)
	}
	if !generated.Success {
		return &content.StrategyResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	return &content.StrategyResult{
		Success:  true,
		Brief:    strings.TrimSpace(generated.Content),
		Topic:    requirements.Topic,
		Provider: generated.Provider,
	}, nil
}

const strategyRefineSystemPrompt = `You are a senior content strategist. Revise the strategy brief according to the feedback. Return the full revised brief in Markdown.`

// RefineBrief rewrites an existing brief according to feedback.
func (a *StrategistAgent) RefineBrief(ctx context.Context, brief *content.StrategyResult, feedback string) (*content.StrategyResult, error) {
	if brief == nil || brief.Brief == "" {
		return nil, fmt.Errorf("no strategy brief to refine")
	}

	prompt := fmt.Sprintf("Feedback:\n%s\n\nBrief to revise:\n%s", feedback, brief.Brief)
	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: strategyRefineSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.5,
		MaxTokens:    2500,
	})
	if err != nil {
		return nil, fmt.Errorf("refining strategy brief: %w", err)
	}
	if !generated.Success {
		return &content.StrategyResult{Success: false, Error: generated.ErrorMessage}, nil
	}

	return &content.StrategyResult{
		Success:  true,
		Brief:    strings.TrimSpace(generated.Content),
		Topic:    brief.Topic,
		Provider: generated.Provider,
	}, nil
}

const qualitySystemPrompt = `You are a content quality reviewer. Score the given content on a 0-10 scale for each dimension and give one short paragraph of feedback.
Use exactly this format:
clarity: <score>
structure: <score>
seo: <score>
engagement: <score>
brand_voice: <score>
feedback: <one paragraph>`

// defaultQualityScore is used for any dimension the reviewer's answer did
// not contain.
const defaultQualityScore = 7.0

var scorePattern = regexp.MustCompile(`(?im)^\s*(clarity|structure|seo|engagement|brand_voice)\s*[:=]\s*([0-9]+(?:\.[0-9]+)?)`)

// AnalyzeQuality asks the model to score produced content. Scores the answer
// omits default to 7.0 so a sloppy reviewer response still yields a complete
// report. Overall is the mean of the five dimensions.
func (a *StrategistAgent) AnalyzeQuality(ctx context.Context, produced string) (*content.QualityReport, error) {
	generated, err := a.generator.Generate(ctx, llm.Request{
		SystemPrompt: qualitySystemPrompt,
		Prompt:       "Content to review:\n\n" + produced,
		Temperature:  0.2,
		MaxTokens:    800,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing quality: %w", err)
	}

	scores := map[string]float64{
		"clarity":     defaultQualityScore,
		"structure":   defaultQualityScore,
		"seo":         defaultQualityScore,
		"engagement":  defaultQualityScore,
		"brand_voice": defaultQualityScore,
	}
	var feedback string

	if generated.Success {
		for _, match := range scorePattern.FindAllStringSubmatch(generated.Content, -1) {
			value, parseErr := strconv.ParseFloat(match[2], 64)
			if parseErr != nil {
				continue
			}
			if value < 0 {
				value = 0
			}
			if value > 10 {
				value = 10
			}
			scores[strings.ToLower(match[1])] = value
		}
		feedback = extractFeedback(generated.Content)
	}

	report := &content.QualityReport{
		Clarity:    scores["clarity"],
		Structure:  scores["structure"],
		SEO:        scores["seo"],
		Engagement: scores["engagement"],
		BrandVoice: scores["brand_voice"],
		Feedback:   feedback,
	}
	report.Overall = (report.Clarity + report.Structure + report.SEO + report.Engagement + report.BrandVoice) / 5
	return report, nil
}

func extractFeedback(answer string) string {
	const prefix = "feedback:"
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return ""
}
