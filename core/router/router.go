// Package router classifies an incoming query into a content intent, decides
// whether research should run first, and extracts normalized requirements.
// Classification prefers the model; a keyword table serves as the offline
// fallback so routing always yields a usable decision.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/core/parse"
	"github.com/contentalchemy/alchemy/providers/llm"
	"github.com/contentalchemy/alchemy/providers/observability"
)

// Generator is the slice of the fallback orchestrator the router needs.
type Generator interface {
	Generate(ctx context.Context, request llm.Request) (*llm.Result, error)
}

// Classification is the outcome of intent detection.
type Classification struct {
	Intent     content.Intent `json:"intent"`
	Confidence float64        `json:"confidence"`
	Method     string         `json:"method"`
}

// Decision bundles everything the pipeline needs from routing.
type Decision struct {
	Classification Classification
	NeedsResearch  bool
	Requirements   content.Requirements
}

// Router turns raw queries into routing decisions.
type Router struct {
	generator Generator
}

// New creates a Router backed by the given generator. A nil generator is
// allowed; the router then classifies by keywords only.
func New(generator Generator) *Router {
	return &Router{generator: generator}
}

// intentKeywords maps each intent to the phrases that signal it. Order of
// iteration is fixed so ties resolve deterministically.
var intentOrder = []content.Intent{
	content.IntentBlog,
	content.IntentLinkedIn,
	content.IntentResearch,
	content.IntentImage,
	content.IntentStrategy,
}

var intentKeywords = map[content.Intent][]string{
	content.IntentBlog:     {"blog", "article", "post about", "write about", "long-form"},
	content.IntentLinkedIn: {"linkedin", "social media", "professional post", "social post"},
	content.IntentResearch: {"research", "find out", "investigate", "analyze", "study"},
	content.IntentImage:    {"image", "picture", "visual", "illustration", "graphic", "photo"},
	content.IntentStrategy: {"strategy", "plan", "campaign", "content calendar", "roadmap"},
}

// researchSignals are phrases that justify a research pass before generation.
var researchSignals = []string{
	"research", "find", "investigate", "learn about", "information about",
	"facts about", "statistics", "data", "latest", "current", "trends",
}

const classifySystemPrompt = `You are an intent classifier for a content production system.
Classify the user's request into exactly one of these labels:
blog, linkedin, research, image, strategy.
Respond with JSON only: {"intent": "<label>", "confidence": <0.0-1.0>}`

// ClassifyIntent determines the intent for query. An explicit selected_intent
// in runContext wins outright. Otherwise the model is asked for a closed-label
// classification; when the model is unavailable or answers outside the label
// set, the keyword table decides, defaulting to blog.
func (r *Router) ClassifyIntent(ctx context.Context, query string, runContext map[string]any) Classification {
	if runContext != nil {
		if selected, ok := runContext["selected_intent"].(string); ok {
			intent := content.Intent(strings.ToLower(strings.TrimSpace(selected)))
			if intent.Valid() {
				return Classification{Intent: intent, Confidence: 1.0, Method: "context_override"}
			}
		}
	}

	if r.generator != nil {
		if classification, ok := r.classifyWithModel(ctx, query); ok {
			return classification
		}
	}

	return r.classifyByKeywords(query)
}

func (r *Router) classifyWithModel(ctx context.Context, query string) (Classification, bool) {
	result, err := r.generator.Generate(ctx, llm.Request{
		SystemPrompt: classifySystemPrompt,
		Prompt:       query,
		Temperature:  0.1,
		MaxTokens:    100,
	})
	if err != nil || !result.Success {
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Debug(ctx, "Model classification unavailable, using keywords",
				observability.String("query", query),
			)
		}
		return Classification{}, false
	}

	parsed, err := parse.StringAs[struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}](result.Content)
	if err != nil {
		return Classification{}, false
	}

	intent := content.Intent(strings.ToLower(strings.TrimSpace(parsed.Intent)))
	if !intent.Valid() {
		return Classification{}, false
	}

	confidence := parsed.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.5
	}
	return Classification{Intent: intent, Confidence: confidence, Method: "llm"}, true
}

func (r *Router) classifyByKeywords(query string) Classification {
	lowered := strings.ToLower(query)

	best := content.IntentBlog
	bestCount := 0
	for _, intent := range intentOrder {
		count := 0
		for _, keyword := range intentKeywords[intent] {
			if strings.Contains(lowered, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = intent
			bestCount = count
		}
	}

	confidence := 0.3
	if bestCount > 0 {
		confidence = 0.7
	}
	return Classification{Intent: best, Confidence: confidence, Method: "keyword"}
}

// ShouldResearch reports whether a research pass should run before generation.
// Research intent always researches; blog requests research when the query
// carries a research signal.
func (r *Router) ShouldResearch(query string, intent content.Intent) bool {
	if intent == content.IntentResearch {
		return true
	}
	if intent != content.IntentBlog {
		return false
	}
	lowered := strings.ToLower(query)
	for _, signal := range researchSignals {
		if strings.Contains(lowered, signal) {
			return true
		}
	}
	return false
}

const requirementsSystemPrompt = `Extract content requirements from the user's request.
Respond with JSON only:
{"topic": "...", "tone": "...", "length": "short|medium|long", "target_audience": "...", "keywords": ["..."], "style": "..."}
Leave a field empty when the request does not specify it.`

// ExtractRequirements asks the model to pull structured requirements out of
// the query, telling it which content kind was classified, and overlays the
// answer onto the defaults. Any failure along the way yields the defaults,
// so routing never blocks a run.
func (r *Router) ExtractRequirements(ctx context.Context, query string, intent content.Intent) content.Requirements {
	defaults := content.DefaultRequirements(query)
	if r.generator == nil {
		return defaults
	}

	prompt := query
	if intent.Valid() {
		prompt = fmt.Sprintf("Request: %s\nContent kind: %s", query, intent)
	}

	result, err := r.generator.Generate(ctx, llm.Request{
		SystemPrompt: requirementsSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.1,
		MaxTokens:    300,
	})
	if err != nil || !result.Success {
		return defaults
	}

	extracted, err := parse.StringAs[content.Requirements](result.Content)
	if err != nil {
		return defaults
	}
	return defaults.Overlay(extracted)
}

// Route runs classification, the research decision, and requirements
// extraction in one pass.
func (r *Router) Route(ctx context.Context, query string, runContext map[string]any) Decision {
	classification := r.ClassifyIntent(ctx, query, runContext)

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Info(ctx, "Routed query",
			observability.String("intent", string(classification.Intent)),
			observability.String("method", classification.Method),
			observability.String("confidence", fmt.Sprintf("%.2f", classification.Confidence)),
		)
	}

	return Decision{
		Classification: classification,
		NeedsResearch:  r.ShouldResearch(query, classification.Intent),
		Requirements:   r.ExtractRequirements(ctx, query, classification.Intent),
	}
}
