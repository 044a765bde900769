package workflow

import (
	"context"
	"fmt"

	"github.com/contentalchemy/alchemy/agents"
	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/core/router"
)

// Step names of the content pipeline.
const (
	StepRoute            = "route"
	StepResearch         = "research"
	StepGenerateBlog     = "generateBlog"
	StepGenerateLinkedIn = "generateLinkedin"
	StepGenerateImage    = "generateImage"
	StepCreateStrategy   = "createStrategy"
	StepQualityCheck     = "qualityCheck"
	StepFinalize         = "finalize"
)

// defaultResearchResults is how many search hits a research pass collects.
const defaultResearchResults = 5

// Pipeline bundles the collaborators of the content production machine.
type Pipeline struct {
	Router     *router.Router
	Research   *agents.ResearchAgent
	Blog       *agents.BlogAgent
	LinkedIn   *agents.LinkedInAgent
	Image      *agents.ImageAgent
	Strategist *agents.StrategistAgent
}

// NewContentMachine builds the step machine for content production runs:
//
//	route → [research] → generate<kind> → [qualityCheck] → finalize
//
// Research runs only when routing asks for it. The quality check follows the
// long-form text steps (blog and LinkedIn) and skips its review when no
// content was produced; image and strategy runs bypass it entirely.
func NewContentMachine(p Pipeline) (*Machine, error) {
	if p.Router == nil {
		return nil, fmt.Errorf("pipeline requires a router")
	}
	if p.Blog == nil || p.LinkedIn == nil || p.Image == nil || p.Strategist == nil {
		return nil, fmt.Errorf("pipeline requires all generation agents")
	}

	return NewBuilder().
		AddStep(StepRoute, p.routeStep).
		AddStep(StepResearch, p.researchStep).
		AddStep(StepGenerateBlog, p.blogStep).
		AddStep(StepGenerateLinkedIn, p.linkedinStep).
		AddStep(StepGenerateImage, p.imageStep).
		AddStep(StepCreateStrategy, p.strategyStep).
		AddStep(StepQualityCheck, p.qualityStep).
		AddStep(StepFinalize, finalizeStep).
		SetEntry(StepRoute).
		SetTerminal(StepFinalize).
		AddDecision(StepRoute, decideAfterRoute).
		AddDecision(StepResearch, func(state *State) string { return contentStepFor(state.Intent) }).
		AddTransition(StepGenerateBlog, StepQualityCheck).
		AddTransition(StepGenerateLinkedIn, StepQualityCheck).
		AddTransition(StepCreateStrategy, StepFinalize).
		AddTransition(StepGenerateImage, StepFinalize).
		AddTransition(StepQualityCheck, StepFinalize).
		Build()
}

// contentStepFor maps an intent to its generation step. Research-intent runs
// deliver findings as a blog-style writeup, so they share the blog step.
func contentStepFor(intent content.Intent) string {
	switch intent {
	case content.IntentLinkedIn:
		return StepGenerateLinkedIn
	case content.IntentImage:
		return StepGenerateImage
	case content.IntentStrategy:
		return StepCreateStrategy
	default:
		return StepGenerateBlog
	}
}

func decideAfterRoute(state *State) string {
	if state.NeedsResearch {
		return StepResearch
	}
	return contentStepFor(state.Intent)
}

func (p Pipeline) routeStep(ctx context.Context, state *State) (Update, error) {
	decision := p.Router.Route(ctx, state.Query, state.Context)

	needsResearch := decision.NeedsResearch
	requirements := decision.Requirements
	classification := decision.Classification

	return Update{
		Intent:         classification.Intent,
		Classification: &classification,
		NeedsResearch:  &needsResearch,
		Requirements:   &requirements,
		History: []StepRecord{{
			Step:    StepRoute,
			Success: true,
			Detail:  fmt.Sprintf("intent=%s method=%s", classification.Intent, classification.Method),
		}},
	}, nil
}

func (p Pipeline) researchStep(ctx context.Context, state *State) (Update, error) {
	if p.Research == nil {
		return Update{
			Research: &content.ResearchResult{Success: false, Query: state.Query, Error: "research agent not configured"},
			History:  []StepRecord{{Step: StepResearch, Success: false, Detail: "research agent not configured"}},
			Errors:   []StepError{{Step: StepResearch, Message: "research agent not configured"}},
		}, nil
	}

	result, err := p.Research.Research(ctx, state.Query, defaultResearchResults)
	if err != nil {
		return Update{}, err
	}

	update := Update{Research: result}
	record := StepRecord{Step: StepResearch, Success: result.Success}
	if !result.Success {
		record.Detail = result.Error
		update.Errors = []StepError{{Step: StepResearch, Message: result.Error}}
	}
	update.History = []StepRecord{record}
	return update, nil
}

func (p Pipeline) blogStep(ctx context.Context, state *State) (Update, error) {
	result, err := p.Blog.Write(ctx, p.requirements(state), state.Research)
	if err != nil {
		return Update{}, err
	}

	update := Update{Blog: result}
	record := StepRecord{Step: StepGenerateBlog, Success: result.Success}
	if !result.Success {
		record.Detail = result.Error
		update.Errors = []StepError{{Step: StepGenerateBlog, Message: result.Error}}
	}
	update.History = []StepRecord{record}
	return update, nil
}

func (p Pipeline) linkedinStep(ctx context.Context, state *State) (Update, error) {
	result, err := p.LinkedIn.Write(ctx, p.requirements(state), state.Research)
	if err != nil {
		return Update{}, err
	}

	update := Update{LinkedIn: result}
	record := StepRecord{Step: StepGenerateLinkedIn, Success: result.Success}
	if !result.Success {
		record.Detail = result.Error
		update.Errors = []StepError{{Step: StepGenerateLinkedIn, Message: result.Error}}
	} else if result.ImageError != "" {
		// The post survives an image failure; the warning is still audited.
		record.Detail = "image attachment failed: " + result.ImageError
		update.Errors = []StepError{{Step: StepGenerateLinkedIn, Message: "image attachment failed: " + result.ImageError}}
	}
	update.History = []StepRecord{record}
	return update, nil
}

func (p Pipeline) imageStep(ctx context.Context, state *State) (Update, error) {
	result, err := p.Image.Generate(ctx, p.requirements(state))
	if err != nil {
		return Update{}, err
	}

	update := Update{Image: result}
	record := StepRecord{Step: StepGenerateImage, Success: result.Success}
	if !result.Success {
		record.Detail = result.Error
		update.Errors = []StepError{{Step: StepGenerateImage, Message: result.Error}}
	}
	update.History = []StepRecord{record}
	return update, nil
}

func (p Pipeline) strategyStep(ctx context.Context, state *State) (Update, error) {
	result, err := p.Strategist.CreateBrief(ctx, p.requirements(state), state.Research)
	if err != nil {
		return Update{}, err
	}

	update := Update{Strategy: result}
	record := StepRecord{Step: StepCreateStrategy, Success: result.Success}
	if !result.Success {
		record.Detail = result.Error
		update.Errors = []StepError{{Step: StepCreateStrategy, Message: result.Error}}
	}
	update.History = []StepRecord{record}
	return update, nil
}

func (p Pipeline) qualityStep(ctx context.Context, state *State) (Update, error) {
	produced := state.PrimaryContent()
	if produced == "" {
		return Update{
			History: []StepRecord{{Step: StepQualityCheck, Success: false, Detail: "no content to review"}},
		}, nil
	}

	report, err := p.Strategist.AnalyzeQuality(ctx, produced)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Quality: report,
		History: []StepRecord{{
			Step:    StepQualityCheck,
			Success: true,
			Detail:  fmt.Sprintf("overall=%.1f", report.Overall),
		}},
	}, nil
}

func finalizeStep(_ context.Context, state *State) (Update, error) {
	produced := state.PrimaryContent() != ""
	record := StepRecord{Step: StepFinalize, Success: produced}
	if !produced {
		record.Detail = "no content produced"
	}
	return Update{History: []StepRecord{record}}, nil
}

// requirements returns the extracted requirements, or defaults derived from
// the query when routing never got to fill them in.
func (p Pipeline) requirements(state *State) content.Requirements {
	if state.Requirements != nil {
		return *state.Requirements
	}
	return content.DefaultRequirements(state.Query)
}
