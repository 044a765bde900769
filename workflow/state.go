// Package workflow contains the run state, the step machine that drives a
// content production run, and the envelope returned to callers. A run always
// reaches the finalize step: step failures are captured at the step boundary
// and recorded on the state instead of aborting execution.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentalchemy/alchemy/core/content"
	"github.com/contentalchemy/alchemy/core/router"
)

// StepRecord is one entry of the run's audit trail.
type StepRecord struct {
	Step    string `json:"step"`
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// StepError records a fault captured at a step boundary.
type StepError struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// State is the accumulated state of one run. History and Errors are
// append-only; content slots are written once by their producing step.
type State struct {
	RunID     string         `json:"run_id"`
	Query     string         `json:"query"`
	Context   map[string]any `json:"context,omitempty"`
	StartedAt time.Time      `json:"started_at"`

	Intent         content.Intent         `json:"intent,omitempty"`
	Classification *router.Classification `json:"classification,omitempty"`
	NeedsResearch  bool                   `json:"needs_research"`
	Requirements   *content.Requirements  `json:"requirements,omitempty"`

	Research *content.ResearchResult `json:"research,omitempty"`
	Blog     *content.BlogResult     `json:"blog,omitempty"`
	LinkedIn *content.LinkedInResult `json:"linkedin,omitempty"`
	Image    *content.ImageResult    `json:"image,omitempty"`
	Strategy *content.StrategyResult `json:"strategy,omitempty"`
	Quality  *content.QualityReport  `json:"quality,omitempty"`

	CurrentStep string       `json:"current_step,omitempty"`
	History     []StepRecord `json:"history"`
	Errors      []StepError  `json:"errors,omitempty"`
}

// NewState creates the initial state for a run, assigning a fresh run ID.
func NewState(query string, runContext map[string]any) *State {
	return &State{
		RunID:     uuid.NewString(),
		Query:     query,
		Context:   runContext,
		StartedAt: time.Now().UTC(),
	}
}

// Update is a partial state change emitted by a step. Nil and zero-valued
// fields leave the corresponding state field untouched; History and Errors
// entries are appended, never replaced.
type Update struct {
	Intent         content.Intent
	Classification *router.Classification
	NeedsResearch  *bool
	Requirements   *content.Requirements

	Research *content.ResearchResult
	Blog     *content.BlogResult
	LinkedIn *content.LinkedInResult
	Image    *content.ImageResult
	Strategy *content.StrategyResult
	Quality  *content.QualityReport

	CurrentStep string
	History     []StepRecord
	Errors      []StepError
}

// Apply merges an update into the state, field-wise.
func (s *State) Apply(update Update) {
	if update.Intent != content.IntentUnset {
		s.Intent = update.Intent
	}
	if update.Classification != nil {
		s.Classification = update.Classification
	}
	if update.NeedsResearch != nil {
		s.NeedsResearch = *update.NeedsResearch
	}
	if update.Requirements != nil {
		s.Requirements = update.Requirements
	}
	if update.Research != nil {
		s.Research = update.Research
	}
	if update.Blog != nil {
		s.Blog = update.Blog
	}
	if update.LinkedIn != nil {
		s.LinkedIn = update.LinkedIn
	}
	if update.Image != nil {
		s.Image = update.Image
	}
	if update.Strategy != nil {
		s.Strategy = update.Strategy
	}
	if update.Quality != nil {
		s.Quality = update.Quality
	}
	if update.CurrentStep != "" {
		s.CurrentStep = update.CurrentStep
	}
	s.History = append(s.History, update.History...)
	s.Errors = append(s.Errors, update.Errors...)
}

// PrimaryContent returns the payload of the content slot matching the run's
// intent. A research-intent run delivers its findings through the blog slot,
// so the blog payload answers for it.
func (s *State) PrimaryContent() string {
	switch s.Intent {
	case content.IntentBlog, content.IntentResearch:
		return s.Blog.Primary()
	case content.IntentLinkedIn:
		return s.LinkedIn.Primary()
	case content.IntentImage:
		return s.Image.Primary()
	case content.IntentStrategy:
		return s.Strategy.Primary()
	}
	return ""
}

// LastError returns the most recently recorded step error, if any.
func (s *State) LastError() (StepError, bool) {
	if len(s.Errors) == 0 {
		return StepError{}, false
	}
	return s.Errors[len(s.Errors)-1], true
}
