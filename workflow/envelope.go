package workflow

import (
	"time"

	"github.com/contentalchemy/alchemy/core/content"
)

// Envelope is the caller-facing summary of a completed run.
type Envelope struct {
	Success  bool                    `json:"success"`
	Intent   content.Intent          `json:"intent"`
	Query    string                  `json:"query"`
	Content  any                     `json:"content,omitempty"`
	Research *content.ResearchResult `json:"research,omitempty"`
	Error    string                  `json:"error,omitempty"`
	Metadata Metadata                `json:"metadata"`
}

// Metadata carries the run's audit trail and diagnostics.
type Metadata struct {
	RunID     string                 `json:"run_id"`
	StartedAt time.Time              `json:"started_at"`
	Duration  time.Duration          `json:"duration"`
	Quality   *content.QualityReport `json:"quality,omitempty"`
	History   []StepRecord           `json:"history"`
	Errors    []StepError            `json:"errors,omitempty"`
}

// BuildEnvelope projects a finished run state into the caller-facing
// envelope. Success means the content slot matching the run's intent holds a
// non-empty payload; on failure the error message comes from the most recent
// captured step error, or a generic message when generation simply produced
// nothing.
func BuildEnvelope(state *State) *Envelope {
	envelope := &Envelope{
		Intent:   state.Intent,
		Query:    state.Query,
		Research: state.Research,
		Metadata: Metadata{
			RunID:     state.RunID,
			StartedAt: state.StartedAt,
			Duration:  time.Since(state.StartedAt),
			Quality:   state.Quality,
			History:   state.History,
			Errors:    state.Errors,
		},
	}

	switch state.Intent {
	case content.IntentBlog, content.IntentResearch:
		if state.Blog != nil {
			envelope.Content = state.Blog
		}
	case content.IntentLinkedIn:
		if state.LinkedIn != nil {
			envelope.Content = state.LinkedIn
		}
	case content.IntentImage:
		if state.Image != nil {
			envelope.Content = state.Image
		}
	case content.IntentStrategy:
		if state.Strategy != nil {
			envelope.Content = state.Strategy
		}
	}

	envelope.Success = state.PrimaryContent() != ""
	if !envelope.Success {
		switch {
		case hasLastError(state):
			lastError, _ := state.LastError()
			envelope.Error = lastError.Message
		case contentError(state) != "":
			envelope.Error = contentError(state)
		default:
			envelope.Error = "content generation did not produce output"
		}
	}
	return envelope
}

func hasLastError(state *State) bool {
	_, found := state.LastError()
	return found
}

// contentError returns the failure message recorded on the content slot
// matching the run's intent, if any.
func contentError(state *State) string {
	switch state.Intent {
	case content.IntentBlog, content.IntentResearch:
		if state.Blog != nil {
			return state.Blog.Error
		}
	case content.IntentLinkedIn:
		if state.LinkedIn != nil {
			return state.LinkedIn.Error
		}
	case content.IntentImage:
		if state.Image != nil {
			return state.Image.Error
		}
	case content.IntentStrategy:
		if state.Strategy != nil {
			return state.Strategy.Error
		}
	}
	return ""
}
