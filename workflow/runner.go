package workflow

import (
	"context"

	"github.com/contentalchemy/alchemy/providers/observability"
)

// Runner executes content production runs and archives their final state.
type Runner struct {
	machine   *Machine
	snapshots *SnapshotStore
	observer  observability.Provider
}

// NewRunner wraps a machine. snapshots may be nil to disable archiving and
// observer may be nil to run silently.
func NewRunner(machine *Machine, snapshots *SnapshotStore, observer observability.Provider) *Runner {
	return &Runner{machine: machine, snapshots: snapshots, observer: observer}
}

// Run executes one content production run for query and returns its
// envelope. Run never returns an error: every fault is captured on the run
// state and reflected in the envelope. When threadID is non-empty the final
// state is archived under it.
func (r *Runner) Run(ctx context.Context, query string, runContext map[string]any, threadID string) *Envelope {
	if r.observer != nil {
		ctx = observability.ContextWithObserver(ctx, r.observer)
	}

	state := NewState(query, runContext)

	var span observability.Span
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		ctx, span = observer.StartSpan(ctx, "workflow.run",
			observability.String("run_id", state.RunID),
			observability.String("query", query),
		)
		observer.Counter("workflow.runs").Add(ctx, 1)
	}

	state = r.machine.Run(ctx, state)
	envelope := BuildEnvelope(state)

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		status := "success"
		if !envelope.Success {
			status = "failure"
		}
		observer.Counter("workflow.runs.completed").Add(ctx, 1,
			observability.String("status", status),
			observability.String("intent", string(envelope.Intent)),
		)
		observer.Histogram("workflow.run.duration_ms").Record(ctx, float64(envelope.Metadata.Duration.Milliseconds()))
	}
	if span != nil {
		if envelope.Success {
			span.SetStatus(observability.StatusOK, "")
		} else {
			span.SetStatus(observability.StatusError, envelope.Error)
		}
		span.End()
	}

	if r.snapshots != nil {
		r.snapshots.Save(threadID, state)
	}
	return envelope
}

// Snapshot returns the archived final state for threadID, if any.
func (r *Runner) Snapshot(threadID string) (*State, bool) {
	if r.snapshots == nil {
		return nil, false
	}
	return r.snapshots.Load(threadID)
}
