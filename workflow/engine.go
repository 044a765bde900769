package workflow

import (
	"context"
	"fmt"

	"github.com/contentalchemy/alchemy/providers/observability"
)

// StepFunc executes one step against the current state and returns the
// partial update to merge. A returned error is a fault: it is captured at
// the step boundary, recorded on the state, and the run continues with the
// step's normal successor.
type StepFunc func(ctx context.Context, state *State) (Update, error)

// DecideFunc picks the next step name after its owning step completed.
type DecideFunc func(state *State) string

// maxStepsPerRun guards against a routing bug looping a run forever.
const maxStepsPerRun = 32

type stepNode struct {
	name   string
	run    StepFunc
	decide DecideFunc
	next   string
}

// Machine executes a fixed graph of steps sequentially. It is immutable
// after Build and safe to share across runs.
type Machine struct {
	steps    map[string]*stepNode
	entry    string
	terminal string
}

// Builder assembles a Machine. Steps are added by name; each non-terminal
// step needs either a static transition or a decision.
type Builder struct {
	steps    map[string]*stepNode
	entry    string
	terminal string
	err      error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{steps: make(map[string]*stepNode)}
}

// AddStep registers a step under name.
func (b *Builder) AddStep(name string, fn StepFunc) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" || fn == nil {
		b.err = fmt.Errorf("step requires a name and a function")
		return b
	}
	if _, exists := b.steps[name]; exists {
		b.err = fmt.Errorf("duplicate step %q", name)
		return b
	}
	b.steps[name] = &stepNode{name: name, run: fn}
	return b
}

// AddTransition sets a static successor for a step.
func (b *Builder) AddTransition(from, to string) *Builder {
	if b.err != nil {
		return b
	}
	node, exists := b.steps[from]
	if !exists {
		b.err = fmt.Errorf("transition from unknown step %q", from)
		return b
	}
	node.next = to
	return b
}

// AddDecision sets a dynamic successor for a step.
func (b *Builder) AddDecision(from string, decide DecideFunc) *Builder {
	if b.err != nil {
		return b
	}
	node, exists := b.steps[from]
	if !exists {
		b.err = fmt.Errorf("decision on unknown step %q", from)
		return b
	}
	node.decide = decide
	return b
}

// SetEntry names the first step of every run.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

// SetTerminal names the step every run ends on. Faults jump here directly.
func (b *Builder) SetTerminal(name string) *Builder {
	b.terminal = name
	return b
}

// Build validates the graph and returns the Machine. Every non-terminal step
// must have a successor, and static successors must name existing steps.
func (b *Builder) Build() (*Machine, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.steps) == 0 {
		return nil, fmt.Errorf("machine has no steps")
	}
	if _, exists := b.steps[b.entry]; !exists {
		return nil, fmt.Errorf("entry step %q not registered", b.entry)
	}
	if _, exists := b.steps[b.terminal]; !exists {
		return nil, fmt.Errorf("terminal step %q not registered", b.terminal)
	}

	for name, node := range b.steps {
		if name == b.terminal {
			continue
		}
		if node.decide == nil && node.next == "" {
			return nil, fmt.Errorf("step %q has no successor", name)
		}
		if node.next != "" {
			if _, exists := b.steps[node.next]; !exists {
				return nil, fmt.Errorf("step %q transitions to unknown step %q", name, node.next)
			}
		}
	}

	return &Machine{steps: b.steps, entry: b.entry, terminal: b.terminal}, nil
}

// Run drives state through the machine from entry to terminal. Step faults
// (errors and panics) are recorded on the state and execution moves on to
// the step's successor, so downstream steps run even after an upstream
// failure; Run itself never fails.
func (m *Machine) Run(ctx context.Context, state *State) *State {
	observer := observability.ObserverFromContext(ctx)

	current := m.entry
	for i := 0; i < maxStepsPerRun; i++ {
		node, exists := m.steps[current]
		if !exists {
			state.Apply(Update{
				CurrentStep: current + "_error",
				Errors:      []StepError{{Step: current, Message: fmt.Sprintf("unknown step %q", current)}},
				History:     []StepRecord{{Step: current, Success: false, Detail: "unknown step"}},
			})
			current = m.terminal
			continue
		}

		update, err := m.runStep(ctx, node, state)
		if err != nil {
			if observer != nil {
				observer.Error(ctx, "Step failed",
					observability.String("step", node.name),
					observability.Error(err),
				)
			}
			state.Apply(Update{
				CurrentStep: node.name + "_error",
				Errors:      []StepError{{Step: node.name, Message: err.Error()}},
				History:     []StepRecord{{Step: node.name, Success: false, Detail: err.Error()}},
			})
			if node.name == m.terminal {
				return state
			}
			current = m.nextStep(node, state)
			continue
		}

		if update.CurrentStep == "" {
			update.CurrentStep = node.name
		}
		state.Apply(update)

		if node.name == m.terminal {
			return state
		}
		current = m.nextStep(node, state)
	}

	state.Apply(Update{
		Errors: []StepError{{Step: current, Message: "step budget exhausted"}},
	})
	return state
}

func (m *Machine) nextStep(node *stepNode, state *State) string {
	if node.decide != nil {
		if next := node.decide(state); next != "" {
			return next
		}
	}
	if node.next != "" {
		return node.next
	}
	return m.terminal
}

// runStep executes one step with panic recovery so a programming fault in a
// step is captured like any other step failure.
func (m *Machine) runStep(ctx context.Context, node *stepNode, state *State) (update Update, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			update = Update{}
			err = fmt.Errorf("panic in step %s: %v", node.name, recovered)
		}
	}()

	var span observability.Span
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		ctx, span = observer.StartSpan(ctx, "workflow.step",
			observability.String("step", node.name),
			observability.String("run_id", state.RunID),
		)
		ctx = observability.ContextWithSpan(ctx, span)
		defer span.End()
	}

	update, err = node.run(ctx, state)
	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
		} else {
			span.SetStatus(observability.StatusOK, "")
		}
	}
	return update, err
}
