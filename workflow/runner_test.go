package workflow

import (
	"context"
	"log/slog"
	"testing"

	"github.com/contentalchemy/alchemy/providers/observability/slogobs"
)

func TestRunnerArchivesSnapshot(t *testing.T) {
	machine := newTestMachine(t, &scriptedGenerator{}, &scriptedSearch{enabled: true}, &scriptedImages{enabled: false})
	runner := NewRunner(machine, NewSnapshotStore(), nil)

	envelope := runner.Run(context.Background(), "write a blog about my morning routine", nil, "thread-7")
	if !envelope.Success {
		t.Fatalf("envelope = %+v, want success", envelope)
	}

	snapshot, found := runner.Snapshot("thread-7")
	if !found {
		t.Fatal("Snapshot() found = false")
	}
	if snapshot.RunID != envelope.Metadata.RunID {
		t.Errorf("snapshot RunID = %q, envelope RunID = %q", snapshot.RunID, envelope.Metadata.RunID)
	}
}

func TestRunnerWithoutSnapshotsOrObserver(t *testing.T) {
	machine := newTestMachine(t, &scriptedGenerator{}, &scriptedSearch{enabled: true}, &scriptedImages{enabled: false})
	runner := NewRunner(machine, nil, nil)

	envelope := runner.Run(context.Background(), "write a blog about my morning routine", nil, "thread-1")
	if envelope == nil {
		t.Fatal("Run() = nil")
	}
	if _, found := runner.Snapshot("thread-1"); found {
		t.Error("Snapshot() found = true, want archiving disabled")
	}
}

func TestRunnerNeverErrorsOnFaults(t *testing.T) {
	generator := &scriptedGenerator{panicRoles: map[string]bool{"blog": true}}
	machine := newTestMachine(t, generator, &scriptedSearch{enabled: true}, &scriptedImages{enabled: false})
	runner := NewRunner(machine, NewSnapshotStore(), slogobs.New(slog.Default()))

	envelope := runner.Run(context.Background(), "write a blog about panics", nil, "thread-2")
	if envelope == nil {
		t.Fatal("Run() = nil")
	}
	if envelope.Success {
		t.Fatal("Success = true, want false")
	}
	if len(envelope.Metadata.Errors) == 0 {
		t.Error("Metadata.Errors is empty, want the captured fault")
	}
}
