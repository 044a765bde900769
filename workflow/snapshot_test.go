package workflow

import (
	"sync"
	"testing"
)

func TestSnapshotStoreLastWriterWins(t *testing.T) {
	store := NewSnapshotStore()

	first := NewState("first query", nil)
	second := NewState("second query", nil)

	store.Save("thread-1", first)
	store.Save("thread-1", second)

	got, found := store.Load("thread-1")
	if !found {
		t.Fatal("Load() found = false")
	}
	if got.Query != "second query" {
		t.Errorf("Query = %q, want the later snapshot", got.Query)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestSnapshotStoreIgnoresEmptyKey(t *testing.T) {
	store := NewSnapshotStore()
	store.Save("", NewState("q", nil))

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if _, found := store.Load(""); found {
		t.Error("Load(\"\") found = true")
	}
}

func TestSnapshotStoreMissingThread(t *testing.T) {
	store := NewSnapshotStore()
	if _, found := store.Load("missing"); found {
		t.Error("Load(missing) found = true")
	}
}

func TestSnapshotStoreConcurrentWriters(t *testing.T) {
	store := NewSnapshotStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Save("shared", NewState("q", nil))
			store.Load("shared")
		}()
	}
	wg.Wait()

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}
