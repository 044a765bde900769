package workflow

import "sync"

// SnapshotStore keeps the final state of runs keyed by thread ID, so a caller
// can inspect what its last run produced. Writes are last-writer-wins.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*State
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]*State)}
}

// Save stores the state under threadID, replacing any previous snapshot.
// An empty threadID is ignored.
func (s *SnapshotStore) Save(threadID string, state *State) {
	if threadID == "" || state == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[threadID] = state
}

// Load returns the snapshot for threadID, if one exists.
func (s *SnapshotStore) Load(threadID string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, exists := s.snapshots[threadID]
	return state, exists
}

// Len reports how many threads have snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
