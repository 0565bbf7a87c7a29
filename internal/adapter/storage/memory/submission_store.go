package memory

import (
	"sync"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
)

// SubmissionStore implements ports.SubmissionStore with a mutex-guarded map.
// The active set is small and bounded by the abandonment cutoff, so a plain
// map is enough. Entries are owned by the monitor; readers get copies.
type SubmissionStore struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*domain.TrackedSubmission
}

// NewSubmissionStore creates an empty store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		subs: make(map[uuid.UUID]*domain.TrackedSubmission),
	}
}

// Put inserts or replaces a submission.
func (s *SubmissionStore) Put(sub *domain.TrackedSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
}

// Get returns a copy of the submission with the given id.
func (s *SubmissionStore) Get(id uuid.UUID) (*domain.TrackedSubmission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, false
	}
	cp := *sub
	return &cp, true
}

// Delete removes a submission from the active set.
func (s *SubmissionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Snapshot returns copies of every tracked submission.
func (s *SubmissionStore) Snapshot() []domain.TrackedSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TrackedSubmission, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	return out
}

// Len returns the active set size.
func (s *SubmissionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
