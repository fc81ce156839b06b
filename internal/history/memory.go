package history

import (
	"context"
	"sync"

	"github.com/thebtf/lookbook/pkg/models"
)

// maxRowsPerScope caps in-memory retention; older rows fall off first.
const maxRowsPerScope = 64

type bucket struct {
	lineups  []models.HistoryEntry
	feedback []models.FeedbackEntry
}

// MemoryStore keeps history in process memory. It backs tests and
// single-process deployments that do not configure a database.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[Scope]*bucket
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[Scope]*bucket)}
}

func (s *MemoryStore) scope(sc Scope) *bucket {
	b, ok := s.buckets[sc]
	if !ok {
		b = &bucket{}
		s.buckets[sc] = b
	}
	return b
}

// RecordLineup appends a worn lineup to the scope, newest last.
func (s *MemoryStore) RecordLineup(_ context.Context, sc Scope, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.scope(sc)
	b.lineups = append(b.lineups, entry)
	if len(b.lineups) > maxRowsPerScope {
		b.lineups = b.lineups[len(b.lineups)-maxRowsPerScope:]
	}
	return nil
}

// RecentLineups returns up to limit entries, most recent first.
func (s *MemoryStore) RecentLineups(_ context.Context, sc Scope, limit int) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[sc]
	if !ok {
		return nil, nil
	}
	n := len(b.lineups)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, b.lineups[i])
	}
	return out, nil
}

// RecordFeedback appends a feedback row to the scope.
func (s *MemoryStore) RecordFeedback(_ context.Context, sc Scope, entry models.FeedbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.scope(sc)
	b.feedback = append(b.feedback, entry)
	if len(b.feedback) > maxRowsPerScope {
		b.feedback = b.feedback[len(b.feedback)-maxRowsPerScope:]
	}
	return nil
}

// RecentFeedback returns up to limit feedback rows, most recent first.
func (s *MemoryStore) RecentFeedback(_ context.Context, sc Scope, limit int) ([]models.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[sc]
	if !ok {
		return nil, nil
	}
	n := len(b.feedback)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.FeedbackEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, b.feedback[i])
	}
	return out, nil
}

// Stats counts rows across all scopes.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Scopes: len(s.buckets)}
	for _, b := range s.buckets {
		st.Lineups += len(b.lineups)
		st.Feedback += len(b.feedback)
	}
	return st, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
