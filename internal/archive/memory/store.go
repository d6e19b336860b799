package memory

import (
	"context"
	"sync"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/model"
)

// Store is an in-memory implementation of the archive
type Store struct {
	mu sync.RWMutex

	matches map[model.MatchID]model.MatchSummary
	order   []model.MatchID // IDs in save order, oldest first
}

// New creates a new in-memory archive
func New() *Store {
	return &Store{
		matches: make(map[model.MatchID]model.MatchSummary),
	}
}

// Ensure Store implements the interface
var _ archive.Store = (*Store)(nil)

func (s *Store) SaveMatch(ctx context.Context, summary model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[summary.ID]; !ok {
		s.order = append(s.order, summary.ID)
	}
	s.matches[summary.ID] = summary
	return nil
}

func (s *Store) GetMatch(ctx context.Context, id model.MatchID) (model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.matches[id]
	if !ok {
		return model.MatchSummary{}, model.ErrMatchNotFound
	}
	return summary, nil
}

func (s *Store) ListMatches(ctx context.Context) ([]model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]model.MatchSummary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		summaries = append(summaries, s.matches[s.order[i]])
	}
	return summaries, nil
}

func (s *Store) Close() error {
	return nil
}
