package archive

import (
	"context"

	"github.com/mazewars/mazewars-go/internal/model"
)

// Store persists summaries of finished matches
type Store interface {
	// SaveMatch records a finished match
	SaveMatch(ctx context.Context, summary model.MatchSummary) error

	// GetMatch returns one archived match by ID, or
	// model.ErrMatchNotFound
	GetMatch(ctx context.Context, id model.MatchID) (model.MatchSummary, error)

	// ListMatches returns archived matches, most recent first
	ListMatches(ctx context.Context) ([]model.MatchSummary, error)

	// Close releases any resources held by the store
	Close() error
}
