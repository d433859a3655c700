package feed

import (
	"context"

	"github.com/SevenSinz/warbler/internal/message"
)

// Limit is the fixed feed cutoff: the 100 most recent messages
const Limit = 100

// Store is the persistence surface the feed service depends on
type Store interface {
	Home(ctx context.Context, userID int64, limit int) ([]*message.Message, error)
}

// Service assembles the home feed
type Service struct {
	repo Store
}

// NewService creates a new feed service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Home returns the user's home feed: their own messages and their
// followees', newest first, truncated to the fixed cutoff
func (s *Service) Home(ctx context.Context, userID int64) ([]*message.Message, error) {
	return s.repo.Home(ctx, userID, Limit)
}
