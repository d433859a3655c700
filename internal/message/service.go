package message

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// Common errors
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyText       = errors.New("message text is required")
	ErrTextTooLong     = errors.New("message text exceeds 140 characters")
	ErrNotOwner        = errors.New("message belongs to another user")
)

// Store is the persistence surface the message service depends on
type Store interface {
	Create(ctx context.Context, m *Message) (*Message, error)
	GetByID(ctx context.Context, id int64) (*Message, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*Message, error)
	ListLikedBy(ctx context.Context, userID int64) ([]*Message, error)
	Like(ctx context.Context, userID, messageID int64) error
	Unlike(ctx context.Context, userID, messageID int64) error
	IsLiked(ctx context.Context, userID, messageID int64) (bool, error)
}

// Service handles message and like-graph business logic
type Service struct {
	repo Store
}

// NewService creates a new message service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create posts a message for the owner. Text must be non-empty after
// trimming and within the length bound.
func (s *Service) Create(ctx context.Context, ownerID int64, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return nil, ErrTextTooLong
	}

	return s.repo.Create(ctx, &Message{Text: text, UserID: ownerID})
}

// Get retrieves a single message
func (s *Service) Get(ctx context.Context, id int64) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// GetForViewer retrieves a message together with what the viewer may do
// with it. viewerID 0 means anonymous.
func (s *Service) GetForViewer(ctx context.Context, id, viewerID int64) (*MessageDetail, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &MessageDetail{MessageResponse: *m.ToResponse()}
	if viewerID != 0 {
		detail.CanDelete = m.UserID == viewerID
		liked, err := s.repo.IsLiked(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
		detail.Liked = liked
	}

	return detail, nil
}

// Delete removes a message. Only the owning user may delete it.
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != callerID {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, id)
}

// ListByUser returns a user's messages, newest first
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Message, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListLikedBy returns the messages a user has liked
func (s *Service) ListLikedBy(ctx context.Context, userID int64) ([]*Message, error) {
	return s.repo.ListLikedBy(ctx, userID)
}

// Like marks the message as liked by the user. Liking twice is absorbed.
func (s *Service) Like(ctx context.Context, userID, messageID int64) error {
	if _, err := s.Get(ctx, messageID); err != nil {
		return err
	}
	return s.repo.Like(ctx, userID, messageID)
}

// Unlike removes the like edge if present, a no-op otherwise
func (s *Service) Unlike(ctx context.Context, userID, messageID int64) error {
	return s.repo.Unlike(ctx, userID, messageID)
}
