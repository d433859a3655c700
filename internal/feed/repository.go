package feed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SevenSinz/warbler/internal/message"
)

// Repository assembles home feeds from the messages and follows tables
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new feed repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Home returns the most recent messages owned by the user or any of their
// followees, newest first, capped at limit
func (r *Repository) Home(ctx context.Context, userID int64, limit int) ([]*message.Message, error) {
	query := `
		SELECT m.id, m.text, m.created_at, m.user_id, u.id, u.username, u.image_url
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		   OR m.user_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY m.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble feed: %w", err)
	}
	defer rows.Close()

	var messages []*message.Message
	for rows.Next() {
		m := &message.Message{Author: &message.Author{}}
		if err := rows.Scan(
			&m.ID,
			&m.Text,
			&m.CreatedAt,
			&m.UserID,
			&m.Author.ID,
			&m.Author.Username,
			&m.Author.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
