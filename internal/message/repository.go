package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles message and like-edge persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new message repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanMessage(row interface{ Scan(...interface{}) error }) (*Message, error) {
	m := &Message{Author: &Author{}}
	err := row.Scan(
		&m.ID,
		&m.Text,
		&m.CreatedAt,
		&m.UserID,
		&m.Author.ID,
		&m.Author.Username,
		&m.Author.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new message with the current timestamp
func (r *Repository) Create(ctx context.Context, m *Message) (*Message, error) {
	query := `
		INSERT INTO messages (text, user_id)
		VALUES ($1, $2)
		RETURNING id, text, created_at, user_id
	`

	created := &Message{}
	err := r.db.QueryRowContext(ctx, query, m.Text, m.UserID).Scan(
		&created.ID,
		&created.Text,
		&created.CreatedAt,
		&created.UserID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23503":
				return nil, ErrUserNotFound
			case "23502":
				return nil, ErrEmptyText
			}
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return created, nil
}

// GetByID retrieves a message joined with its author
func (r *Repository) GetByID(ctx context.Context, id int64) (*Message, error) {
	query := `
		SELECT m.id, m.text, m.created_at, m.user_id, u.id, u.username, u.image_url
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return m, nil
}

// Delete removes a message
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// ListByUser returns a user's messages, newest first
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Message, error) {
	query := `
		SELECT m.id, m.text, m.created_at, m.user_id, u.id, u.username, u.image_url
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListLikedBy returns the messages a user has liked, most recent like first
func (r *Repository) ListLikedBy(ctx context.Context, userID int64) ([]*Message, error) {
	query := `
		SELECT m.id, m.text, m.created_at, m.user_id, u.id, u.username, u.image_url
		FROM likes l
		JOIN messages m ON m.id = l.message_id
		JOIN users u ON u.id = m.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, arg int64) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Like creates a like edge. A duplicate edge is absorbed; the primary key
// arbitrates concurrent writers.
func (r *Repository) Like(ctx context.Context, userID, messageID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, message_id) DO NOTHING`,
		userID, messageID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to create like edge: %w", err)
	}
	return nil
}

// Unlike deletes a like edge, a no-op when the edge is absent
func (r *Repository) Unlike(ctx context.Context, userID, messageID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND message_id = $2`,
		userID, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete like edge: %w", err)
	}
	return nil
}

// IsLiked reports whether a like edge (user, message) exists
func (r *Repository) IsLiked(ctx context.Context, userID, messageID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE user_id = $1 AND message_id = $2
		)`, userID, messageID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like edge: %w", err)
	}
	return exists, nil
}
