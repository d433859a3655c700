package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const userColumns = `id, username, email, password, bio, location, image_url, header_image_url, created_at`

// Repository handles user and follow-edge persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Bio,
		&user.Location,
		&user.ImageURL,
		&user.HeaderImageURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. Uniqueness violations on username or email
// are translated to the matching validation sentinel.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (username, email, password, image_url, header_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.Password, u.ImageURL, u.HeaderImageURL))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch {
			case pqErr.Code == "23505" && pqErr.Constraint == "users_username_key":
				return nil, ErrUsernameTaken
			case pqErr.Code == "23505" && pqErr.Constraint == "users_email_key":
				return nil, ErrEmailTaken
			case pqErr.Code == "23502":
				return nil, ErrMissingField
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by their username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Search retrieves users whose username contains the query string, or all
// users when the query is empty
func (r *Repository) Search(ctx context.Context, q string) ([]*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE $1 = '' OR username ILIKE '%' || $1 || '%'
		ORDER BY username
	`

	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update modifies the user's profile fields, leaving nil fields unchanged
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    bio = COALESCE($4, bio),
		    location = COALESCE($5, location),
		    image_url = COALESCE($6, image_url),
		    header_image_url = COALESCE($7, header_image_url)
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id,
		req.Username, req.Email, req.Bio, req.Location, req.ImageURL, req.HeaderImageURL))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user. Owned messages, follow edges and likes go with
// it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// MessageCount returns the number of messages owned by the user
func (r *Repository) MessageCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// IsFollowing reports whether a follow edge follower -> followee exists
func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		)`, followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// Follow creates a follow edge. A duplicate edge is absorbed; the store's
// primary key arbitrates concurrent writers.
func (r *Repository) Follow(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create follow edge: %w", err)
	}
	return nil
}

// Unfollow deletes a follow edge, a no-op when the edge is absent
func (r *Repository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	return nil
}

// ListFollowing returns the users the given user follows, oldest edge first
func (r *Repository) ListFollowing(ctx context.Context, id int64) ([]*User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password, u.bio, u.location,
		       u.image_url, u.header_image_url, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at
	`
	return r.listEdgeUsers(ctx, query, id)
}

// ListFollowers returns the users following the given user, oldest edge first
func (r *Repository) ListFollowers(ctx context.Context, id int64) ([]*User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password, u.bio, u.location,
		       u.image_url, u.header_image_url, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at
	`
	return r.listEdgeUsers(ctx, query, id)
}

func (r *Repository) listEdgeUsers(ctx context.Context, query string, id int64) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow edges: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
