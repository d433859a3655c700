package database

import (
	"database/sql"
	"fmt"
)

// schema is the four-table relational layout: users, messages, and the
// two edge tables. Edge rows are keyed by their ordered pair so duplicate
// edges are rejected by the store, and all edges cascade on user delete.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               BIGSERIAL PRIMARY KEY,
	username         TEXT NOT NULL UNIQUE,
	email            TEXT NOT NULL UNIQUE,
	password         TEXT NOT NULL,
	bio              TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	image_url        TEXT NOT NULL DEFAULT '/static/images/default-pic.png',
	header_image_url TEXT NOT NULL DEFAULT '/static/images/warbler-hero.jpg',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id         BIGSERIAL PRIMARY KEY,
	text       VARCHAR(140) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id);

CREATE TABLE IF NOT EXISTS follows (
	follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	followee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (follower_id, followee_id)
);

CREATE INDEX IF NOT EXISTS idx_follows_followee_id ON follows(followee_id);

CREATE TABLE IF NOT EXISTS likes (
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message_id BIGINT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, message_id)
);
`

// ApplySchema creates the tables if they do not exist yet
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
