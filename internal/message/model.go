package message

import "time"

// MaxTextLen bounds the length of a message body
const MaxTextLen = 140

// Message represents a short text post owned by exactly one user
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`

	// Author is populated on reads that join the users table
	Author *Author `json:"author,omitempty"`
}

// Author is the slice of the owning user shown alongside a message
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}
