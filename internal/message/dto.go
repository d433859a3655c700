package message

// CreateMessageRequest represents the request body for posting a message
type CreateMessageRequest struct {
	Text string `json:"text" validate:"required,max=140"`
}

// MessageResponse represents the response for a single message
type MessageResponse struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
	UserID    int64   `json:"user_id"`
	Author    *Author `json:"author,omitempty"`
}

// MessageDetail is the single-message page: the body plus what the
// current viewer may do with it
type MessageDetail struct {
	MessageResponse
	Liked     bool `json:"liked"`
	CanDelete bool `json:"can_delete"`
}

// ToResponse converts a Message model to a MessageResponse DTO
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UserID:    m.UserID,
		Author:    m.Author,
	}
}

// ToResponses converts a slice of messages to response DTOs, never nil
func ToResponses(messages []*Message) []*MessageResponse {
	out := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = m.ToResponse()
	}
	return out
}
