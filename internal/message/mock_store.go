package message

import (
	"context"
	"sync"
	"time"
)

type likeEdge struct {
	userID    int64
	messageID int64
	createdAt time.Time
}

// MockStore simulates the Postgres repository for testing. Authors, when
// registered, are joined onto reads the way the SQL queries do.
type MockStore struct {
	mu       sync.Mutex
	nextID   int64
	order    []int64 // insertion order of message IDs
	Messages map[int64]*Message
	Authors  map[int64]*Author
	likes    []likeEdge

	ShouldFail error // when set, every call fails with this error
}

// NewMock initializes a new mock message store
func NewMock() *MockStore {
	return &MockStore{
		Messages: make(map[int64]*Message),
		Authors:  make(map[int64]*Author),
	}
}

// RegisterAuthor makes user rows visible to the mock's joins
func (m *MockStore) RegisterAuthor(id int64, username, imageURL string) {
	m.mu.Lock()
	m.Authors[id] = &Author{ID: id, Username: username, ImageURL: imageURL}
	m.mu.Unlock()
}

func (m *MockStore) withAuthor(msg *Message) *Message {
	copied := *msg
	if a, ok := m.Authors[msg.UserID]; ok {
		author := *a
		copied.Author = &author
	}
	return &copied
}

func (m *MockStore) Create(ctx context.Context, msg *Message) (*Message, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	created := *msg
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	m.Messages[created.ID] = &created
	m.order = append(m.order, created.ID)

	copied := created
	return &copied, nil
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*Message, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.Messages[id]
	if !ok {
		return nil, nil
	}
	return m.withAuthor(msg), nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Messages[id]; !ok {
		return ErrMessageNotFound
	}
	m.removeLocked(id)
	return nil
}

func (m *MockStore) removeLocked(id int64) {
	delete(m.Messages, id)
	for i, mid := range m.order {
		if mid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	kept := m.likes[:0]
	for _, l := range m.likes {
		if l.messageID != id {
			kept = append(kept, l)
		}
	}
	m.likes = kept
}

// DeleteByUser emulates ON DELETE CASCADE when a user row goes away:
// their messages and their like edges disappear
func (m *MockStore) DeleteByUser(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range append([]int64(nil), m.order...) {
		if msg, ok := m.Messages[id]; ok && msg.UserID == userID {
			m.removeLocked(id)
		}
	}
	kept := m.likes[:0]
	for _, l := range m.likes {
		if l.userID != userID {
			kept = append(kept, l)
		}
	}
	m.likes = kept
	delete(m.Authors, userID)
}

// CountByUser returns how many messages the user owns
func (m *MockStore) CountByUser(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, msg := range m.Messages {
		if msg.UserID == userID {
			count++
		}
	}
	return count
}

func (m *MockStore) ListByUser(ctx context.Context, userID int64) ([]*Message, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []*Message
	for i := len(m.order) - 1; i >= 0; i-- {
		if msg := m.Messages[m.order[i]]; msg != nil && msg.UserID == userID {
			messages = append(messages, m.withAuthor(msg))
		}
	}
	return messages, nil
}

func (m *MockStore) ListLikedBy(ctx context.Context, userID int64) ([]*Message, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []*Message
	for i := len(m.likes) - 1; i >= 0; i-- {
		if m.likes[i].userID == userID {
			if msg := m.Messages[m.likes[i].messageID]; msg != nil {
				messages = append(messages, m.withAuthor(msg))
			}
		}
	}
	return messages, nil
}

func (m *MockStore) Like(ctx context.Context, userID, messageID int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Messages[messageID]; !ok {
		return ErrMessageNotFound
	}
	for _, l := range m.likes {
		if l.userID == userID && l.messageID == messageID {
			return nil // duplicate edge absorbed, like ON CONFLICT DO NOTHING
		}
	}
	m.likes = append(m.likes, likeEdge{userID, messageID, time.Now()})
	return nil
}

func (m *MockStore) Unlike(ctx context.Context, userID, messageID int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.likes {
		if l.userID == userID && l.messageID == messageID {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStore) IsLiked(ctx context.Context, userID, messageID int64) (bool, error) {
	if m.ShouldFail != nil {
		return false, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.likes {
		if l.userID == userID && l.messageID == messageID {
			return true, nil
		}
	}
	return false, nil
}
