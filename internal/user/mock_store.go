package user

import (
	"context"
	"strings"
	"sync"
	"time"
)

type followEdge struct {
	followerID int64
	followeeID int64
	createdAt  time.Time
}

// MockStore simulates the Postgres repository for testing, enforcing the
// same uniqueness and not-null rules the schema does.
type MockStore struct {
	mu      sync.Mutex
	nextID  int64
	Users   map[int64]*User
	follows []followEdge

	// CountMessages, when set, answers MessageCount; the messages
	// themselves live in the message package's mock.
	CountMessages func(userID int64) int

	// OnDelete, when set, emulates ON DELETE CASCADE into other tables
	OnDelete func(userID int64)

	ShouldFail error // when set, every call fails with this error
}

// NewMock initializes a new mock user store
func NewMock() *MockStore {
	return &MockStore{Users: make(map[int64]*User)}
}

func (m *MockStore) Create(ctx context.Context, u *User) (*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.Username == "" || u.Email == "" || u.Password == "" {
		return nil, ErrMissingField
	}
	for _, existing := range m.Users {
		if existing.Username == u.Username {
			return nil, ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}

	m.nextID++
	created := *u
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	m.Users[created.ID] = &created

	copied := created
	return &copied, nil
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *MockStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockStore) Search(ctx context.Context, q string) ([]*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []*User
	for _, u := range m.Users {
		if q == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			copied := *u
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (m *MockStore) Update(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	if req.Username != nil {
		for otherID, other := range m.Users {
			if otherID != id && other.Username == *req.Username {
				return nil, ErrUsernameTaken
			}
		}
		u.Username = *req.Username
	}
	if req.Email != nil {
		for otherID, other := range m.Users {
			if otherID != id && other.Email == *req.Email {
				return nil, ErrEmailTaken
			}
		}
		u.Email = *req.Email
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.ImageURL != nil {
		u.ImageURL = *req.ImageURL
	}
	if req.HeaderImageURL != nil {
		u.HeaderImageURL = *req.HeaderImageURL
	}

	copied := *u
	return &copied, nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()

	if _, ok := m.Users[id]; !ok {
		m.mu.Unlock()
		return ErrUserNotFound
	}
	delete(m.Users, id)

	// follow edges cascade with the user row
	kept := m.follows[:0]
	for _, e := range m.follows {
		if e.followerID != id && e.followeeID != id {
			kept = append(kept, e)
		}
	}
	m.follows = kept
	m.mu.Unlock()

	if m.OnDelete != nil {
		m.OnDelete(id)
	}
	return nil
}

func (m *MockStore) MessageCount(ctx context.Context, id int64) (int, error) {
	if m.ShouldFail != nil {
		return 0, m.ShouldFail
	}
	if m.CountMessages == nil {
		return 0, nil
	}
	return m.CountMessages(id), nil
}

func (m *MockStore) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.ShouldFail != nil {
		return false, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.follows {
		if e.followerID == followerID && e.followeeID == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStore) Follow(ctx context.Context, followerID, followeeID int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[followeeID]; !ok {
		return ErrUserNotFound
	}
	for _, e := range m.follows {
		if e.followerID == followerID && e.followeeID == followeeID {
			return nil // duplicate edge absorbed, like ON CONFLICT DO NOTHING
		}
	}
	m.follows = append(m.follows, followEdge{followerID, followeeID, time.Now()})
	return nil
}

func (m *MockStore) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if m.ShouldFail != nil {
		return m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.follows {
		if e.followerID == followerID && e.followeeID == followeeID {
			m.follows = append(m.follows[:i], m.follows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStore) ListFollowing(ctx context.Context, id int64) ([]*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []*User
	for _, e := range m.follows {
		if e.followerID == id {
			if u, ok := m.Users[e.followeeID]; ok {
				copied := *u
				users = append(users, &copied)
			}
		}
	}
	return users, nil
}

func (m *MockStore) ListFollowers(ctx context.Context, id int64) ([]*User, error) {
	if m.ShouldFail != nil {
		return nil, m.ShouldFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []*User
	for _, e := range m.follows {
		if e.followeeID == id {
			if u, ok := m.Users[e.followerID]; ok {
				copied := *u
				users = append(users, &copied)
			}
		}
	}
	return users, nil
}
