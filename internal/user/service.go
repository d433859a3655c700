package user

import (
	"context"
	"errors"
	"strings"

	"github.com/SevenSinz/warbler/internal/auth"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrMissingField       = errors.New("username, email and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)

// Store is the persistence surface the user service depends on
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Search(ctx context.Context, q string) ([]*User, error)
	Update(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
	MessageCount(ctx context.Context, id int64) (int, error)
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	ListFollowing(ctx context.Context, id int64) ([]*User, error)
	ListFollowers(ctx context.Context, id int64) ([]*User, error)
}

// Service handles user and follow-graph business logic
type Service struct {
	repo   Store
	hasher *auth.Hasher
}

// NewService creates a new user service with its dependencies injected
func NewService(repo Store, hasher *auth.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Signup creates a new account. Blank image URLs get the defaults, and the
// password is stored only as a bcrypt hash.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		req.Password == "" {
		return nil, ErrMissingField
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	return s.repo.Create(ctx, &User{
		Username:       req.Username,
		Email:          req.Email,
		Password:       hash,
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	})
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords are deliberately indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Check(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Profile retrieves a user together with their message count
func (s *Service) Profile(ctx context.Context, id int64) (*User, int, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.MessageCount(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return u, count, nil
}

// List retrieves users, optionally filtered by a username search query
func (s *Service) List(ctx context.Context, q string) ([]*User, error) {
	return s.repo.Search(ctx, q)
}

// UpdateProfile modifies the caller's own profile
func (s *Service) UpdateProfile(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error) {
	u, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Delete removes the user's account. Messages, follow edges and likes
// cascade away with the row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Follow makes follower follow followee
func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	target, err := s.repo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	return s.repo.Follow(ctx, followerID, followeeID)
}

// Unfollow removes the follow edge if present, a no-op otherwise
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	return s.repo.Unfollow(ctx, followerID, followeeID)
}

// IsFollowing reports whether a follows b
func (s *Service) IsFollowing(ctx context.Context, a, b int64) (bool, error) {
	return s.repo.IsFollowing(ctx, a, b)
}

// IsFollowedBy reports whether b follows a
func (s *Service) IsFollowedBy(ctx context.Context, a, b int64) (bool, error) {
	return s.repo.IsFollowing(ctx, b, a)
}

// Following returns the users the given user follows
func (s *Service) Following(ctx context.Context, id int64) ([]*User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListFollowing(ctx, id)
}

// Followers returns the users following the given user
func (s *Service) Followers(ctx context.Context, id int64) ([]*User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListFollowers(ctx, id)
}
