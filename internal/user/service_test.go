package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/SevenSinz/warbler/internal/auth"
)

func newTestService() (*Service, *MockStore) {
	repo := NewMock()
	return NewService(repo, auth.NewHasher(bcrypt.MinCost)), repo
}

func signupHelper(t *testing.T, s *Service, username, email string) *User {
	t.Helper()
	u, err := s.Signup(context.Background(), &SignupRequest{
		Username: username,
		Email:    email,
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", username, err)
	}
	return u
}

// valid signup followed by authenticate with the same credentials
func TestSignupThenAuthenticate(t *testing.T) {
	s, _ := newTestService()

	created := signupHelper(t, s, "uname", "email@email.com")

	got, err := s.Authenticate(context.Background(), "uname", "123456")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %d, got %d", created.ID, got.ID)
	}
	if got.Password == "123456" {
		t.Error("password stored in plaintext")
	}
}

// unknown username and wrong password fail with the same sentinel
func TestAuthenticateFailure(t *testing.T) {
	s, _ := newTestService()
	signupHelper(t, s, "uname", "email@email.com")

	_, badUser := s.Authenticate(context.Background(), "wrong_username", "123456")
	_, badPass := s.Authenticate(context.Background(), "uname", "WRONG_PASSWORD")

	if !errors.Is(badUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", badUser)
	}
	if !errors.Is(badPass, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", badPass)
	}
}

// blank image URL gets the default, a supplied one is kept
func TestSignupImageDefaults(t *testing.T) {
	s, _ := newTestService()

	plain := signupHelper(t, s, "uname", "email@email.com")
	if plain.ImageURL != DefaultImageURL {
		t.Errorf("expected default image %q, got %q", DefaultImageURL, plain.ImageURL)
	}
	if plain.HeaderImageURL != DefaultHeaderImageURL {
		t.Errorf("expected default header %q, got %q", DefaultHeaderImageURL, plain.HeaderImageURL)
	}

	custom, err := s.Signup(context.Background(), &SignupRequest{
		Username: "uname2",
		Email:    "email2@email.com",
		Password: "123456",
		ImageURL: "/static/images/image.png",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if custom.ImageURL != "/static/images/image.png" {
		t.Errorf("expected supplied image to be kept, got %q", custom.ImageURL)
	}
}

func TestSignupValidation(t *testing.T) {
	s, _ := newTestService()
	signupHelper(t, s, "uname", "email@email.com")

	tests := []struct {
		name    string
		req     *SignupRequest
		wantErr error
	}{
		{
			name:    "duplicate username",
			req:     &SignupRequest{Username: "uname", Email: "other@email.com", Password: "123456"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "duplicate email",
			req:     &SignupRequest{Username: "uname2", Email: "email@email.com", Password: "123456"},
			wantErr: ErrEmailTaken,
		},
		{
			name:    "missing email",
			req:     &SignupRequest{Username: "uname3", Password: "123456"},
			wantErr: ErrMissingField,
		},
		{
			name:    "missing password",
			req:     &SignupRequest{Username: "uname4", Email: "four@email.com"},
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Signup(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// following is directed: is_following and is_followed_by are independent
func TestFollowDirection(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	u1 := signupHelper(t, s, "testuser1", "test1@test.com")
	u2 := signupHelper(t, s, "testuser2", "test2@test.com")

	if got, _ := s.IsFollowing(ctx, u1.ID, u2.ID); got {
		t.Error("expected u1 not following u2 before any edge exists")
	}

	if err := s.Follow(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	if got, _ := s.IsFollowing(ctx, u1.ID, u2.ID); !got {
		t.Error("expected u1 following u2 after edge u1->u2")
	}
	if got, _ := s.IsFollowedBy(ctx, u1.ID, u2.ID); got {
		t.Error("edge u1->u2 must not make u1 followed by u2")
	}
	if got, _ := s.IsFollowedBy(ctx, u2.ID, u1.ID); !got {
		t.Error("expected u2 followed by u1 after edge u1->u2")
	}
	if got, _ := s.IsFollowing(ctx, u2.ID, u1.ID); got {
		t.Error("following is not symmetric")
	}
}

func TestFollowEdgeCases(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	u1 := signupHelper(t, s, "testuser1", "test1@test.com")
	u2 := signupHelper(t, s, "testuser2", "test2@test.com")

	if err := s.Follow(ctx, u1.ID, u1.ID); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("self-follow: expected ErrSelfFollow, got %v", err)
	}
	if err := s.Follow(ctx, u1.ID, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown followee: expected ErrUserNotFound, got %v", err)
	}

	// duplicate edge is absorbed
	if err := s.Follow(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := s.Follow(ctx, u1.ID, u2.ID); err != nil {
		t.Errorf("duplicate follow should be absorbed, got %v", err)
	}
	following, err := s.Following(ctx, u1.ID)
	if err != nil {
		t.Fatalf("Following failed: %v", err)
	}
	if len(following) != 1 {
		t.Errorf("expected 1 followee, got %d", len(following))
	}

	// unfollow of an absent edge is a no-op
	if err := s.Unfollow(ctx, u2.ID, u1.ID); err != nil {
		t.Errorf("unfollow of absent edge should be a no-op, got %v", err)
	}

	if err := s.Unfollow(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if got, _ := s.IsFollowing(ctx, u1.ID, u2.ID); got {
		t.Error("expected edge gone after unfollow")
	}
}

func TestFollowerListsOrdered(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	u1 := signupHelper(t, s, "testuser1", "test1@test.com")
	u2 := signupHelper(t, s, "testuser2", "test2@test.com")
	u3 := signupHelper(t, s, "testuser3", "test3@test.com")

	if err := s.Follow(ctx, u2.ID, u1.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := s.Follow(ctx, u3.ID, u1.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	followers, err := s.Followers(ctx, u1.ID)
	if err != nil {
		t.Fatalf("Followers failed: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(followers))
	}
	if followers[0].ID != u2.ID || followers[1].ID != u3.ID {
		t.Errorf("expected followers in edge insertion order, got [%d %d]",
			followers[0].ID, followers[1].ID)
	}

	if _, err := s.Followers(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}
