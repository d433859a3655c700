package user

import "github.com/SevenSinz/warbler/internal/message"

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	ImageURL string `json:"image_url,omitempty"`
}

// LoginRequest represents the request body for authenticating
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the request body for editing the
// caller's own profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username       *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Bio            *string `json:"bio,omitempty"`
	Location       *string `json:"location,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	HeaderImageURL *string `json:"header_image_url,omitempty"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	CreatedAt      string `json:"created_at"`
}

// ProfileResponse is the user page: the profile, how many messages the
// user owns, and the messages themselves, newest first
type ProfileResponse struct {
	User         *UserResponse              `json:"user"`
	MessageCount int                        `json:"message_count"`
	Messages     []*message.MessageResponse `json:"messages"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		Location:       u.Location,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		CreatedAt:      u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
