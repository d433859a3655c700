package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SevenSinz/warbler/internal/auth"
	"github.com/SevenSinz/warbler/internal/message"
	mw "github.com/SevenSinz/warbler/pkg/middleware"
	"github.com/SevenSinz/warbler/pkg/response"
)

// MessageLister is the slice of the message service the user pages need
type MessageLister interface {
	ListByUser(ctx context.Context, userID int64) ([]*message.Message, error)
	ListLikedBy(ctx context.Context, userID int64) ([]*message.Message, error)
}

// Handler handles HTTP requests for user, follow-graph and session operations
type Handler struct {
	service  *Service
	messages MessageLister
	sessions *auth.SessionManager
}

// NewHandler creates a new user handler with its dependencies injected
func NewHandler(service *Service, messages MessageLister, sessions *auth.SessionManager) *Handler {
	return &Handler{service: service, messages: messages, sessions: sessions}
}

// Routes returns the router for user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/following", h.Following)
	r.Get("/{id}/followers", h.Followers)
	r.Get("/{id}/likes", h.Likes)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/follow/{id}", h.Follow)
		r.Post("/stop-following/{id}", h.Unfollow)
		r.Get("/profile", h.ProfileForm)
		r.Post("/profile", h.UpdateProfile)
		r.Post("/delete", h.DeleteAccount)
	})

	return r
}

// ---- Session routes (mounted at the root) ----

// SignupForm handles GET /signup
// @Summary      Signup form
// @Description  Describe the signup form
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /signup [get]
func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, map[string]interface{}{
		"form":   "signup-form",
		"fields": []string{"username", "email", "password", "image_url"},
	}, flashes)
}

// Signup handles POST /signup
// @Summary      Create an account
// @Description  Create a user and establish a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      302 {string} string "redirect to the homepage"
// @Failure      400 {object} response.APIResponse
// @Router       /signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken),
			errors.Is(err, ErrEmailTaken),
			errors.Is(err, ErrMissingField):
			auth.Flash(w, r, err.Error())
			response.Redirect(w, r, "/signup")
		default:
			response.InternalError(w, "Failed to create user")
		}
		return
	}

	h.sessions.Login(w, u.ID)
	response.Redirect(w, r, "/")
}

// LoginForm handles GET /login
// @Summary      Login form
// @Description  Describe the login form
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /login [get]
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, map[string]interface{}{
		"form":   "login-form",
		"fields": []string{"username", "password"},
	}, flashes)
}

// Login handles POST /login
// @Summary      Authenticate
// @Description  Verify credentials and establish a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      302 {string} string "redirect to the homepage"
// @Failure      400 {object} response.APIResponse
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			auth.Flash(w, r, "Invalid credentials.")
			response.Redirect(w, r, "/login")
			return
		}
		response.InternalError(w, "Failed to authenticate")
		return
	}

	h.sessions.Login(w, u.ID)
	auth.Flash(w, r, fmt.Sprintf("Hello, %s!", u.Username))
	response.Redirect(w, r, "/")
}

// Logout handles GET /logout
// @Summary      Log out
// @Description  Destroy the caller's session
// @Tags         auth
// @Produce      json
// @Success      302 {string} string "redirect to the login page"
// @Router       /logout [get]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w, r)
	auth.Flash(w, r, "You have successfully logged out.")
	response.Redirect(w, r, "/login")
}

// ---- User routes ----

// List handles GET /users
// @Summary      List or search users
// @Description  List all users, or those whose username matches ?q=
// @Tags         users
// @Produce      json
// @Param        q query string false "Username search query"
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	response.JSON(w, http.StatusOK, toUserResponses(users))
}

// Show handles GET /users/{id}
// @Summary      Show a profile
// @Description  Get a user's profile, message count and messages
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, count, err := h.service.Profile(r.Context(), id)
	if err != nil {
		h.renderUserError(w, err)
		return
	}

	messages, err := h.messages.ListByUser(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to list messages")
		return
	}

	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, &ProfileResponse{
		User:         u.ToResponse(),
		MessageCount: count,
		Messages:     message.ToResponses(messages),
	}, flashes)
}

// Following handles GET /users/{id}/following
// @Summary      List followees
// @Description  List the users this user follows
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/following [get]
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.service.Following)
}

// Followers handles GET /users/{id}/followers
// @Summary      List followers
// @Description  List the users following this user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/followers [get]
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listEdge(w, r, h.service.Followers)
}

func (h *Handler) listEdge(w http.ResponseWriter, r *http.Request,
	list func(context.Context, int64) ([]*User, error)) {

	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	users, err := list(r.Context(), id)
	if err != nil {
		h.renderUserError(w, err)
		return
	}

	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, toUserResponses(users), flashes)
}

// Likes handles GET /users/{id}/likes
// @Summary      List liked messages
// @Description  List the messages this user has liked
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]message.MessageResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/likes [get]
func (h *Handler) Likes(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if _, err := h.service.GetByID(r.Context(), id); err != nil {
		h.renderUserError(w, err)
		return
	}

	liked, err := h.messages.ListLikedBy(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to list liked messages")
		return
	}

	response.JSON(w, http.StatusOK, message.ToResponses(liked))
}

// Follow handles POST /users/follow/{id}
// @Summary      Follow a user
// @Description  Make the authenticated caller follow the target user
// @Tags         users
// @Produce      json
// @Param        id path int true "Target user ID"
// @Success      302 {string} string "redirect to the caller's following list"
// @Failure      404 {object} response.APIResponse
// @Router       /users/follow/{id} [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, h.service.Follow)
}

// Unfollow handles POST /users/stop-following/{id}
// @Summary      Unfollow a user
// @Description  Remove the caller's follow edge to the target user
// @Tags         users
// @Produce      json
// @Param        id path int true "Target user ID"
// @Success      302 {string} string "redirect to the caller's following list"
// @Failure      404 {object} response.APIResponse
// @Router       /users/stop-following/{id} [post]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, h.service.Unfollow)
}

func (h *Handler) setFollow(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, followerID, followeeID int64) error) {

	targetID, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID, _ := mw.GetUserID(r.Context())

	if err := action(r.Context(), userID, targetID); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSelfFollow):
			auth.Flash(w, r, err.Error())
			response.Redirect(w, r, fmt.Sprintf("/users/%d", userID))
		default:
			response.InternalError(w, "Failed to update follow edge")
		}
		return
	}

	response.Redirect(w, r, fmt.Sprintf("/users/%d/following", userID))
}

// ProfileForm handles GET /users/profile
// @Summary      Own profile
// @Description  Get the authenticated caller's own profile
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      302 {string} string "redirect when anonymous"
// @Router       /users/profile [get]
func (h *Handler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := mw.GetUserID(r.Context())

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		h.renderUserError(w, err)
		return
	}

	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, u.ToResponse(), flashes)
}

// UpdateProfile handles POST /users/profile
// @Summary      Update own profile
// @Description  Edit the authenticated caller's profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile update request"
// @Success      302 {string} string "redirect to the caller's profile"
// @Failure      400 {object} response.APIResponse
// @Router       /users/profile [post]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := mw.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if _, err := h.service.UpdateProfile(r.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
			auth.Flash(w, r, err.Error())
			response.Redirect(w, r, "/users/profile")
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to update profile")
		}
		return
	}

	response.Redirect(w, r, fmt.Sprintf("/users/%d", userID))
}

// DeleteAccount handles POST /users/delete
// @Summary      Delete own account
// @Description  Delete the caller's account; messages, follow edges and
// @Description  likes cascade away
// @Tags         users
// @Produce      json
// @Success      302 {string} string "redirect to the signup page"
// @Router       /users/delete [post]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := mw.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), userID); err != nil {
		response.InternalError(w, "Failed to delete account")
		return
	}

	h.sessions.Revoke(userID)
	h.sessions.Logout(w, r)
	auth.Flash(w, r, "Account deleted.")
	response.Redirect(w, r, "/signup")
}

func (h *Handler) renderUserError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalError(w, "Failed to get user")
}

func toUserResponses(users []*User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
