package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SevenSinz/warbler/internal/auth"
	mw "github.com/SevenSinz/warbler/pkg/middleware"
	"github.com/SevenSinz/warbler/pkg/response"
)

// Handler handles HTTP requests for message operations
type Handler struct {
	service *Service
}

// NewHandler creates a new message handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for message endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Show)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/new", h.NewForm)
		r.Post("/new", h.Create)
		r.Post("/{id}/delete", h.Delete)
		r.Post("/{id}/like", h.Like)
		r.Post("/{id}/unlike", h.Unlike)
	})

	return r
}

// NewForm handles GET /messages/new
// @Summary      New message form
// @Description  Describe the new-message form for the authenticated caller
// @Tags         messages
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Failure      302 {string} string "redirect when anonymous"
// @Router       /messages/new [get]
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, map[string]interface{}{
		"form":     "new-message-form",
		"fields":   []string{"text"},
		"max_text": MaxTextLen,
	}, flashes)
}

// Create handles POST /messages/new
// @Summary      Post a message
// @Description  Create a message owned by the authenticated caller
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request body CreateMessageRequest true "Message creation request"
// @Success      302 {string} string "redirect to the caller's profile"
// @Failure      400 {object} response.APIResponse
// @Router       /messages/new [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := mw.GetUserID(r.Context())

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	_, err := h.service.Create(r.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, ErrEmptyText) || errors.Is(err, ErrTextTooLong) {
			auth.Flash(w, r, err.Error())
			response.Redirect(w, r, "/messages/new")
			return
		}
		response.InternalError(w, "Failed to create message")
		return
	}

	response.Redirect(w, r, fmt.Sprintf("/users/%d", userID))
}

// Show handles GET /messages/{id}
// @Summary      Show a message
// @Description  Get a single message with its author; the delete control is
// @Description  only offered to the owning viewer
// @Tags         messages
// @Produce      json
// @Param        id path int true "Message ID"
// @Success      200 {object} response.APIResponse{data=MessageDetail}
// @Failure      404 {object} response.APIResponse
// @Router       /messages/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	viewerID, _ := mw.GetUserID(r.Context())

	detail, err := h.service.GetForViewer(r.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get message")
		return
	}

	flashes := auth.PopFlashes(w, r)
	response.JSONWithFlashes(w, http.StatusOK, detail, flashes)
}

// Delete handles POST /messages/{id}/delete
// @Summary      Delete a message
// @Description  Delete a message; only its owner may do so
// @Tags         messages
// @Produce      json
// @Param        id path int true "Message ID"
// @Success      302 {string} string "redirect to the caller's profile"
// @Failure      404 {object} response.APIResponse
// @Router       /messages/{id}/delete [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	userID, _ := mw.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrMessageNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotOwner):
			auth.Flash(w, r, "Access unauthorized.")
			response.Redirect(w, r, "/")
		default:
			response.InternalError(w, "Failed to delete message")
		}
		return
	}

	response.Redirect(w, r, fmt.Sprintf("/users/%d", userID))
}

// Like handles POST /messages/{id}/like
// @Summary      Like a message
// @Description  Mark the message as liked by the authenticated caller
// @Tags         messages
// @Produce      json
// @Param        id path int true "Message ID"
// @Success      302 {string} string "redirect to the homepage"
// @Failure      404 {object} response.APIResponse
// @Router       /messages/{id}/like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, true)
}

// Unlike handles POST /messages/{id}/unlike
// @Summary      Unlike a message
// @Description  Remove the caller's like from the message
// @Tags         messages
// @Produce      json
// @Param        id path int true "Message ID"
// @Success      302 {string} string "redirect to the homepage"
// @Failure      404 {object} response.APIResponse
// @Router       /messages/{id}/unlike [post]
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, false)
}

func (h *Handler) setLike(w http.ResponseWriter, r *http.Request, like bool) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	userID, _ := mw.GetUserID(r.Context())

	if like {
		err = h.service.Like(r.Context(), userID, id)
	} else {
		err = h.service.Unlike(r.Context(), userID, id)
	}
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update like")
		return
	}

	response.Redirect(w, r, "/")
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
