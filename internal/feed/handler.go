package feed

import (
	"net/http"

	"github.com/SevenSinz/warbler/internal/auth"
	"github.com/SevenSinz/warbler/internal/message"
	mw "github.com/SevenSinz/warbler/pkg/middleware"
	"github.com/SevenSinz/warbler/pkg/response"
)

// Handler handles the homepage
type Handler struct {
	service *Service
}

// NewHandler creates a new feed handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HomeResponse is the homepage body: the feed for authenticated callers,
// empty for anonymous ones
type HomeResponse struct {
	Anonymous bool                       `json:"anonymous"`
	Messages  []*message.MessageResponse `json:"messages"`
}

// Home handles GET /
// @Summary      Homepage
// @Description  Anonymous callers get an empty feed; authenticated callers
// @Description  get the 100 most recent messages of their followees and self
// @Tags         feed
// @Produce      json
// @Success      200 {object} response.APIResponse{data=HomeResponse}
// @Router       / [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	flashes := auth.PopFlashes(w, r)

	userID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.JSONWithFlashes(w, http.StatusOK, &HomeResponse{
			Anonymous: true,
			Messages:  []*message.MessageResponse{},
		}, flashes)
		return
	}

	messages, err := h.service.Home(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to assemble feed")
		return
	}

	response.JSONWithFlashes(w, http.StatusOK, &HomeResponse{
		Messages: message.ToResponses(messages),
	}, flashes)
}
