package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/api/response"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/mfiorim/boutique-concierge/internal/service"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	conversations *service.ConversationService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(conversations *service.ConversationService) *SessionHandler {
	return &SessionHandler{conversations: conversations}
}

// History returns the retained turns for a session.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	turns, err := h.conversations.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// Delete ends a session and discards its state.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	if err := h.conversations.EndSession(r.Context(), sessionID); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}
