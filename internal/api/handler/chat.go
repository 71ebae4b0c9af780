package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/api/response"
	"github.com/mfiorim/boutique-concierge/internal/service"
)

var validate = validator.New()

// ChatRequest is one conversation turn from the client. SessionID is
// optional; omitting it starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	Message   string `json:"message" validate:"required,max=2000"`
}

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	conversations *service.ConversationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversations *service.ConversationService) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

// Chat processes one utterance and returns the assistant's reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sessionID := uuid.New()
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			response.BadRequest(w, "invalid session ID")
			return
		}
		sessionID = parsed
	}

	result := h.conversations.HandleTurn(r.Context(), sessionID, req.Message)
	response.OK(w, result)
}
