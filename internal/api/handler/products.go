package handler

import (
	"net/http"

	"github.com/mfiorim/boutique-concierge/internal/api/response"
	"github.com/mfiorim/boutique-concierge/internal/service"
)

// ProductHandler exposes the storefront catalog snapshot.
type ProductHandler struct {
	conversations *service.ConversationService
}

// NewProductHandler creates a new product handler
func NewProductHandler(conversations *service.ConversationService) *ProductHandler {
	return &ProductHandler{conversations: conversations}
}

// List returns the current catalog listing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.conversations.Listing(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, "storefront unavailable")
		return
	}

	response.OK(w, listing)
}
