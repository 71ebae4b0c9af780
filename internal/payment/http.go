package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// The service pair speaks plain JSON between processes: PaymentRequest in,
// PaymentResult out, standard status codes only.

// NewSimulatorHandler builds the HTTP surface of the payment simulator.
func NewSimulatorHandler(sim *Simulator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Post("/api/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, sim.CreateTransaction(req))
	})

	return r
}

// NewNegotiatorHandler builds the HTTP surface of the payment negotiator.
func NewNegotiatorHandler(negotiator *Negotiator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Post("/api/v1/negotiate", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		result, err := negotiator.Negotiate(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
