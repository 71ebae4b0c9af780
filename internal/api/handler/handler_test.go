package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/api/handler"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/mfiorim/boutique-concierge/internal/service"
	"github.com/mfiorim/boutique-concierge/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	intent domain.Intent
}

func (s *stubExtractor) Extract(ctx context.Context, utterance string, history []domain.Turn, products []domain.Product) domain.Intent {
	return s.intent
}

type stubCatalog struct {
	products []domain.Product
	order    *domain.Order
	err      error
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) PlaceOrder(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	return s.order, s.err
}

type stubNegotiator struct {
	result domain.PaymentResult
	err    error
}

func (s *stubNegotiator) Negotiate(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	return s.result, s.err
}

// newTestRouter mirrors the production route layout around a conversation
// service with stubbed backends.
func newTestRouter(extractor service.Extractor, catalog service.Catalog, payments service.PaymentNegotiator) http.Handler {
	conversations := service.NewConversationService(
		session.NewMemoryStore(), extractor, catalog, payments, nil, "USD", "credit_card")

	chatHandler := handler.NewChatHandler(conversations)
	sessionHandler := handler.NewSessionHandler(conversations)
	productHandler := handler.NewProductHandler(conversations)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Post("/chat", chatHandler.Chat)
		r.Get("/products", productHandler.List)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/history", sessionHandler.History)
			r.Delete("/", sessionHandler.Delete)
		})
	})
	return r
}

// Helper to make JSON request
func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

var catalogFixture = []domain.Product{
	{ID: "OLJCESPC7Z", Name: "Sunglasses", PriceUSD: 19.99},
	{ID: "66VCHSJNUP", Name: "Tank Top", PriceUSD: 18.99},
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestChatReturnsReplyAndSessionID(t *testing.T) {
	router := newTestRouter(
		&stubExtractor{intent: domain.Intent{Action: domain.ActionListProducts}},
		&stubCatalog{products: catalogFixture},
		&stubNegotiator{},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
		"message": "what do you sell?",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)

	assert.Contains(t, data["reply"], "Sunglasses")
	sessionID, err := uuid.Parse(data["session_id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sessionID)
}

func TestChatContinuesExistingSession(t *testing.T) {
	router := newTestRouter(
		&stubExtractor{intent: domain.Intent{Action: domain.ActionListProducts}},
		&stubCatalog{products: catalogFixture},
		&stubNegotiator{},
	)

	sessionID := uuid.New().String()
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
			"session_id": sessionID,
			"message":    "what do you sell?",
		}))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	turns := data["turns"].([]any)
	assert.Len(t, turns, 2)
}

func TestChatValidation(t *testing.T) {
	router := newTestRouter(&stubExtractor{}, &stubCatalog{}, &stubNegotiator{})

	tests := []struct {
		name string
		body any
	}{
		{"missing message", map[string]string{}},
		{"bad session id", map[string]string{"session_id": "not-a-uuid", "message": "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(
		&stubExtractor{intent: domain.Intent{Action: domain.ActionListProducts}},
		&stubCatalog{products: catalogFixture},
		&stubNegotiator{},
	)

	sessionID := uuid.New().String()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, makeJSONRequest(http.MethodPost, "/api/v1/chat", map[string]string{
		"session_id": sessionID,
		"message":    "show me the catalog",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+sessionID+"/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHistoryBadID(t *testing.T) {
	router := newTestRouter(&stubExtractor{}, &stubCatalog{}, &stubNegotiator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/garbage/history", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsEndpoint(t *testing.T) {
	router := newTestRouter(&stubExtractor{}, &stubCatalog{products: catalogFixture}, &stubNegotiator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	products := data["products"].([]any)
	assert.Len(t, products, 2)
}

func TestProductsEndpointStorefrontDown(t *testing.T) {
	router := newTestRouter(&stubExtractor{}, &stubCatalog{err: errors.New("connection refused")}, &stubNegotiator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
}
