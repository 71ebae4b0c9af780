package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mfiorim/boutique-concierge/internal/api/handler"
	customMiddleware "github.com/mfiorim/boutique-concierge/internal/api/middleware"
	"github.com/mfiorim/boutique-concierge/internal/config"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/mfiorim/boutique-concierge/internal/llm"
	"github.com/mfiorim/boutique-concierge/internal/llm/gemini"
	"github.com/mfiorim/boutique-concierge/internal/llm/openai"
	"github.com/mfiorim/boutique-concierge/internal/payment"
	"github.com/mfiorim/boutique-concierge/internal/repository/redis"
	"github.com/mfiorim/boutique-concierge/internal/service"
	"github.com/mfiorim/boutique-concierge/internal/session"
	"github.com/mfiorim/boutique-concierge/internal/storefront"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil;
// the server then runs with in-memory sessions, no catalog cache and no
// rate limiting.
func NewRouter(cfg *config.Config, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Backends
	catalog := storefront.NewClient(cfg.Storefront)
	negotiator := payment.NewNegotiatorClient(cfg.Payment.NegotiatorURL, cfg.Payment.Timeout)

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing extraction providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}

	// Session storage and the optional Redis-backed extras
	var (
		sessions     domain.SessionStore
		listingCache service.ListingCache
	)
	if redisClient != nil {
		sessions = redis.NewSessionStore(redisClient)
		listingCache = redis.NewCatalogCache(redisClient, cfg.Storefront.CacheTTL)
	} else {
		sessions = session.NewMemoryStore()
	}

	// Initialize services
	extractor := service.NewIntentExtractor(llmRouter, cfg.LLM.DefaultProvider, "")
	conversations := service.NewConversationService(
		sessions,
		extractor,
		catalog,
		negotiator,
		listingCache,
		cfg.Payment.Currency,
		cfg.Payment.Method,
	)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(conversations)
	sessionHandler := handler.NewSessionHandler(conversations)
	productHandler := handler.NewProductHandler(conversations)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(catalog))
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		r.Group(func(r chi.Router) {
			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.Security.RateLimit.RequestsPerMinute,
					cfg.Security.RateLimit.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Post("/chat", chatHandler.Chat)
			r.Get("/products", productHandler.List)

			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Get("/history", sessionHandler.History)
				r.Delete("/", sessionHandler.Delete)
			})
		})
	})

	return r
}
