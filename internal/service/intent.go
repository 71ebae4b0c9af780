package service

import (
	"context"

	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/mfiorim/boutique-concierge/internal/llm"
	"github.com/rs/zerolog/log"
)

// Extractor maps one utterance (plus conversation context) onto an intent.
// It never fails: anything that cannot be understood comes back as UNKNOWN.
type Extractor interface {
	Extract(ctx context.Context, utterance string, history []domain.Turn, products []domain.Product) domain.Intent
}

// IntentExtractor runs extraction through a hosted-model provider. One call
// per turn, no retries; provider errors and unparseable output both degrade
// to UNKNOWN so the conversation can ask for clarification instead of dying.
type IntentExtractor struct {
	router   *llm.Router
	provider string
	model    string
}

// NewIntentExtractor creates an extractor backed by the given provider and
// model. Empty strings select the router's default provider and the
// provider's default model.
func NewIntentExtractor(router *llm.Router, provider, model string) *IntentExtractor {
	return &IntentExtractor{router: router, provider: provider, model: model}
}

// Extract implements Extractor.
func (e *IntentExtractor) Extract(ctx context.Context, utterance string, history []domain.Turn, products []domain.Product) domain.Intent {
	provider, err := e.router.GetProvider(e.provider)
	if err != nil {
		log.Warn().Err(err).Msg("no extraction provider available")
		return domain.Unknown()
	}

	resp, err := provider.ExtractIntent(ctx, llm.Request{
		Utterance: utterance,
		History:   history,
		Products:  products,
	}, e.model)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider.Name()).Msg("intent extraction failed")
		return domain.Unknown()
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Str("action", string(resp.Intent.Action)).
		Int("tokens_used", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("intent extracted")

	return resp.Intent
}
