package llm

import (
	"context"

	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// Request contains intent-extraction parameters for one turn.
type Request struct {
	Utterance string
	History   []domain.Turn
	Products  []domain.Product
}

// Response contains the extraction result and call metadata.
type Response struct {
	Intent     domain.Intent
	RawOutput  string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for hosted-model providers.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// ExtractIntent maps a free-text utterance onto the closed action set.
	// Transport and API errors are returned as errors; model output that
	// cannot be parsed comes back as an UNKNOWN intent, not an error.
	ExtractIntent(ctx context.Context, req Request, model string) (*Response, error)
}
