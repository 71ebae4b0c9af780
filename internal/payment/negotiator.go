package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// TransactionCreator is the simulator seen from the negotiator: in-process
// for tests, HTTP for the deployed service pair.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}

// Negotiator validates payment requests and forwards well-formed ones to the
// simulator. Malformed requests are declined locally; the simulator is never
// contacted for them.
type Negotiator struct {
	sim             TransactionCreator
	defaultCurrency string
	defaultMethod   string
}

// NewNegotiator creates a new payment negotiator
func NewNegotiator(sim TransactionCreator, defaultCurrency, defaultMethod string) *Negotiator {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	if defaultMethod == "" {
		defaultMethod = "credit_card"
	}
	return &Negotiator{
		sim:             sim,
		defaultCurrency: defaultCurrency,
		defaultMethod:   defaultMethod,
	}
}

// Negotiate validates the request and returns a normalized result. Validation
// failures come back as DECLINED results, not errors; an error means the
// simulator itself was unreachable.
func (n *Negotiator) Negotiate(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = n.defaultCurrency
	}
	if req.Method == "" {
		req.Method = n.defaultMethod
	}

	if reason := validateRequest(req); reason != "" {
		log.Warn().
			Str("order_id", req.OrderID).
			Float64("amount", req.Amount).
			Str("reason", reason).
			Msg("payment declined before simulator call")
		return domain.PaymentResult{
			Status:   domain.PaymentDeclined,
			Amount:   req.Amount,
			Currency: req.Currency,
			Reason:   reason,
		}, nil
	}

	result, err := n.sim.CreateTransaction(ctx, req)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("payment simulator call failed: %w", err)
	}

	// Normalize: anything that is not an approval with a transaction id is a decline.
	if result.Status != domain.PaymentApproved || result.TransactionID == "" {
		result.Status = domain.PaymentDeclined
		if result.Reason == "" {
			result.Reason = "simulator did not approve the transaction"
		}
	}

	return result, nil
}

// validateRequest runs the struct tags on PaymentRequest and maps the first
// field error to a decline reason.
func validateRequest(req domain.PaymentRequest) string {
	err := validate.Struct(req)
	if err == nil {
		return ""
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		switch fieldErrors[0].Field() {
		case "Amount":
			return "amount must be positive"
		case "Currency":
			return "currency must be a 3-letter code"
		}
	}
	return "invalid payment request"
}
