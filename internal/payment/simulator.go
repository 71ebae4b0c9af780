package payment

import (
	"sync/atomic"

	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// Simulator fabricates transaction records. It is a stand-in for a real
// gateway: any syntactically valid request is approved with a fresh
// transaction id. State is limited to an in-memory counter.
type Simulator struct {
	processed atomic.Int64
}

// NewSimulator creates a new payment simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

// CreateTransaction approves the request and mints a transaction id.
// A non-positive amount is the one thing even a simulator declines.
func (s *Simulator) CreateTransaction(req domain.PaymentRequest) domain.PaymentResult {
	if req.Amount <= 0 {
		return domain.PaymentResult{
			Status:   domain.PaymentDeclined,
			Amount:   req.Amount,
			Currency: req.Currency,
			Reason:   "amount must be positive",
		}
	}

	s.processed.Add(1)
	txnID := "txn_" + ulid.Make().String()

	log.Info().
		Str("transaction_id", txnID).
		Float64("amount", req.Amount).
		Str("currency", req.Currency).
		Int64("processed", s.processed.Load()).
		Msg("transaction approved")

	return domain.PaymentResult{
		TransactionID: txnID,
		Status:        domain.PaymentApproved,
		Amount:        req.Amount,
		Currency:      req.Currency,
	}
}

// Processed returns how many transactions this instance has approved.
func (s *Simulator) Processed() int64 {
	return s.processed.Load()
}
