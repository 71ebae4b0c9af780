package domain

// PaymentStatus is the outcome of a payment negotiation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDeclined PaymentStatus = "DECLINED"
)

// Terminal reports whether the status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentApproved || s == PaymentDeclined
}

// PaymentRequest is the payload sent to the negotiator for one order.
type PaymentRequest struct {
	OrderID  string  `json:"order_id,omitempty"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Method   string  `json:"method,omitempty"`
}

// PaymentResult is the negotiator's answer. Immutable once returned.
type PaymentResult struct {
	TransactionID string        `json:"transaction_id,omitempty"`
	Status        PaymentStatus `json:"status"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Reason        string        `json:"reason,omitempty"`
}
