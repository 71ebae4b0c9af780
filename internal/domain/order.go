package domain

import "time"

// OrderStatus tracks an order through its single payment negotiation.
// The transition is monotonic: PENDING moves to APPROVED or DECLINED once
// and never reverts.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderApproved OrderStatus = "APPROVED"
	OrderDeclined OrderStatus = "DECLINED"
)

// Order is a purchase placed through the storefront checkout flow.
type Order struct {
	ID            string      `json:"id"`
	TrackingID    string      `json:"tracking_id,omitempty"`
	ProductID     string      `json:"product_id"`
	ProductName   string      `json:"product_name"`
	Quantity      int         `json:"quantity"`
	TotalUSD      float64     `json:"total_usd"`
	Status        OrderStatus `json:"status"`
	TransactionID string      `json:"transaction_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Settle records the payment outcome on the order. Settling is a one-shot
// operation; once the order left PENDING further calls are ignored.
func (o *Order) Settle(result PaymentResult) {
	if o.Status != OrderPending {
		return
	}
	switch result.Status {
	case PaymentApproved:
		o.Status = OrderApproved
		o.TransactionID = result.TransactionID
	case PaymentDeclined:
		o.Status = OrderDeclined
	}
}
