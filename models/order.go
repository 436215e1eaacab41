package models

import "time"

// Order status constants. Cancellation is only allowed out of
// pending/processing; canceled is terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
)

// Payment status constants. An order moves unpaid -> paid exactly once;
// failed records a declined confirmation without canceling the order.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

// Customer is captured at order creation and never mutated afterwards.
// Email is the sole authorization key for later operations on the order.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// LineItem is one purchased item as submitted by the client.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// PaymentInfo tracks the confirmation channel state for an order.
// CheckoutRequestID correlates an initiated payment with the callback
// that later resolves it.
type PaymentInfo struct {
	Status            string     `json:"status"`
	CheckoutRequestID string     `json:"checkout_request_id,omitempty"`
	ReceiptNumber     string     `json:"receipt_number,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
}

type Order struct {
	ID        string      `json:"id"`
	Items     []LineItem  `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Tax       float64     `json:"tax"`
	Shipping  float64     `json:"shipping"`
	Amount    float64     `json:"amount"`
	Customer  Customer    `json:"customer"`
	Status    string      `json:"status"`
	Payment   PaymentInfo `json:"payment"`
	CreatedAt time.Time   `json:"created_at"`
}

// CanCancel reports whether the order is in a cancelable state.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// OrderEvent is published to Kafka on lifecycle transitions (best-effort).
type OrderEvent struct {
	Event     string    `json:"event"` // e.g. "order.created", "payment.paid"
	OrderID   string    `json:"order_id"`
	Email     string    `json:"email,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
