package domain

import "time"

// PaymentMethod enumerates the payment rails the backend understands.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card" // bank card
	PaymentMethodSBP  PaymentMethod = "sbp"  // fast payment system
	PaymentMethodTON  PaymentMethod = "ton"
	PaymentMethodUSDT PaymentMethod = "usdt"
)

// Valid reports whether m is one of the supported payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodSBP, PaymentMethodTON, PaymentMethodUSDT:
		return true
	}
	return false
}

// RequiresRedirect reports whether a successful order with this method sends
// the buyer to an external payment page when the backend returned one.
func (m PaymentMethod) RequiresRedirect() bool {
	return m == PaymentMethodCard || m == PaymentMethodSBP
}

// OrderStatus mirrors the backend order lifecycle. The storefront never
// transitions orders itself; it only displays the state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// OrderItem is one entry of a bulk order-creation request.
type OrderItem struct {
	GameID        int           `json:"game_id"`
	ProductID     int           `json:"product_id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Comment       string        `json:"comment,omitempty"`
}

// Order is an order as returned by the backend.
type Order struct {
	ID            int           `json:"id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	PaymentURL    string        `json:"payment_url,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
