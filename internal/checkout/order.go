package checkout

import "github.com/shopspring/decimal"

// OrderCustomer is the contact recorded on the paid session.
type OrderCustomer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// OrderItem is one purchased line as priced at payment time.
type OrderItem struct {
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderPricing is the paid breakdown. Tax is derived from the recorded
// total rather than re-computed, since the processor's total is
// authoritative after payment.
type OrderPricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// OrderDetails is the post-payment view reconstructed from the processor's
// session record. It is never persisted locally.
type OrderDetails struct {
	OrderNumber    string        `json:"order_number"`
	SessionID      string        `json:"session_id"`
	Customer       OrderCustomer `json:"customer"`
	Items          []OrderItem   `json:"items"`
	Pricing        OrderPricing  `json:"pricing"`
	ShippingMethod string        `json:"shipping_method"`
}
