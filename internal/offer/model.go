package offer

import "time"

// Offer is an in-progress sales quotation (a cart). Subtotal, Total and
// every LineTotal are derived by Recalculate and never edited directly.
type Offer struct {
	ID        string     `json:"id"`
	Currency  string     `json:"currency,omitempty"`
	Items     []LineItem `json:"items"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
	Subtotal  float64    `json:"subtotal"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

type LineItem struct {
	ProductID  string  `json:"productId"`
	PriceID    string  `json:"priceId"`
	Quantity   int     `json:"quantity"`
	UnitAmount float64 `json:"unitAmount"`
	LineTotal  float64 `json:"lineTotal"`
}

// Modifier kinds.
const (
	KindPercentage = "percentage"
	KindFixed      = "fixed"
)

// Modifier is a discount applied to the whole offer, usually from a coupon.
type Modifier struct {
	TypeID string  `json:"modifierTypeId,omitempty"`
	Code   string  `json:"code,omitempty"`
	Kind   string  `json:"kind"`
	Value  float64 `json:"value"`
	Amount float64 `json:"amount"`
}
