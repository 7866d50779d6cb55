package cart

import "github.com/shopspring/decimal"

const (
	// MaxQtyPerItem bounds the quantity of a single line item.
	MaxQtyPerItem = 10
	// MaxItemsInCart bounds the number of distinct line items.
	MaxItemsInCart = 20
	// SchemaVersion tags persisted cart blobs.
	SchemaVersion = "1"
)

var (
	// PriceCeiling is a sanity bound on a single unit price.
	PriceCeiling = decimal.NewFromInt(50000)
	// MinOrderValue is the smallest total accepted at checkout.
	MinOrderValue = decimal.NewFromInt(1)
	// MaxOrderValue reflects the payment processor's transaction ceiling,
	// not a business rule.
	MaxOrderValue = decimal.NewFromFloat(999999.99)
)
