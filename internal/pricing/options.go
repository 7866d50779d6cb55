package pricing

import "github.com/shopspring/decimal"

// DefaultShippingOption is the fallback when a requested option is unknown.
const DefaultShippingOption = "standard"

// ShippingOption is a static catalog entry. Prices are looked up fresh at
// summary time so policy changes apply to in-progress carts.
type ShippingOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MinDays     int             `json:"min_days"`
	MaxDays     int             `json:"max_days"`
	Description string          `json:"description"`
}

var shippingCatalog = []ShippingOption{
	{
		ID:          "standard",
		Name:        "Standard Shipping",
		Price:       decimal.NewFromInt(15),
		MinDays:     3,
		MaxDays:     5,
		Description: "Courier delivery within 3-5 business days",
	},
	{
		ID:          "express",
		Name:        "Express Shipping",
		Price:       decimal.NewFromInt(25),
		MinDays:     1,
		MaxDays:     2,
		Description: "Priority courier delivery within 1-2 business days",
	},
}

// ShippingOptions returns the catalog in display order.
func ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, len(shippingCatalog))
	copy(out, shippingCatalog)
	return out
}

// ShippingOptionByID looks up a catalog entry.
func ShippingOptionByID(id string) (ShippingOption, bool) {
	for _, opt := range shippingCatalog {
		if opt.ID == id {
			return opt, true
		}
	}
	return ShippingOption{}, false
}
