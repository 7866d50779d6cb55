package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// FreeShippingThreshold is the subtotal at which shipping becomes free
// regardless of the selected option.
var FreeShippingThreshold = decimal.NewFromInt(2000)

// CartSummary is derived from the line-item set plus shipping/tax options.
// It is recomputed on demand and never stored.
type CartSummary struct {
	Items     []types.LineItem `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Shipping  decimal.Decimal  `json:"shipping"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
	Currency  string           `json:"currency"`
	ItemCount int              `json:"item_count"`
}

// Subtotal sums price*quantity across items without rounding; rounding is
// deferred to summary construction to avoid cumulative drift.
func Subtotal(items []types.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ShippingCost resolves the shipping price for the subtotal and option.
// Unknown options degrade to the default option with a diagnostic, never an
// error.
func ShippingCost(ctx context.Context, subtotal decimal.Decimal, optionID string, logg *logger.Logger) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	opt, ok := ShippingOptionByID(optionID)
	if !ok {
		if logg != nil {
			logCtx := logg.WithField(ctx, "shipping_option", optionID)
			logg.Warn(logCtx, "pricing.unknown_shipping_option")
		}
		opt, _ = ShippingOptionByID(DefaultShippingOption)
	}
	return opt.Price
}

// Tax computes the tax amount for the subtotal, rounded to 2 decimals.
// When inclusive, the amount already embedded in the subtotal is extracted;
// the decomposition changes, the charged total never does.
func Tax(subtotal decimal.Decimal, rate float64, inclusive bool) decimal.Decimal {
	r := decimal.NewFromFloat(rate)
	if inclusive {
		divisor := decimal.NewFromInt(1).Add(r)
		return subtotal.Sub(subtotal.DivRound(divisor, 8)).Round(2)
	}
	return subtotal.Mul(r).Round(2)
}

// Summary composes subtotal, shipping, tax and total for the item set.
// All monetary fields are rounded to 2 decimals here and nowhere earlier.
func Summary(ctx context.Context, items []types.LineItem, optionID string, rate float64, inclusive bool, currency string, logg *logger.Logger) CartSummary {
	subtotal := Subtotal(items)
	shipping := ShippingCost(ctx, subtotal, optionID, logg)
	tax := Tax(subtotal, rate, inclusive)

	total := subtotal.Add(shipping)
	if !inclusive {
		total = total.Add(tax)
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return CartSummary{
		Items:     items,
		Subtotal:  subtotal.Round(2),
		Shipping:  shipping.Round(2),
		Tax:       tax,
		Total:     total.Round(2),
		Currency:  currency,
		ItemCount: count,
	}
}
