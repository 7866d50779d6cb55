package cart

import (
	"context"

	"github.com/spectra-eyewear/spectra-backend/internal/pricing"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// CartResponse pairs the stored items with a freshly computed pricing
// summary, so the storefront never renders prices it calculated itself.
type CartResponse struct {
	Items   []types.LineItem `json:"items"`
	Summary SummaryResponse  `json:"summary"`
}

type SummaryResponse struct {
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	ItemCount int    `json:"item_count"`
}

func newCartResponse(ctx context.Context, items []types.LineItem, shippingOption string, cfg config.CheckoutConfig, logg *logger.Logger) CartResponse {
	summary := pricing.Summary(ctx, items, shippingOption, cfg.TaxRate, cfg.TaxIncluded, cfg.Currency, logg)
	if items == nil {
		items = []types.LineItem{}
	}
	return CartResponse{
		Items: items,
		Summary: SummaryResponse{
			Subtotal:  summary.Subtotal.StringFixed(2),
			Shipping:  summary.Shipping.StringFixed(2),
			Tax:       summary.Tax.StringFixed(2),
			Total:     summary.Total.StringFixed(2),
			Currency:  summary.Currency,
			ItemCount: summary.ItemCount,
		},
	}
}
