package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

func item(price float64, qty int) types.LineItem {
	return types.LineItem{
		ID:        1,
		ProductID: "spectra-one",
		Name:      "Spectra One",
		UnitPrice: decimal.NewFromFloat(price),
		Quantity:  qty,
	}
}

func TestSubtotalEmptySet(t *testing.T) {
	if got := Subtotal(nil); !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0 subtotal, got %s", got)
	}
}

func TestShippingFreeOverThreshold(t *testing.T) {
	ctx := context.Background()
	subtotal := decimal.NewFromInt(2000)

	for _, optionID := range []string{"standard", "express", "bogus"} {
		if got := ShippingCost(ctx, subtotal, optionID, nil); !got.Equal(decimal.Zero) {
			t.Fatalf("option %s: expected free shipping, got %s", optionID, got)
		}
	}
}

func TestShippingBelowThreshold(t *testing.T) {
	ctx := context.Background()
	subtotal := decimal.NewFromInt(100)

	if got := ShippingCost(ctx, subtotal, "standard", nil); !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected standard 15, got %s", got)
	}
	if got := ShippingCost(ctx, subtotal, "express", nil); !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected express 25, got %s", got)
	}
}

func TestShippingUnknownOptionFallsBackToStandard(t *testing.T) {
	ctx := context.Background()
	subtotal := decimal.NewFromInt(100)

	if got := ShippingCost(ctx, subtotal, "drone-delivery", nil); !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected fallback to standard price, got %s", got)
	}
}

func TestTaxExclusive(t *testing.T) {
	got := Tax(decimal.NewFromInt(6297), 0.23, false)
	if !got.Equal(decimal.NewFromFloat(1448.31)) {
		t.Fatalf("expected 1448.31, got %s", got)
	}
}

func TestTaxInclusiveExtractsEmbeddedAmount(t *testing.T) {
	got := Tax(decimal.NewFromInt(123), 0.23, true)
	if !got.Equal(decimal.NewFromFloat(23)) {
		t.Fatalf("expected 23, got %s", got)
	}
}

func TestSummaryMixedCart(t *testing.T) {
	ctx := context.Background()
	items := []types.LineItem{
		item(2499, 1),
		item(1899, 2),
	}

	summary := Summary(ctx, items, "standard", 0.23, false, "pln", nil)

	if !summary.Subtotal.Equal(decimal.NewFromInt(6297)) {
		t.Fatalf("expected subtotal 6297, got %s", summary.Subtotal)
	}
	if !summary.Shipping.Equal(decimal.Zero) {
		t.Fatalf("expected free shipping over threshold, got %s", summary.Shipping)
	}
	if !summary.Tax.Equal(decimal.NewFromFloat(1448.31)) {
		t.Fatalf("expected tax 1448.31, got %s", summary.Tax)
	}
	if !summary.Total.Equal(decimal.NewFromFloat(7745.31)) {
		t.Fatalf("expected total 7745.31, got %s", summary.Total)
	}
	if summary.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", summary.ItemCount)
	}
	if len(summary.Items) != 2 {
		t.Fatalf("expected 2 distinct items, got %d", len(summary.Items))
	}
}

func TestSummaryIdempotent(t *testing.T) {
	ctx := context.Background()
	items := []types.LineItem{item(100, 1)}

	first := Summary(ctx, items, "express", 0.23, false, "pln", nil)
	second := Summary(ctx, items, "express", 0.23, false, "pln", nil)

	if !first.Total.Equal(second.Total) || first.ItemCount != second.ItemCount {
		t.Fatalf("summary is not deterministic: %v vs %v", first, second)
	}
	if !first.Shipping.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected express 25 below threshold, got %s", first.Shipping)
	}
}

func TestSummaryRoundingInvariant(t *testing.T) {
	ctx := context.Background()
	sets := [][]types.LineItem{
		{item(0.1, 3), item(0.2, 7)},
		{item(19.99, 2)},
		{item(2499, 1), item(1899, 2)},
		{},
	}

	for _, items := range sets {
		for _, inclusive := range []bool{true, false} {
			summary := Summary(ctx, items, "standard", 0.23, inclusive, "pln", nil)

			subtotal := Subtotal(items)
			shipping := ShippingCost(ctx, subtotal, "standard", nil)
			want := subtotal.Add(shipping)
			if !inclusive {
				want = want.Add(Tax(subtotal, 0.23, false))
			}
			if !summary.Total.Equal(want.Round(2)) {
				t.Fatalf("inclusive=%v items=%v: total %s != %s", inclusive, items, summary.Total, want.Round(2))
			}
		}
	}
}

func TestSummaryInclusiveTaxDoesNotChangeTotal(t *testing.T) {
	ctx := context.Background()
	items := []types.LineItem{item(123, 1)}

	inclusive := Summary(ctx, items, "standard", 0.23, true, "pln", nil)

	want := decimal.NewFromInt(123).Add(decimal.NewFromInt(15))
	if !inclusive.Total.Equal(want) {
		t.Fatalf("inclusive flag must not change the charged total: got %s want %s", inclusive.Total, want)
	}
	if !inclusive.Tax.Equal(decimal.NewFromFloat(23)) {
		t.Fatalf("informational tax should be the embedded amount, got %s", inclusive.Tax)
	}
}

func TestShippingCatalog(t *testing.T) {
	opts := ShippingOptions()
	if len(opts) != 2 {
		t.Fatalf("expected 2 shipping options, got %d", len(opts))
	}
	if opts[0].ID != DefaultShippingOption {
		t.Fatalf("expected default option first, got %s", opts[0].ID)
	}
	if _, ok := ShippingOptionByID("express"); !ok {
		t.Fatal("expected express option in catalog")
	}
	if _, ok := ShippingOptionByID("teleport"); ok {
		t.Fatal("unexpected option in catalog")
	}
}
