package cart

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

func validItem() types.LineItem {
	return types.LineItem{
		ID:        1,
		ProductID: "spectra-one",
		Name:      "Spectra One",
		UnitPrice: decimal.NewFromInt(2499),
		Quantity:  1,
		Color:     "onyx",
	}
}

func TestValidateItemAcceptsValid(t *testing.T) {
	result := ValidateItem(validItem())
	if !result.Valid {
		t.Fatalf("expected valid item, got errors %v", result.Errors)
	}
}

func TestValidateItemFlagsEveryProblem(t *testing.T) {
	item := types.LineItem{
		ID:        0,
		ProductID: " ",
		Name:      "",
		UnitPrice: decimal.Zero,
		Quantity:  0,
	}

	result := ValidateItem(item)
	if result.Valid {
		t.Fatal("expected invalid item")
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestValidateItemRanges(t *testing.T) {
	overpriced := validItem()
	overpriced.UnitPrice = PriceCeiling.Add(decimal.NewFromInt(1))
	if result := ValidateItem(overpriced); result.Valid {
		t.Fatal("expected price ceiling violation")
	}

	overQty := validItem()
	overQty.Quantity = MaxQtyPerItem + 1
	if result := ValidateItem(overQty); result.Valid {
		t.Fatal("expected quantity limit violation")
	}

	atCeiling := validItem()
	atCeiling.UnitPrice = PriceCeiling
	atCeiling.Quantity = MaxQtyPerItem
	if result := ValidateItem(atCeiling); !result.Valid {
		t.Fatalf("boundary values should be valid, got %v", result.Errors)
	}
}

func TestValidateCartTagsErrorsWithIndex(t *testing.T) {
	bad := validItem()
	bad.Quantity = 0

	result := ValidateCart([]types.LineItem{validItem(), bad})
	if result.Valid {
		t.Fatal("expected invalid cart")
	}
	if !strings.HasPrefix(result.Errors[0], "item 1:") {
		t.Fatalf("expected index-tagged message, got %q", result.Errors[0])
	}
}

func TestValidateCartDetectsDuplicates(t *testing.T) {
	first := validItem()
	second := validItem()
	second.ID = 2

	result := ValidateCart([]types.LineItem{first, second})
	if result.Valid {
		t.Fatal("expected duplicate detection")
	}

	distinctColor := validItem()
	distinctColor.ID = 2
	distinctColor.Color = "arctic"
	result = ValidateCart([]types.LineItem{first, distinctColor})
	if !result.Valid {
		t.Fatalf("distinct colors are not duplicates, got %v", result.Errors)
	}
}

func TestValidateCartSizeLimit(t *testing.T) {
	items := make([]types.LineItem, MaxItemsInCart+1)
	for i := range items {
		item := validItem()
		item.ID = int64(i + 1)
		item.ProductID = item.ProductID + "-" + strings.Repeat("x", i+1)
		items[i] = item
	}

	result := ValidateCart(items)
	if result.Valid {
		t.Fatal("expected size limit violation")
	}
}

func TestValidateForCheckoutEmptyCart(t *testing.T) {
	result := ValidateForCheckout(nil)
	if result.Valid {
		t.Fatal("expected empty cart rejection")
	}
}

func TestValidateForCheckoutOrderCeiling(t *testing.T) {
	item := validItem()
	item.UnitPrice = decimal.NewFromInt(40000)
	item.Quantity = MaxQtyPerItem

	// 40000 * 10 * 3 items > 999999.99
	second := item
	second.ID = 2
	second.Color = "arctic"
	third := item
	third.ID = 3
	third.Color = "sand"

	result := ValidateForCheckout([]types.LineItem{item, second, third})
	if result.Valid {
		t.Fatal("expected order ceiling violation")
	}
	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "exceeds the maximum") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected order-total-exceeds-maximum error, got %v", result.Errors)
	}
}

func TestValidateForCheckoutAcceptsNormalCart(t *testing.T) {
	result := ValidateForCheckout([]types.LineItem{validItem()})
	if !result.Valid {
		t.Fatalf("expected valid checkout cart, got %v", result.Errors)
	}
}
