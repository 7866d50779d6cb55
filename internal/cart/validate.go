package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// Result carries the outcome of a validation pass. Validation never fails
// with an error; callers decide whether to surface or reject.
type Result struct {
	Valid  bool     `json:"is_valid"`
	Errors []string `json:"errors"`
}

func invalid(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateItem checks a single line item for structural and range problems.
func ValidateItem(item types.LineItem) Result {
	var errs []string

	if item.ID <= 0 {
		errs = append(errs, "item id must be a positive number")
	}
	if strings.TrimSpace(item.ProductID) == "" {
		errs = append(errs, "product id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, "item name is required")
	}
	if !item.UnitPrice.IsPositive() {
		errs = append(errs, "unit price must be greater than zero")
	} else if item.UnitPrice.GreaterThan(PriceCeiling) {
		errs = append(errs, fmt.Sprintf("unit price exceeds the ceiling of %s", PriceCeiling))
	}
	if item.Quantity < 1 {
		errs = append(errs, "quantity must be at least 1")
	} else if item.Quantity > MaxQtyPerItem {
		errs = append(errs, fmt.Sprintf("quantity exceeds the limit of %d", MaxQtyPerItem))
	}

	return invalid(errs)
}

// ValidateCart runs aggregate checks across the item set. Duplicate
// (product, color) pairs are flagged even though the add-merge logic should
// make them unreachable.
func ValidateCart(items []types.LineItem) Result {
	var errs []string

	if len(items) > MaxItemsInCart {
		errs = append(errs, fmt.Sprintf("cart holds %d items, limit is %d", len(items), MaxItemsInCart))
	}

	for i, item := range items {
		itemResult := ValidateItem(item)
		for _, msg := range itemResult.Errors {
			errs = append(errs, fmt.Sprintf("item %d: %s", i, msg))
		}
		for j, other := range items {
			if j != i && item.SameSelection(other) {
				errs = append(errs, fmt.Sprintf("item %d: duplicate of item %d (%s/%s)", i, j, item.ProductID, item.Color))
				break
			}
		}
	}

	return invalid(errs)
}

// ValidateForCheckout re-runs cart validation and adds checkout-only
// constraints on emptiness and the order-total window.
func ValidateForCheckout(items []types.LineItem) Result {
	base := ValidateCart(items)
	errs := base.Errors

	if len(items) == 0 {
		errs = append(errs, "cart is empty")
		return invalid(errs)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if total.LessThan(MinOrderValue) {
		errs = append(errs, fmt.Sprintf("order total %s is below the minimum of %s", total, MinOrderValue))
	}
	if total.GreaterThan(MaxOrderValue) {
		errs = append(errs, fmt.Sprintf("order total %s exceeds the maximum of %s", total, MaxOrderValue))
	}

	return invalid(errs)
}
