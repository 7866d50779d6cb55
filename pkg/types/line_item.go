package types

import "github.com/shopspring/decimal"

// LineItem is one product selection in a cart. IDs are minted by the cart
// service and are unique within a cart; (ProductID, Color) identifies a
// mergeable selection.
type LineItem struct {
	ID        int64             `json:"id"`
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Color     string            `json:"color,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SameSelection reports whether two items refer to the same purchasable
// selection and should be merged rather than duplicated.
func (li LineItem) SameSelection(other LineItem) bool {
	return li.ProductID == other.ProductID && li.Color == other.Color
}
