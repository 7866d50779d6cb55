package cart

import (
	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/api/validators"
	cartsvc "github.com/spectra-eyewear/spectra-backend/internal/cart"
)

// Caps on free-form text so a hostile payload cannot bloat the stored blob.
const (
	maxNameLen     = 200
	maxColorLen    = 50
	maxMetadataLen = 200
)

// AddItemRequest is the payload for adding a line item to the cart.
type AddItemRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity" validate:"required,min=1"`
	Color     string            `json:"color"`
	Metadata  map[string]string `json:"metadata"`
}

// UpdateQuantityRequest replaces the quantity on an existing line item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func toNewItem(payload AddItemRequest) cartsvc.NewItem {
	metadata := payload.Metadata
	if len(metadata) > 0 {
		cleaned := make(map[string]string, len(metadata))
		for key, value := range metadata {
			cleaned[validators.SanitizeString(key, maxMetadataLen)] = validators.SanitizeString(value, maxMetadataLen)
		}
		metadata = cleaned
	}
	return cartsvc.NewItem{
		ProductID: validators.SanitizeString(payload.ProductID, maxNameLen),
		Name:      validators.SanitizeString(payload.Name, maxNameLen),
		UnitPrice: payload.UnitPrice,
		Quantity:  payload.Quantity,
		Color:     validators.SanitizeString(payload.Color, maxColorLen),
		Metadata:  metadata,
	}
}
