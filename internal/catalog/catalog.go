package catalog

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
)

// Product is a storefront catalog entry. The catalog is static; stock
// levels are intentionally not tracked.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Colors      []string        `json:"colors"`
	Features    []string        `json:"features"`
}

var products = []Product{
	{
		ID:          "spectra-one",
		Name:        "Spectra One",
		Tagline:     "Flagship smart glasses",
		Description: "Full-color waveguide display, 12MP camera and all-day battery in a titanium frame.",
		Price:       decimal.NewFromInt(2499),
		Colors:      []string{"onyx", "arctic", "sand"},
		Features:    []string{"AR display", "12MP camera", "Spatial audio", "IP54"},
	},
	{
		ID:          "spectra-lite",
		Name:        "Spectra Lite",
		Tagline:     "Everyday audio glasses",
		Description: "Open-ear speakers and a voice assistant in a lightweight acetate frame.",
		Price:       decimal.NewFromFloat(1049.50),
		Colors:      []string{"onyx", "crystal"},
		Features:    []string{"Open-ear audio", "Voice assistant", "36h standby"},
	},
	{
		ID:          "spectra-sport",
		Name:        "Spectra Sport",
		Tagline:     "Performance tracking on your face",
		Description: "Heads-up pace and heart-rate readout with sweat-proof photochromic lenses.",
		Price:       decimal.NewFromInt(1799),
		Colors:      []string{"volt", "onyx"},
		Features:    []string{"HUD metrics", "Photochromic lenses", "IP67"},
	},
}

// List returns the catalog in display order.
func List() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// Get looks up a product by id.
func Get(id string) (Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// HasColor reports whether the product ships in the given color. An empty
// color is acceptable for single-variant orders.
func (p Product) HasColor(color string) bool {
	if color == "" {
		return true
	}
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
