package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spectra-eyewear/spectra-backend/api/responses"
	catalogsvc "github.com/spectra-eyewear/spectra-backend/internal/catalog"
	"github.com/spectra-eyewear/spectra-backend/internal/pricing"
	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
)

// ListProducts returns the static product catalog.
func ListProducts(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"products": catalogsvc.List()})
	}
}

// GetProduct returns one catalog entry.
func GetProduct(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimSpace(chi.URLParam(r, "productID"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		product, err := catalogsvc.Get(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListShippingOptions returns the shipping rate catalog along with the
// free-shipping threshold so the storefront can show progress toward it.
func ListShippingOptions(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"options":                 pricing.ShippingOptions(),
			"free_shipping_threshold": pricing.FreeShippingThreshold.StringFixed(2),
		})
	}
}
