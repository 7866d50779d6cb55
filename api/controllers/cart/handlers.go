package cart

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spectra-eyewear/spectra-backend/api/middleware"
	"github.com/spectra-eyewear/spectra-backend/api/responses"
	"github.com/spectra-eyewear/spectra-backend/api/validators"
	cartsvc "github.com/spectra-eyewear/spectra-backend/internal/cart"
	"github.com/spectra-eyewear/spectra-backend/internal/pricing"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
)

// AddItem inserts or merges a line item into the caller's cart.
func AddItem(svc cartsvc.Service, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		outcome, items, err := svc.Add(r.Context(), token, toNewItem(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapCartError(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"outcome": outcome,
			"cart":    newCartResponse(r.Context(), items, shippingOptionParam(r), cfg, logg),
		})
	}
}

// UpdateQuantity replaces the quantity on a line item.
func UpdateQuantity(svc cartsvc.Service, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		items, err := svc.UpdateQuantity(r.Context(), token, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapCartError(err))
			return
		}

		responses.WriteSuccess(w, newCartResponse(r.Context(), items, shippingOptionParam(r), cfg, logg))
	}
}

// RemoveItem deletes a line item from the cart.
func RemoveItem(svc cartsvc.Service, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		items, err := svc.Remove(r.Context(), token, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapCartError(err))
			return
		}

		responses.WriteSuccess(w, newCartResponse(r.Context(), items, shippingOptionParam(r), cfg, logg))
	}
}

// Fetch returns the stored cart with a fresh pricing summary.
func Fetch(svc cartsvc.Service, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		items, err := svc.Items(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(r.Context(), items, shippingOptionParam(r), cfg, logg))
	}
}

// Clear empties the cart, typically after a confirmed order.
func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if err := svc.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cleared": true})
	}
}

func itemIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemID"))
	itemID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || itemID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item id must be a positive integer")
	}
	return itemID, nil
}

func shippingOptionParam(r *http.Request) string {
	option := strings.TrimSpace(r.URL.Query().Get("shipping"))
	if option == "" {
		return pricing.DefaultShippingOption
	}
	return option
}

func mapCartError(err error) error {
	switch {
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity must be at least 1")
	case errors.Is(err, cartsvc.ErrQuantityLimitExceeded):
		return pkgerrors.Wrap(pkgerrors.CodeQuantityLimit, err, "quantity limit exceeded").
			WithDetails(map[string]any{"max_per_item": cartsvc.MaxQtyPerItem})
	default:
		return err
	}
}
