package checkout

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spectra-eyewear/spectra-backend/api/responses"
	"github.com/spectra-eyewear/spectra-backend/api/validators"
	checkoutsvc "github.com/spectra-eyewear/spectra-backend/internal/checkout"
	"github.com/spectra-eyewear/spectra-backend/internal/forms"
	"github.com/spectra-eyewear/spectra-backend/internal/payments"
	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// CreateSessionRequest opens a hosted payment session for the submitted
// items. Customer fields are optional; the hosted page collects the rest.
type CreateSessionRequest struct {
	Items          []SessionItem      `json:"items" validate:"required,min=1,dive"`
	Customer       forms.CheckoutForm `json:"customer"`
	ShippingOption string             `json:"shipping_option"`
}

type SessionItem struct {
	ID        int64             `json:"id" validate:"required,min=1"`
	ProductID string            `json:"product_id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity" validate:"required,min=1"`
	Color     string            `json:"color"`
	Metadata  map[string]string `json:"metadata"`
}

// ValidateFieldRequest checks one form field as the customer types. An
// empty field name validates the whole form.
type ValidateFieldRequest struct {
	Field string             `json:"field"`
	Form  forms.CheckoutForm `json:"form"`
}

// CreateSession opens a hosted checkout session.
func CreateSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload CreateSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateSession(r.Context(), checkoutsvc.CreateSessionInput{
			Items:          toLineItems(payload.Items),
			Customer:       payload.Customer,
			ShippingOption: payload.ShippingOption,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetOrderDetails reconstructs the post-payment order view for a session.
func GetOrderDetails(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		details, err := svc.GetOrderDetails(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, details)
	}
}

// ValidateField runs the checkout form rules for inline validation.
func ValidateField(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ValidateFieldRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload.Form = forms.Normalize(payload.Form)

		if payload.Field == "" {
			result := forms.ValidateForm(payload.Form)
			responses.WriteSuccess(w, result)
			return
		}

		if !forms.KnownField(payload.Field) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown form field").
					WithDetails(map[string]any{"field": payload.Field}))
			return
		}

		messages := forms.ValidateField(payload.Field, payload.Form)
		responses.WriteSuccess(w, map[string]any{
			"field":    payload.Field,
			"is_valid": len(messages) == 0,
			"errors":   messages,
		})
	}
}

// RetryDelay returns the backoff the storefront should wait before the
// given payment retry attempt.
func RetryDelay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempt, err := validators.ParseQueryInt(r, "attempt", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), nil, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"attempt":  attempt,
			"delay_ms": payments.RetryDelay(attempt).Milliseconds(),
		})
	}
}

func toLineItems(items []SessionItem) []types.LineItem {
	out := make([]types.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, types.LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Metadata:  item.Metadata,
		})
	}
	return out
}
