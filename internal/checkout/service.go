package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/spectra-eyewear/spectra-backend/internal/cart"
	"github.com/spectra-eyewear/spectra-backend/internal/forms"
	"github.com/spectra-eyewear/spectra-backend/internal/payments"
	"github.com/spectra-eyewear/spectra-backend/internal/pricing"
	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
	"github.com/spectra-eyewear/spectra-backend/pkg/metrics"
	"github.com/spectra-eyewear/spectra-backend/pkg/report"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

const sessionIDPrefix = "cs_"

// CreateSessionInput is the request to open a hosted checkout session.
// Customer data is optional at this stage; the hosted page collects
// whatever is missing. When submitted, it must pass the checkout form
// rules before the processor is contacted.
type CreateSessionInput struct {
	Items          []types.LineItem
	Customer       forms.CheckoutForm
	ShippingOption string
}

// CreateSessionResult returns only the opaque session identifier. The
// hosted session is the source of truth from this point, so no pricing or
// contact data is echoed back.
type CreateSessionResult struct {
	SessionID string `json:"session_id"`
}

// Service orchestrates the hosted checkout flow against the payment
// processor.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (CreateSessionResult, error)
	GetOrderDetails(ctx context.Context, sessionID string) (*OrderDetails, error)
}

type service struct {
	sessions SessionClient
	cfg      config.CheckoutConfig
	logg     *logger.Logger
	mtr      *metrics.CheckoutMetrics
	rep      *report.Reporter
}

// NewService builds the checkout service.
func NewService(sessions SessionClient, cfg config.CheckoutConfig, logg *logger.Logger, mtr *metrics.CheckoutMetrics, rep *report.Reporter) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session client required")
	}
	return &service{sessions: sessions, cfg: cfg, logg: logg, mtr: mtr, rep: rep}, nil
}

func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (CreateSessionResult, error) {
	if result := cart.ValidateForCheckout(input.Items); !result.Valid {
		return CreateSessionResult{}, pkgerrors.New(pkgerrors.CodeValidation, "cart failed validation").
			WithDetails(map[string]any{"errors": result.Errors})
	}

	if input.Customer != (forms.CheckoutForm{}) {
		if result := forms.ValidateForm(forms.Normalize(input.Customer)); !result.Valid {
			return CreateSessionResult{}, pkgerrors.New(pkgerrors.CodeValidation, "checkout form failed validation").
				WithDetails(map[string]any{"errors": result.Errors})
		}
	}

	summary := pricing.Summary(ctx, input.Items, input.ShippingOption,
		s.cfg.TaxRate, s.cfg.TaxIncluded, s.cfg.Currency, s.logg)
	orderID := uuid.NewString()

	params := s.buildSessionParams(input, summary, orderID)

	callCtx, cancel := context.WithTimeout(ctx, s.processorTimeout())
	defer cancel()

	start := time.Now()
	sess, err := s.sessions.Create(callCtx, params)
	s.mtr.ObserveProcessorDuration("create_session", time.Since(start))
	if err != nil {
		return CreateSessionResult{}, s.handleProcessorFailure(ctx, "checkout.create_session", err)
	}

	s.mtr.IncSessionCreated()
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":   orderID,
			"item_count": summary.ItemCount,
		})
		logCtx = s.logg.WithSessionID(logCtx, sess.ID)
		s.logg.Info(logCtx, "checkout.session_created")
	}
	return CreateSessionResult{SessionID: sess.ID}, nil
}

func (s *service) GetOrderDetails(ctx context.Context, sessionID string) (*OrderDetails, error) {
	if !strings.HasPrefix(sessionID, sessionIDPrefix) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSessionID, "session id is malformed")
	}

	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("payment_intent")
	params.AddExpand("shipping_cost.shipping_rate")

	callCtx, cancel := context.WithTimeout(ctx, s.processorTimeout())
	defer cancel()

	start := time.Now()
	sess, err := s.sessions.Get(callCtx, sessionID, params)
	s.mtr.ObserveProcessorDuration("get_session", time.Since(start))
	if err != nil {
		perr := normalizeProcessorError(err)
		if perr.Kind == ProcessorInvalidRequest {
			return nil, pkgerrors.Wrap(pkgerrors.CodeSessionNotFound, perr, "checkout session not found")
		}
		return nil, s.handleProcessorFailure(ctx, "checkout.get_session", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodePaymentNotCompleted, "payment has not completed for this session")
	}

	return buildOrderDetails(sess), nil
}

// handleProcessorFailure converts a raw processor error into the API error
// to return, counting and reporting along the way. Card failures go through
// the payment classifier so the storefront gets an actionable reason.
func (s *service) handleProcessorFailure(ctx context.Context, source string, err error) error {
	perr := normalizeProcessorError(err)

	if perr.Kind == ProcessorCard {
		classified := payments.Classify(perr.DeclineCode, perr.Message)
		s.mtr.IncPaymentError(string(classified.Reason))
		if payments.ShouldReport(classified.Reason) {
			s.rep.Report(ctx, report.Record{
				Kind:    "payment_error",
				Source:  source,
				Message: classified.RawMessage,
				Fields: map[string]any{
					"reason":   string(classified.Reason),
					"category": string(payments.CategoryFor(classified.Reason)),
				},
			})
		}
		return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, perr, classified.Message).
			WithDetails(map[string]any{
				"reason":      classified.Reason,
				"retryable":   classified.Retryable,
				"suggestions": classified.Suggestions,
			})
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"kind":   string(perr.Kind),
			"status": perr.StatusCode,
		})
		s.logg.Error(logCtx, source+" failed", err)
	}
	if perr.Kind == ProcessorConnection || perr.Kind == ProcessorOther {
		s.rep.Report(ctx, report.Record{
			Kind:    "processor_error",
			Source:  source,
			Message: perr.Message,
			Fields:  map[string]any{"kind": string(perr.Kind)},
		})
	}
	return perr.toAPIError()
}

func (s *service) buildSessionParams(input CreateSessionInput, summary pricing.CartSummary, orderID string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}

	for _, item := range summary.Items {
		name := item.Name
		if item.Color != "" {
			name = fmt.Sprintf("%s (%s)", item.Name, item.Color)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(summary.Currency),
				UnitAmount: stripe.Int64(minorUnits(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
		})
	}

	params.ShippingOptions = s.shippingOptions(input.ShippingOption, summary.Subtotal, summary.Currency)

	params.AddMetadata("order_id", orderID)
	params.AddMetadata("item_count", fmt.Sprintf("%d", summary.ItemCount))
	params.AddMetadata("subtotal", summary.Subtotal.StringFixed(2))
	params.AddMetadata("shipping_option", shippingOptionOrDefault(input.ShippingOption))

	customer := forms.Normalize(input.Customer)
	if customer.Email != "" {
		params.CustomerEmail = stripe.String(customer.Email)
		params.AddMetadata("customer_email", customer.Email)
	}
	if name := strings.TrimSpace(customer.FirstName + " " + customer.LastName); name != "" {
		params.AddMetadata("customer_name", name)
	}

	return params
}

// shippingOptions renders the rate catalog for the hosted page. Over the
// free-shipping threshold every rate is zeroed, matching the audited
// summary, which charges no shipping regardless of option. The requested
// option is listed first so the hosted page preselects it.
func (s *service) shippingOptions(requested string, subtotal decimal.Decimal, currency string) []*stripe.CheckoutSessionShippingOptionParams {
	requested = shippingOptionOrDefault(requested)
	free := subtotal.GreaterThanOrEqual(pricing.FreeShippingThreshold)

	catalog := pricing.ShippingOptions()
	ordered := make([]pricing.ShippingOption, 0, len(catalog))
	for _, opt := range catalog {
		if opt.ID == requested {
			ordered = append([]pricing.ShippingOption{opt}, ordered...)
			continue
		}
		ordered = append(ordered, opt)
	}

	out := make([]*stripe.CheckoutSessionShippingOptionParams, 0, len(ordered))
	for _, opt := range ordered {
		amount := minorUnits(opt.Price)
		name := opt.Name
		if free {
			amount = 0
			if opt.ID == pricing.DefaultShippingOption {
				name = "Free Shipping"
			}
		}
		out = append(out, &stripe.CheckoutSessionShippingOptionParams{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String("fixed_amount"),
				DisplayName: stripe.String(name),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(amount),
					Currency: stripe.String(currency),
				},
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(int64(opt.MinDays)),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(int64(opt.MaxDays)),
					},
				},
			},
		})
	}
	return out
}

func (s *service) processorTimeout() time.Duration {
	if s.cfg.ProcessorTimeout > 0 {
		return s.cfg.ProcessorTimeout
	}
	return 5 * time.Second
}

func buildOrderDetails(sess *stripe.CheckoutSession) *OrderDetails {
	details := &OrderDetails{
		OrderNumber: orderNumber(sess),
		SessionID:   sess.ID,
		Customer:    orderCustomer(sess),
		Pricing:     orderPricing(sess),
	}

	if sess.LineItems != nil {
		for _, li := range sess.LineItems.Data {
			item := OrderItem{
				Name:      li.Description,
				Quantity:  li.Quantity,
				LineTotal: fromMinorUnits(li.AmountTotal),
			}
			if li.Price != nil {
				item.UnitPrice = fromMinorUnits(li.Price.UnitAmount)
			}
			details.Items = append(details.Items, item)
		}
	}

	details.ShippingMethod = shippingMethod(sess, details.Pricing.Shipping)
	return details
}

func orderNumber(sess *stripe.CheckoutSession) string {
	if id := sess.Metadata["order_id"]; id != "" {
		return id
	}
	// synthesized so the confirmation page always has something to show
	tail := sess.ID
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return strings.ToUpper(tail)
}

func orderCustomer(sess *stripe.CheckoutSession) OrderCustomer {
	customer := OrderCustomer{}
	if sess.CustomerDetails != nil {
		customer.Name = sess.CustomerDetails.Name
		customer.Email = sess.CustomerDetails.Email
	}
	if customer.Name == "" {
		customer.Name = sess.Metadata["customer_name"]
	}
	if customer.Email == "" {
		customer.Email = sess.Metadata["customer_email"]
	}
	return customer
}

// orderPricing derives tax as total minus subtotal minus shipping. The
// recorded total is authoritative post-payment, so the components must sum
// to it exactly.
func orderPricing(sess *stripe.CheckoutSession) OrderPricing {
	subtotal := fromMinorUnits(sess.AmountSubtotal)
	total := fromMinorUnits(sess.AmountTotal)
	shipping := decimal.Zero
	if sess.ShippingCost != nil {
		shipping = fromMinorUnits(sess.ShippingCost.AmountTotal)
	}
	return OrderPricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      total.Sub(subtotal).Sub(shipping),
		Total:    total,
		Currency: string(sess.Currency),
	}
}

func shippingMethod(sess *stripe.CheckoutSession, shipping decimal.Decimal) string {
	if sess.ShippingCost != nil && sess.ShippingCost.ShippingRate != nil &&
		sess.ShippingCost.ShippingRate.DisplayName != "" {
		return sess.ShippingCost.ShippingRate.DisplayName
	}
	// display name absent, guess from the paid amount
	switch {
	case shipping.IsZero():
		return "Free Shipping"
	case shipping.GreaterThan(decimal.NewFromInt(15)):
		return "Express Shipping"
	default:
		return "Standard Shipping"
	}
}

func shippingOptionOrDefault(id string) string {
	if _, ok := pricing.ShippingOptionByID(id); ok {
		return id
	}
	return pricing.DefaultShippingOption
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
