package checkout

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
)

// ProcessorErrorKind buckets processor failures by how the API should react.
type ProcessorErrorKind string

const (
	ProcessorAuth           ProcessorErrorKind = "auth"
	ProcessorRateLimit      ProcessorErrorKind = "rate_limit"
	ProcessorConnection     ProcessorErrorKind = "connection"
	ProcessorInvalidRequest ProcessorErrorKind = "invalid_request"
	ProcessorCard           ProcessorErrorKind = "card"
	ProcessorOther          ProcessorErrorKind = "other"
)

// ProcessorError normalizes a failure from the payment processor boundary.
type ProcessorError struct {
	Kind       ProcessorErrorKind
	Message    string
	StatusCode int
	// DeclineCode carries the processor's card decline code, set only for
	// card failures.
	DeclineCode string
	Raw         error
}

func (e *ProcessorError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *ProcessorError) Unwrap() error {
	return e.Raw
}

// normalizeProcessorError classifies any error returned by a SessionClient.
// Non-Stripe errors (timeouts, DNS, refused connections) are connection
// failures.
func normalizeProcessorError(err error) *ProcessorError {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return &ProcessorError{
			Kind:    ProcessorConnection,
			Message: "payment processor unreachable",
			Raw:     err,
		}
	}

	out := &ProcessorError{
		Message:    stripeErr.Msg,
		StatusCode: stripeErr.HTTPStatusCode,
		Raw:        err,
	}

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		out.Kind = ProcessorCard
		out.DeclineCode = declineCode(stripeErr)
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized,
		stripeErr.HTTPStatusCode == http.StatusForbidden:
		out.Kind = ProcessorAuth
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		out.Kind = ProcessorRateLimit
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		out.Kind = ProcessorInvalidRequest
	default:
		out.Kind = ProcessorOther
	}
	return out
}

// declineCode prefers the issuer's decline code over the generic error code.
func declineCode(stripeErr *stripe.Error) string {
	if stripeErr.DeclineCode != "" {
		return string(stripeErr.DeclineCode)
	}
	return string(stripeErr.Code)
}

// toAPIError maps a normalized processor failure onto the stable error codes
// the API returns. Card failures are handled separately by the classifier.
func (e *ProcessorError) toAPIError() *pkgerrors.Error {
	switch e.Kind {
	case ProcessorAuth:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, e, "payment processor rejected credentials")
	case ProcessorRateLimit:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, e, "payment processor rate limit reached")
	case ProcessorConnection:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, e, "payment processor unreachable")
	case ProcessorInvalidRequest:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, e, "payment processor rejected the request")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, e, "payment processor request failed")
	}
}
