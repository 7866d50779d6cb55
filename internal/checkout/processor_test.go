package checkout

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
)

func TestNormalizeProcessorErrorNonStripe(t *testing.T) {
	perr := normalizeProcessorError(errors.New("dial tcp: connection refused"))
	if perr.Kind != ProcessorConnection {
		t.Fatalf("expected connection kind, got %s", perr.Kind)
	}
}

func TestNormalizeProcessorErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  *stripe.Error
		want ProcessorErrorKind
	}{
		{"auth", &stripe.Error{HTTPStatusCode: http.StatusUnauthorized}, ProcessorAuth},
		{"forbidden", &stripe.Error{HTTPStatusCode: http.StatusForbidden}, ProcessorAuth},
		{"rate limit", &stripe.Error{HTTPStatusCode: http.StatusTooManyRequests}, ProcessorRateLimit},
		{"invalid request", &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusNotFound}, ProcessorInvalidRequest},
		{"card", &stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: http.StatusPaymentRequired}, ProcessorCard},
		{"server error", &stripe.Error{HTTPStatusCode: http.StatusInternalServerError}, ProcessorOther},
	}

	for _, tc := range cases {
		perr := normalizeProcessorError(tc.err)
		if perr.Kind != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, perr.Kind)
		}
	}
}

func TestDeclineCodePrefersIssuerCode(t *testing.T) {
	err := &stripe.Error{
		Type:        stripe.ErrorTypeCard,
		Code:        stripe.ErrorCodeCardDeclined,
		DeclineCode: "insufficient_funds",
	}
	perr := normalizeProcessorError(err)
	if perr.DeclineCode != "insufficient_funds" {
		t.Fatalf("expected issuer decline code, got %q", perr.DeclineCode)
	}

	err.DeclineCode = ""
	perr = normalizeProcessorError(err)
	if perr.DeclineCode != string(stripe.ErrorCodeCardDeclined) {
		t.Fatalf("expected fallback to error code, got %q", perr.DeclineCode)
	}
}

func TestToAPIErrorMapping(t *testing.T) {
	cases := []struct {
		kind ProcessorErrorKind
		want pkgerrors.Code
	}{
		{ProcessorAuth, pkgerrors.CodeUnauthorized},
		{ProcessorRateLimit, pkgerrors.CodeRateLimit},
		{ProcessorConnection, pkgerrors.CodeDependency},
		{ProcessorInvalidRequest, pkgerrors.CodeValidation},
		{ProcessorOther, pkgerrors.CodeInternal},
	}
	for _, tc := range cases {
		perr := &ProcessorError{Kind: tc.kind, Message: "boom"}
		apiErr := pkgerrors.As(perr.toAPIError())
		if apiErr == nil {
			t.Fatalf("kind %s: expected structured error", tc.kind)
		}
		if apiErr.Code() != tc.want {
			t.Errorf("kind %s: expected code %s, got %s", tc.kind, tc.want, apiErr.Code())
		}
	}
}

func TestProcessorErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	perr := &ProcessorError{Kind: ProcessorOther, Message: "boom", Raw: cause}
	if !errors.Is(perr, cause) {
		t.Fatal("expected unwrap to reach the cause")
	}
}
