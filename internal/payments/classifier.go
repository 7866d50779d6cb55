package payments

// Reason is the closed taxonomy of user-facing payment failure causes.
type Reason string

const (
	ReasonCardDeclined           Reason = "card_declined"
	ReasonInsufficientFunds      Reason = "insufficient_funds"
	ReasonExpiredCard            Reason = "expired_card"
	ReasonIncorrectCVC           Reason = "incorrect_cvc"
	ReasonProcessingError        Reason = "processing_error"
	ReasonAuthenticationRequired Reason = "authentication_required"
	ReasonCancelled              Reason = "cancelled"
	ReasonUnknown                Reason = "unknown"
)

// Category groups reasons for reporting decisions.
type Category string

const (
	CategoryCardIssue       Category = "card_issue"
	CategoryUserError       Category = "user_error"
	CategorySystemError     Category = "system_error"
	CategoryBankRequirement Category = "bank_requirement"
	CategoryUserAction      Category = "user_action"
)

// PaymentError is the classification result for one processor failure.
// It is created fresh per failure and never stored.
type PaymentError struct {
	Reason      Reason   `json:"reason"`
	RawMessage  string   `json:"raw_message"`
	Message     string   `json:"message"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions"`
}

// reasonByStripeCode maps Stripe decline/error codes onto the closed
// taxonomy. Codes missing here fall through to ReasonUnknown.
var reasonByStripeCode = map[string]Reason{
	"card_declined":                    ReasonCardDeclined,
	"generic_decline":                  ReasonCardDeclined,
	"do_not_honor":                     ReasonCardDeclined,
	"transaction_not_allowed":          ReasonCardDeclined,
	"lost_card":                        ReasonCardDeclined,
	"stolen_card":                      ReasonCardDeclined,
	"pickup_card":                      ReasonCardDeclined,
	"restricted_card":                  ReasonCardDeclined,
	"security_violation":               ReasonCardDeclined,
	"service_not_allowed":              ReasonCardDeclined,
	"stop_payment_order":               ReasonCardDeclined,
	"revocation_of_all_authorizations": ReasonCardDeclined,
	"fraudulent":                       ReasonCardDeclined,
	"merchant_blacklist":               ReasonCardDeclined,
	"not_permitted":                    ReasonCardDeclined,
	"do_not_try_again":                 ReasonCardDeclined,

	"insufficient_funds":              ReasonInsufficientFunds,
	"withdrawal_count_limit_exceeded": ReasonInsufficientFunds,
	"card_velocity_exceeded":          ReasonInsufficientFunds,

	"expired_card":         ReasonExpiredCard,
	"invalid_expiry_month": ReasonExpiredCard,
	"invalid_expiry_year":  ReasonExpiredCard,

	"incorrect_cvc": ReasonIncorrectCVC,
	"invalid_cvc":   ReasonIncorrectCVC,

	"processing_error":     ReasonProcessingError,
	"issuer_not_available": ReasonProcessingError,
	"try_again_later":      ReasonProcessingError,
	"reenter_transaction":  ReasonProcessingError,
	"approve_with_id":      ReasonProcessingError,

	"authentication_required":           ReasonAuthenticationRequired,
	"call_issuer":                       ReasonAuthenticationRequired,
	"new_account_information_available": ReasonAuthenticationRequired,

	"canceled":  ReasonCancelled,
	"cancelled": ReasonCancelled,
}

var messageByReason = map[Reason]string{
	ReasonCardDeclined:           "Your card was declined. Please try a different payment method.",
	ReasonInsufficientFunds:      "Your card has insufficient funds for this purchase.",
	ReasonExpiredCard:            "Your card has expired. Please use a different card.",
	ReasonIncorrectCVC:           "The security code (CVC) you entered is incorrect.",
	ReasonProcessingError:        "A processing error occurred. Please try again in a moment.",
	ReasonAuthenticationRequired: "Your bank requires additional authentication to complete this payment.",
	ReasonCancelled:              "The payment was cancelled before it completed.",
	ReasonUnknown:                "Something went wrong with your payment. Please try again.",
}

var suggestionsByReason = map[Reason][]string{
	ReasonCardDeclined: {
		"Check the card details you entered",
		"Contact your bank to authorize the payment",
		"Try a different card or payment method",
	},
	ReasonInsufficientFunds: {
		"Top up the account linked to your card",
		"Try a different card or payment method",
	},
	ReasonExpiredCard: {
		"Use a card that has not expired",
	},
	ReasonIncorrectCVC: {
		"Re-enter the 3-digit code from the back of your card",
	},
	ReasonProcessingError: {
		"Wait a moment and try again",
		"If the problem persists, try a different payment method",
	},
	ReasonAuthenticationRequired: {
		"Complete the verification step from your bank",
		"Retry the payment and approve it in your banking app",
	},
	ReasonCancelled: {
		"Return to checkout to try again",
	},
	ReasonUnknown: {
		"Try the payment again",
		"Contact support if the problem persists",
	},
}

// nonRetryableReasons lists reasons where retrying with the same card
// cannot succeed. Everything else is transient or accommodated by the same
// retry flow with a different card.
var nonRetryableReasons = map[Reason]struct{}{
	ReasonExpiredCard:  {},
	ReasonIncorrectCVC: {},
}

var categoryByReason = map[Reason]Category{
	ReasonCardDeclined:           CategoryCardIssue,
	ReasonInsufficientFunds:      CategoryCardIssue,
	ReasonExpiredCard:            CategoryCardIssue,
	ReasonIncorrectCVC:           CategoryUserError,
	ReasonProcessingError:        CategorySystemError,
	ReasonAuthenticationRequired: CategoryBankRequirement,
	ReasonCancelled:              CategoryUserAction,
	ReasonUnknown:                CategorySystemError,
}

// MapStripeErrorToReason is total: every input yields one of the 8 reasons.
func MapStripeErrorToReason(code string) Reason {
	if reason, ok := reasonByStripeCode[code]; ok {
		return reason
	}
	return ReasonUnknown
}

// Classify builds the full classification result for a processor failure.
func Classify(code, rawMessage string) PaymentError {
	reason := MapStripeErrorToReason(code)
	return PaymentError{
		Reason:      reason,
		RawMessage:  rawMessage,
		Message:     messageByReason[reason],
		Retryable:   IsRetryable(reason),
		Suggestions: Suggestions(reason),
	}
}

// IsRetryable reports whether the retry affordance should be offered.
func IsRetryable(reason Reason) bool {
	_, nonRetryable := nonRetryableReasons[reason]
	return !nonRetryable
}

// Suggestions returns the ordered remediation list for a reason.
func Suggestions(reason Reason) []string {
	if s, ok := suggestionsByReason[reason]; ok {
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	return Suggestions(ReasonUnknown)
}

// CategoryFor maps a reason into its broader category.
func CategoryFor(reason Reason) Category {
	if c, ok := categoryByReason[reason]; ok {
		return c
	}
	return CategorySystemError
}

// ShouldReport decides whether a failure warrants reporting to the
// observability sink. Expected customer-side outcomes are not defects.
func ShouldReport(reason Reason) bool {
	return reason == ReasonProcessingError || reason == ReasonUnknown
}
