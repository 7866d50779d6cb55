package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is one named check against a field value. Check receives the raw
// value plus the whole form so rules can depend on sibling fields.
type Rule struct {
	Name    string
	Message string
	Check   func(value string, form CheckoutForm) bool
}

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9\s-]{7,20}$`)
	plPostalPattern = regexp.MustCompile(`^\d{2}-\d{3}$`)
	namePattern     = regexp.MustCompile(`^[\p{L}\s'-]+$`)
)

func required(message string) Rule {
	return Rule{
		Name:    "required",
		Message: message,
		Check: func(value string, _ CheckoutForm) bool {
			return strings.TrimSpace(value) != ""
		},
	}
}

func minLength(n int, message string) Rule {
	return Rule{
		Name:    "min_length",
		Message: message,
		Check: func(value string, _ CheckoutForm) bool {
			trimmed := strings.TrimSpace(value)
			return trimmed == "" || utf8.RuneCountInString(trimmed) >= n
		},
	}
}

func maxLength(n int, message string) Rule {
	return Rule{
		Name:    "max_length",
		Message: message,
		Check: func(value string, _ CheckoutForm) bool {
			return utf8.RuneCountInString(strings.TrimSpace(value)) <= n
		},
	}
}

func pattern(re *regexp.Regexp, message string) Rule {
	return Rule{
		Name:    "pattern",
		Message: message,
		Check: func(value string, _ CheckoutForm) bool {
			trimmed := strings.TrimSpace(value)
			return trimmed == "" || re.MatchString(trimmed)
		},
	}
}

// postalCode validates against the destination country. Polish addresses
// use the dd-ddd format; other countries get a loose length check.
func postalCode() Rule {
	return Rule{
		Name:    "postal_code",
		Message: "Enter a valid postal code",
		Check: func(value string, form CheckoutForm) bool {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return true
			}
			if strings.EqualFold(strings.TrimSpace(form.Country), "PL") {
				return plPostalPattern.MatchString(trimmed)
			}
			return utf8.RuneCountInString(trimmed) >= 3 && utf8.RuneCountInString(trimmed) <= 10
		},
	}
}

func oneOf(allowed []string, message string) Rule {
	return Rule{
		Name:    "one_of",
		Message: message,
		Check: func(value string, _ CheckoutForm) bool {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return true
			}
			for _, candidate := range allowed {
				if trimmed == candidate {
					return true
				}
			}
			return false
		},
	}
}

// rulesByField drives the validator. Rules run in order and every failing
// rule contributes its message, so a field can carry several errors at once.
var rulesByField = map[string][]Rule{
	"first_name": {
		required("First name is required"),
		minLength(2, "First name must be at least 2 characters"),
		maxLength(50, "First name must be at most 50 characters"),
		pattern(namePattern, "First name contains invalid characters"),
	},
	"last_name": {
		required("Last name is required"),
		minLength(2, "Last name must be at least 2 characters"),
		maxLength(50, "Last name must be at most 50 characters"),
		pattern(namePattern, "Last name contains invalid characters"),
	},
	"email": {
		required("Email is required"),
		maxLength(254, "Email is too long"),
		pattern(emailPattern, "Enter a valid email address"),
	},
	"phone": {
		required("Phone number is required"),
		pattern(phonePattern, "Enter a valid phone number"),
	},
	"street": {
		required("Street address is required"),
		minLength(3, "Street address must be at least 3 characters"),
		maxLength(100, "Street address must be at most 100 characters"),
	},
	"city": {
		required("City is required"),
		minLength(2, "City must be at least 2 characters"),
		maxLength(50, "City must be at most 50 characters"),
	},
	"postal_code": {
		required("Postal code is required"),
		postalCode(),
	},
	"country": {
		required("Country is required"),
		minLength(2, "Use the 2-letter country code"),
		maxLength(2, "Use the 2-letter country code"),
	},
	"delivery_method": {
		required("Choose a delivery method"),
		oneOf([]string{"standard", "express"}, "Unknown delivery method"),
	},
}
