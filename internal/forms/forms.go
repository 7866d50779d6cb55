package forms

import "strings"

// CheckoutForm is the customer-entered checkout data. Field names mirror
// the json keys the storefront submits.
type CheckoutForm struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Street         string `json:"street"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	DeliveryMethod string `json:"delivery_method"`
	Newsletter     bool   `json:"newsletter"`
	TermsAccepted  bool   `json:"terms_accepted"`
}

// Result carries per-field error messages. An empty map means the form is
// acceptable.
type Result struct {
	Valid  bool                `json:"is_valid"`
	Errors map[string][]string `json:"errors"`
}

func (f CheckoutForm) valueOf(field string) string {
	switch field {
	case "first_name":
		return f.FirstName
	case "last_name":
		return f.LastName
	case "email":
		return f.Email
	case "phone":
		return f.Phone
	case "street":
		return f.Street
	case "city":
		return f.City
	case "postal_code":
		return f.PostalCode
	case "country":
		return f.Country
	case "delivery_method":
		return f.DeliveryMethod
	default:
		return ""
	}
}

// KnownField reports whether a field name has a rule set. Used by the
// single-field validation endpoint to reject typos early.
func KnownField(field string) bool {
	_, ok := rulesByField[field]
	return ok
}

// ValidateField runs every rule for one field and returns all failing
// messages, so the storefront can show the full list at once.
func ValidateField(field string, form CheckoutForm) []string {
	rules, ok := rulesByField[field]
	if !ok {
		return nil
	}
	value := form.valueOf(field)

	var messages []string
	for _, rule := range rules {
		if !rule.Check(value, form) {
			messages = append(messages, rule.Message)
		}
	}
	return messages
}

// ValidateForm validates every field plus the terms checkbox and merges
// the failures into one field-keyed map.
func ValidateForm(form CheckoutForm) Result {
	errors := map[string][]string{}

	for field := range rulesByField {
		if messages := ValidateField(field, form); len(messages) > 0 {
			errors[field] = messages
		}
	}
	if !form.TermsAccepted {
		errors["terms_accepted"] = []string{"You must accept the terms and conditions"}
	}

	return Result{Valid: len(errors) == 0, Errors: errors}
}

// Normalize trims whitespace and canonicalizes the country code. Applied
// before validation so stored and displayed values match.
func Normalize(form CheckoutForm) CheckoutForm {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(strings.ToLower(form.Email))
	form.Phone = strings.TrimSpace(form.Phone)
	form.Street = strings.TrimSpace(form.Street)
	form.City = strings.TrimSpace(form.City)
	form.PostalCode = strings.TrimSpace(form.PostalCode)
	form.Country = strings.ToUpper(strings.TrimSpace(form.Country))
	form.DeliveryMethod = strings.TrimSpace(form.DeliveryMethod)
	return form
}
