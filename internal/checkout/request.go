package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"optique-store/internal/model"
)

// phonePattern accepts digits with an optional leading plus and common
// separators, e.g. "+216 12 345 678".
var phonePattern = regexp.MustCompile(`^[+]?[0-9\s-]+$`)

// ValidationErrors maps field names to messages for inline display. These
// are rejected before any network call is issued.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// ValidateRequest applies the client-local checkout rules: name 2-100
// characters, phone 8-20 characters in a recognised format, notes at most
// 500 characters, and an address only when the order is home-delivered.
func ValidateRequest(req model.CheckoutRequest) error {
	errs := ValidationErrors{}

	name := strings.TrimSpace(req.CustomerName)
	if utf8.RuneCountInString(name) < 2 {
		errs["customerName"] = "Name must contain at least 2 characters"
	} else if utf8.RuneCountInString(name) > 100 {
		errs["customerName"] = "Name cannot exceed 100 characters"
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if len(phone) < 8 || len(phone) > 20 || !phonePattern.MatchString(phone) {
		errs["customerPhone"] = "Invalid phone number"
	}

	switch req.DeliveryMethod {
	case model.DeliveryPickup:
		// Address not required and omitted from the request.
	case model.DeliveryHome:
		if strings.TrimSpace(req.CustomerAddress) == "" {
			errs["customerAddress"] = "A delivery address is required"
		}
	default:
		errs["deliveryMethod"] = "Delivery method must be pickup or delivery"
	}

	if utf8.RuneCountInString(req.Notes) > 500 {
		errs["notes"] = "Notes cannot exceed 500 characters"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
