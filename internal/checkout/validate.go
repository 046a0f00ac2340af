package checkout

import (
	"strings"

	"github.com/Arsh369/thekitabart/internal/domain"
)

// Form is the user-entered order data for one checkout attempt.
type Form struct {
	FullName      string               `json:"fullName"`
	Email         string               `json:"email"`
	PhoneNumber   string               `json:"phoneNumber"`
	StreetAddress string               `json:"streetAddress"`
	City          string               `json:"city"`
	State         string               `json:"state"`
	ZipCode       string               `json:"zipCode"`
	Country       string               `json:"country"`
	DeliveryNote  string               `json:"deliveryNote"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

// Validate checks the form the way the checkout page does: every field is
// required except the delivery note. Returns nil when the form is valid.
func Validate(form Form) FieldErrors {
	errs := FieldErrors{}

	require(errs, "fullName", form.FullName)
	require(errs, "phoneNumber", form.PhoneNumber)
	require(errs, "streetAddress", form.StreetAddress)
	require(errs, "city", form.City)
	require(errs, "state", form.State)
	require(errs, "zipCode", form.ZipCode)
	require(errs, "country", form.Country)

	if strings.TrimSpace(form.Email) == "" {
		errs["email"] = "required"
	} else if !validEmail(form.Email) {
		errs["email"] = "must be a valid email address"
	}

	if !form.PaymentMethod.Valid() {
		errs["paymentMethod"] = "unsupported payment method"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func require(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "required"
	}
}

// validEmail wants a local part and a dotted domain segment. Anything
// stricter is the order service's problem.
func validEmail(s string) bool {
	local, dom, ok := strings.Cut(s, "@")
	if !ok || local == "" || dom == "" {
		return false
	}
	return strings.Contains(dom, ".") && !strings.HasPrefix(dom, ".") && !strings.HasSuffix(dom, ".")
}
