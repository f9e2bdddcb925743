package checkout

import (
	"errors"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

// PaymentForm is the card data collected at checkout. The CVV is checked
// locally and never sent to the backend.
type PaymentForm struct {
	CardName   string `validate:"required"`
	CardNumber string `validate:"required,cardnumber"`
	Expiry     string `validate:"required,expiry"`
	CVV        string `validate:"required,cvv"`
}

// Digits returns the card number with whitespace stripped.
func (p PaymentForm) Digits() string {
	return strings.ReplaceAll(p.CardNumber, " ", "")
}

// AddressForm is the manually entered shipping address.
type AddressForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Address   string `validate:"required"`
}

// FieldErrors maps field names to validation problems. These are reported
// inline and never sent to the server.
type FieldErrors map[string]string

// Error implements the error interface.
func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, problem := range f {
		parts = append(parts, field+": "+problem)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Forms validates checkout form state before submission is allowed.
type Forms struct {
	validate *validator.Validate
}

// NewForms constructs the checkout form validator.
func NewForms() *Forms {
	v := validator.New()
	mustRegister(v, "cardnumber", func(fl validator.FieldLevel) bool {
		return cardNumberPattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	mustRegister(v, "expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "cvv", func(fl validator.FieldLevel) bool {
		return cvvPattern.MatchString(fl.Field().String())
	})
	return &Forms{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Payment checks the payment form, returning per-field problems.
func (f *Forms) Payment(form PaymentForm) error {
	return f.collect(f.validate.Struct(form), map[string]string{
		"CardName":   "cardholder name is required",
		"CardNumber": "card number must be 16 digits",
		"Expiry":     "expiry must be MM/YY",
		"CVV":        "security code must be 3 digits",
	})
}

// Address checks the manual address form, returning per-field problems.
func (f *Forms) Address(form AddressForm) error {
	return f.collect(f.validate.Struct(form), map[string]string{
		"FirstName": "first name is required",
		"LastName":  "last name is required",
		"Address":   "address is required",
	})
}

func (f *Forms) collect(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "invalid value"
		}
		fields[fe.Field()] = msg
	}
	return fields
}

// HasDefaultAddress reports whether the profile carries a complete saved
// shipping address.
func HasDefaultAddress(profile api.User) bool {
	return strings.TrimSpace(profile.FirstName) != "" &&
		strings.TrimSpace(profile.LastName) != "" &&
		strings.TrimSpace(profile.Address) != ""
}
