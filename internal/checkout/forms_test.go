package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

func validPayment() PaymentForm {
	return PaymentForm{
		CardName:   "Ada Lovelace",
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "12/27",
		CVV:        "123",
	}
}

func TestFormsPayment(t *testing.T) {
	forms := NewForms()

	t.Run("accepts a valid form", func(t *testing.T) {
		require.NoError(t, forms.Payment(validPayment()))
	})

	t.Run("accepts spaces in the card number", func(t *testing.T) {
		form := validPayment()
		form.CardNumber = "4111 1111 1111 1111"
		require.NoError(t, forms.Payment(form))
		require.Equal(t, "4111111111111111", form.Digits())
	})

	tests := []struct {
		name   string
		mutate func(*PaymentForm)
		field  string
		msg    string
	}{
		{"missing name", func(f *PaymentForm) { f.CardName = "" }, "CardName", "cardholder name is required"},
		{"short card number", func(f *PaymentForm) { f.CardNumber = "4111" }, "CardNumber", "card number must be 16 digits"},
		{"letters in card number", func(f *PaymentForm) { f.CardNumber = "4111x111111111111" }, "CardNumber", "card number must be 16 digits"},
		{"bad expiry format", func(f *PaymentForm) { f.Expiry = "2027-12" }, "Expiry", "expiry must be MM/YY"},
		{"short cvv", func(f *PaymentForm) { f.CVV = "12" }, "CVV", "security code must be 3 digits"},
		{"long cvv", func(f *PaymentForm) { f.CVV = "1234" }, "CVV", "security code must be 3 digits"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validPayment()
			tc.mutate(&form)

			err := forms.Payment(form)
			var fields FieldErrors
			require.ErrorAs(t, err, &fields)
			require.Equal(t, tc.msg, fields[tc.field])
		})
	}

	t.Run("reports every invalid field at once", func(t *testing.T) {
		err := forms.Payment(PaymentForm{})
		var fields FieldErrors
		require.ErrorAs(t, err, &fields)
		require.Len(t, fields, 4)
	})
}

func TestFormsAddress(t *testing.T) {
	forms := NewForms()

	require.NoError(t, forms.Address(AddressForm{FirstName: "Ada", LastName: "Lovelace", Address: "Av. Siempre Viva 742"}))

	err := forms.Address(AddressForm{FirstName: "Ada"})
	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Equal(t, "last name is required", fields["LastName"])
	require.Equal(t, "address is required", fields["Address"])
}

func TestHasDefaultAddress(t *testing.T) {
	require.True(t, HasDefaultAddress(api.User{FirstName: "Ada", LastName: "Lovelace", Address: "Av. Siempre Viva 742"}))
	require.False(t, HasDefaultAddress(api.User{FirstName: "Ada", LastName: "Lovelace"}))
	require.False(t, HasDefaultAddress(api.User{FirstName: " ", LastName: "Lovelace", Address: "x"}))
}
