package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() ShippingForm {
	return ShippingForm{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		Address:       "14 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		PaymentMethod: "UPI",
	}
}

func TestValidateShippingFormAccepts(t *testing.T) {
	valid, errs := ValidateShippingForm(validForm())

	assert.True(t, valid)
	assert.Empty(t, errs)
}

func TestValidateShippingFormRequiredFields(t *testing.T) {
	valid, errs := ValidateShippingForm(ShippingForm{})

	assert.False(t, valid)
	assert.Equal(t, "First name is required", errs["first_name"])
	assert.Equal(t, "Last name is required", errs["last_name"])
	assert.Equal(t, "Email is required", errs["email"])
	assert.Equal(t, "Address is required", errs["address"])
	assert.Equal(t, "City is required", errs["city"])
	assert.Equal(t, "State is required", errs["state"])
}

func TestValidateShippingFormPhone(t *testing.T) {
	form := validForm()

	form.Phone = "123456789" // 9 chiffres
	valid, errs := ValidateShippingForm(form)
	assert.False(t, valid)
	assert.Equal(t, "Phone number must be 10 digits", errs["phone"])

	form.Phone = "1234567890"
	valid, errs = ValidateShippingForm(form)
	assert.True(t, valid)
	assert.NotContains(t, errs, "phone")
}

func TestValidateShippingFormPincode(t *testing.T) {
	form := validForm()

	form.Pincode = "12345" // 5 chiffres
	valid, errs := ValidateShippingForm(form)
	assert.False(t, valid)
	assert.Equal(t, "Pincode must be 6 digits", errs["pincode"])

	form.Pincode = "123456"
	valid, errs = ValidateShippingForm(form)
	assert.True(t, valid)
	assert.NotContains(t, errs, "pincode")
}

func TestValidateShippingFormCollectsAllErrors(t *testing.T) {
	form := ShippingForm{Phone: "12", Pincode: "999"}

	_, errs := ValidateShippingForm(form)

	// Pas de court-circuit : chaque règle est évaluée indépendamment
	assert.Len(t, errs, 9)
}

func TestValidateShippingFormRejectsNonUPIPayment(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "COD"

	valid, errs := ValidateShippingForm(form)

	assert.False(t, valid)
	assert.Equal(t, "Only UPI payment is supported", errs["payment_method"])
}

func TestValidateShippingFormUnknownState(t *testing.T) {
	form := validForm()
	form.State = "Atlantis"

	valid, errs := ValidateShippingForm(form)

	assert.False(t, valid)
	assert.Equal(t, "State is not serviceable", errs["state"])
}

func TestValidateShippingFormIdempotent(t *testing.T) {
	form := validForm()
	form.Phone = "42"
	form.City = ""

	_, first := ValidateShippingForm(form)
	_, second := ValidateShippingForm(form)

	assert.Equal(t, first, second)
}
