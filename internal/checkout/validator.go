package checkout

import (
	"regexp"
	"strings"
)

// ShippingForm contient les informations de livraison et de paiement saisies
// par le client au checkout
type ShippingForm struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	PaymentMethod string `json:"payment_method"`
}

// PaymentMethodUPI est le seul mode de paiement accepté
const PaymentMethodUPI = "UPI"

var (
	phoneRegexp   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRegexp = regexp.MustCompile(`^[0-9]{6}$`)
)

// IndianStates : liste fixe des états et territoires livrables
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal", "Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu", "Delhi",
	"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

// IsValidState vérifie l'appartenance à la liste des états livrables
func IsValidState(state string) bool {
	for _, s := range IndianStates {
		if s == state {
			return true
		}
	}
	return false
}

// ValidateShippingForm valide champ par champ, sans court-circuit : toutes les
// erreurs sont collectées dans la map retournée. valid == (map vide).
// Idempotent : deux appels sur le même formulaire rendent la même map.
func ValidateShippingForm(form ShippingForm) (bool, map[string]string) {
	errs := make(map[string]string)

	if strings.TrimSpace(form.FirstName) == "" {
		errs["first_name"] = "First name is required"
	}
	if strings.TrimSpace(form.LastName) == "" {
		errs["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(form.Email) == "" {
		errs["email"] = "Email is required"
	}
	if !phoneRegexp.MatchString(form.Phone) {
		errs["phone"] = "Phone number must be 10 digits"
	}
	if strings.TrimSpace(form.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(form.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(form.State) == "" {
		errs["state"] = "State is required"
	} else if !IsValidState(form.State) {
		errs["state"] = "State is not serviceable"
	}
	if !pincodeRegexp.MatchString(form.Pincode) {
		errs["pincode"] = "Pincode must be 6 digits"
	}
	if form.PaymentMethod != PaymentMethodUPI {
		errs["payment_method"] = "Only UPI payment is supported"
	}

	return len(errs) == 0, errs
}
