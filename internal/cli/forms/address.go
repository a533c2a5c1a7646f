package forms

import (
	"strconv"
	"strings"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

// AddressForm is the new-address form
type AddressForm struct {
	Via      string `validate:"required"`
	Civico   string `validate:"required"`
	Localita string
	Cap      string `validate:"required,number"`
	Comune   string `validate:"required"`
}

var addressMessages = map[string]string{
	"Via.required":    "street is required",
	"Civico.required": "street number is required",
	"Cap.required":    "postcode is required",
	"Cap.number":      "postcode must be numeric",
	"Comune.required": "municipality is required",
}

// Validate checks the form without touching the network
func (f AddressForm) Validate() error {
	return check(f.trimmed(), addressMessages)
}

// Payload validates and builds the create-address request body
func (f AddressForm) Payload() (client.AddressInput, error) {
	if err := f.Validate(); err != nil {
		return client.AddressInput{}, err
	}

	t := f.trimmed()
	postcode, err := strconv.Atoi(t.Cap)
	if err != nil {
		return client.AddressInput{}, &ValidationError{Messages: []string{addressMessages["Cap.number"]}}
	}
	return client.AddressInput{
		Via:      t.Via,
		Civico:   t.Civico,
		Localita: t.Localita,
		Cap:      postcode,
		Comune:   t.Comune,
	}, nil
}

func (f AddressForm) trimmed() AddressForm {
	return AddressForm{
		Via:      strings.TrimSpace(f.Via),
		Civico:   strings.TrimSpace(f.Civico),
		Localita: strings.TrimSpace(f.Localita),
		Cap:      strings.TrimSpace(f.Cap),
		Comune:   strings.TrimSpace(f.Comune),
	}
}
