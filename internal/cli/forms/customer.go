package forms

import (
	"strings"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

// CustomerForm is the new-client form
type CustomerForm struct {
	RagioneSociale   string `validate:"required"`
	PartitaIva       string `validate:"required"`
	Email            string `validate:"required,email"`
	Pec              string `validate:"omitempty,email"`
	Telefono         string
	FatturatoAnnuale string `validate:"omitempty,decimal"`
	LogoAziendale    string `validate:"omitempty,url"`
	TipoCliente      string `validate:"required,oneof=PA SAS SPA SRL"`
	EmailContatto    string `validate:"omitempty,email"`
	NomeContatto     string
	CognomeContatto  string
	TelefonoContatto string
	SedeLegaleID     string `validate:"required"`
	SedeOperativaID  string
}

var customerMessages = map[string]string{
	"RagioneSociale.required":  MsgCustomerRequired,
	"PartitaIva.required":      MsgCustomerRequired,
	"Email.required":           MsgCustomerRequired,
	"TipoCliente.required":     MsgCustomerRequired,
	"SedeLegaleID.required":    MsgCustomerRequired,
	"Email.email":              "email is not a valid address",
	"Pec.email":                "PEC is not a valid address",
	"EmailContatto.email":      "contact email is not a valid address",
	"FatturatoAnnuale.decimal": "annual revenue must be a number",
	"LogoAziendale.url":        "logo must be a URL",
	"TipoCliente.oneof":        "client type must be one of: " + strings.Join(client.CustomerTypes, ", "),
}

// Validate checks the form without touching the network
func (f CustomerForm) Validate() error {
	return check(f.trimmed(), customerMessages)
}

// Payload validates and builds the create-client request body.
// Blank optional fields are sent as null.
func (f CustomerForm) Payload() (client.CustomerInput, error) {
	if err := f.Validate(); err != nil {
		return client.CustomerInput{}, err
	}

	t := f.trimmed()
	input := client.CustomerInput{
		RagioneSociale:      t.RagioneSociale,
		PartitaIva:          t.PartitaIva,
		Email:               t.Email,
		Pec:                 optional(t.Pec),
		Telefono:            optional(t.Telefono),
		LogoAziendale:       optional(t.LogoAziendale),
		TipoCliente:         t.TipoCliente,
		EmailContatto:       optional(t.EmailContatto),
		NomeContatto:        optional(t.NomeContatto),
		CognomeContatto:     optional(t.CognomeContatto),
		TelefonoContatto:    optional(t.TelefonoContatto),
		IndirizzoSedeLegale: &client.Ref{ID: client.ID(t.SedeLegaleID)},
	}
	if t.FatturatoAnnuale != "" {
		revenue, _ := parseDecimal(t.FatturatoAnnuale)
		input.FatturatoAnnuale = &revenue
	}
	if t.SedeOperativaID != "" {
		input.IndirizzoSedeOperativa = &client.Ref{ID: client.ID(t.SedeOperativaID)}
	}
	return input, nil
}

func (f CustomerForm) trimmed() CustomerForm {
	return CustomerForm{
		RagioneSociale:   strings.TrimSpace(f.RagioneSociale),
		PartitaIva:       strings.TrimSpace(f.PartitaIva),
		Email:            strings.TrimSpace(f.Email),
		Pec:              strings.TrimSpace(f.Pec),
		Telefono:         strings.TrimSpace(f.Telefono),
		FatturatoAnnuale: strings.TrimSpace(f.FatturatoAnnuale),
		LogoAziendale:    strings.TrimSpace(f.LogoAziendale),
		TipoCliente:      strings.ToUpper(strings.TrimSpace(f.TipoCliente)),
		EmailContatto:    strings.TrimSpace(f.EmailContatto),
		NomeContatto:     strings.TrimSpace(f.NomeContatto),
		CognomeContatto:  strings.TrimSpace(f.CognomeContatto),
		TelefonoContatto: strings.TrimSpace(f.TelefonoContatto),
		SedeLegaleID:     strings.TrimSpace(f.SedeLegaleID),
		SedeOperativaID:  strings.TrimSpace(f.SedeOperativaID),
	}
}
