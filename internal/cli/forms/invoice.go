package forms

import (
	"strings"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

// InvoiceForm is the new-invoice form
type InvoiceForm struct {
	ClienteID string `validate:"required"`
	Numero    string `validate:"required"`
	Data      string `validate:"required,datetime=2006-01-02"`
	Importo   string `validate:"required,decimal"`
	StatoID   string `validate:"required"`
}

var invoiceMessages = map[string]string{
	"ClienteID.required": "client id is required",
	"Numero.required":    "invoice number is required",
	"Data.required":      "date is required",
	"Data.datetime":      "date must be in YYYY-MM-DD format",
	"Importo.required":   "amount is required",
	"Importo.decimal":    "amount must be a number",
	"StatoID.required":   MsgStatusRequired,
}

// Validate checks the form without touching the network
func (f InvoiceForm) Validate() error {
	return check(f.trimmed(), invoiceMessages)
}

// Payload validates and builds the create-invoice request body
func (f InvoiceForm) Payload() (client.ID, client.InvoiceInput, error) {
	if err := f.Validate(); err != nil {
		return "", client.InvoiceInput{}, err
	}

	t := f.trimmed()
	amount, _ := parseDecimal(t.Importo)
	return client.ID(t.ClienteID), client.InvoiceInput{
		Numero:  t.Numero,
		Data:    t.Data,
		Importo: amount,
		Stato:   client.Ref{ID: client.ID(t.StatoID)},
	}, nil
}

func (f InvoiceForm) trimmed() InvoiceForm {
	return InvoiceForm{
		ClienteID: strings.TrimSpace(f.ClienteID),
		Numero:    strings.TrimSpace(f.Numero),
		Data:      strings.TrimSpace(f.Data),
		Importo:   strings.TrimSpace(f.Importo),
		StatoID:   strings.TrimSpace(f.StatoID),
	}
}
