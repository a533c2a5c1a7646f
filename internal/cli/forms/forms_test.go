package forms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

func validInvoice() InvoiceForm {
	return InvoiceForm{
		ClienteID: "42",
		Numero:    "2024/001",
		Data:      "2024-03-15",
		Importo:   "1250,50",
		StatoID:   "2",
	}
}

func TestInvoiceForm_MissingStatus(t *testing.T) {
	f := validInvoice()
	f.StatoID = "  "

	err := f.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, MsgStatusRequired, err.Error())
}

func TestInvoiceForm_Payload(t *testing.T) {
	customerID, input, err := validInvoice().Payload()
	require.NoError(t, err)

	assert.Equal(t, client.ID("42"), customerID)
	assert.Equal(t, "2024/001", input.Numero)
	assert.Equal(t, "2024-03-15", input.Data)
	assert.InDelta(t, 1250.50, input.Importo, 0.001)

	body, err := json.Marshal(input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"numero":"2024/001","data":"2024-03-15","importo":1250.5,"stato":{"id":"2"}}`, string(body))
}

func TestInvoiceForm_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InvoiceForm)
		want   string
	}{
		{"bad date", func(f *InvoiceForm) { f.Data = "15/03/2024" }, "date must be in YYYY-MM-DD format"},
		{"bad amount", func(f *InvoiceForm) { f.Importo = "abc" }, "amount must be a number"},
		{"NaN amount", func(f *InvoiceForm) { f.Importo = "NaN" }, "amount must be a number"},
		{"infinite amount", func(f *InvoiceForm) { f.Importo = "-inf" }, "amount must be a number"},
		{"hex amount", func(f *InvoiceForm) { f.Importo = "0x1p4" }, "amount must be a number"},
		{"grouped amount", func(f *InvoiceForm) { f.Importo = "1_000" }, "amount must be a number"},
		{"no number", func(f *InvoiceForm) { f.Numero = "" }, "invoice number is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validInvoice()
			tt.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCustomerForm_RequiredFieldsCollapse(t *testing.T) {
	err := CustomerForm{RagioneSociale: "Acme"}.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{MsgCustomerRequired}, ve.Messages)
}

func TestCustomerForm_Payload(t *testing.T) {
	input, err := CustomerForm{
		RagioneSociale:   " Acme ",
		PartitaIva:       "01234567890",
		Email:            "info@acme.it",
		FatturatoAnnuale: "1000000",
		TipoCliente:      "srl",
		SedeLegaleID:     "7",
		Telefono:         "   ",
	}.Payload()
	require.NoError(t, err)

	assert.Equal(t, "Acme", input.RagioneSociale)
	assert.Equal(t, "SRL", input.TipoCliente)
	assert.Nil(t, input.Telefono)
	assert.Nil(t, input.Pec)
	assert.Nil(t, input.IndirizzoSedeOperativa)
	require.NotNil(t, input.FatturatoAnnuale)
	assert.Equal(t, 1000000.0, *input.FatturatoAnnuale)
	require.NotNil(t, input.IndirizzoSedeLegale)
	assert.Equal(t, client.ID("7"), input.IndirizzoSedeLegale.ID)

	body, err := json.Marshal(input)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"telefono":null`)
	assert.Contains(t, string(body), `"indirizzoSedeLegale":{"id":"7"}`)
}

func TestCustomerForm_InvalidValues(t *testing.T) {
	err := CustomerForm{
		RagioneSociale: "Acme",
		PartitaIva:     "01234567890",
		Email:          "not-an-email",
		TipoCliente:    "LLC",
		SedeLegaleID:   "7",
	}.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Messages, "email is not a valid address")
	assert.Contains(t, ve.Messages, "client type must be one of: PA, SAS, SPA, SRL")
}

func TestAddressForm_Payload(t *testing.T) {
	input, err := AddressForm{
		Via:    "Via Roma",
		Civico: "10",
		Cap:    "20121",
		Comune: "Milano",
	}.Payload()
	require.NoError(t, err)
	assert.Equal(t, 20121, input.Cap)
	assert.Equal(t, "", input.Localita)
}

func TestAddressForm_NonNumericPostcode(t *testing.T) {
	_, err := AddressForm{Via: "Via Roma", Civico: "10", Cap: "20A21", Comune: "Milano"}.Payload()
	require.Error(t, err)
	assert.Equal(t, "postcode must be numeric", err.Error())
}

func TestRegisterForm(t *testing.T) {
	reg, err := RegisterForm{
		Nome:     "Luca",
		Cognome:  "Bianchi",
		Username: "luca",
		Email:    "luca@example.com",
		Password: "secret",
	}.Payload()
	require.NoError(t, err)
	assert.Equal(t, client.DefaultRole, reg.Ruolo)

	_, err = RegisterForm{Username: "luca"}.Payload()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Messages, 4)
}

func TestParseDecimal(t *testing.T) {
	v, err := parseDecimal("12,5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = parseDecimal("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = parseDecimal(" -3 ")
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)

	v, err = parseDecimal(",5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	for _, in := range []string{"1.000,50", "NaN", "Inf", "+Inf", "-inf", "0x1p4", "1_000", "1e3", "1.2.3", "", "."} {
		_, err = parseDecimal(in)
		assert.Error(t, err, in)
	}
}
