package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

func TestCustomers(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.Customers(&client.Page[client.Customer]{
		Content: []client.Customer{
			{ID: "1", RagioneSociale: "Acme", TipoCliente: "SRL", PartitaIva: "0123", Email: "a@acme.it",
				IndirizzoSedeLegale: &client.Address{Via: "Via Roma", Civico: "1", Comune: "Milano"}},
			{ID: "2", RagioneSociale: "Beta"},
		},
		TotalPages: 1,
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "COMPANY")
	assert.Contains(t, lines[2], "Via Roma, 1 (Milano)")
	assert.Contains(t, lines[3], "Beta")
	assert.Contains(t, lines[3], Missing)
	assert.NotContains(t, buf.String(), "Page ")
}

func TestCustomers_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Customers(&client.Page[client.Customer]{})
	assert.Equal(t, "No clients found.\n", buf.String())
}

func TestAddresses_PageFooter(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Addresses(&client.Page[client.Address]{
		Content:       []client.Address{{ID: "9", Via: "Via Po", Civico: "3", Cap: 100, Comune: "Roma"}},
		Number:        1,
		TotalPages:    3,
		TotalElements: 21,
	})

	assert.Contains(t, buf.String(), "Via Po, 3")
	assert.Contains(t, buf.String(), "00100")
	assert.Contains(t, buf.String(), "Page 2 of 3 (21 total)")
}

func TestInvoices(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Invoices(&client.Page[client.Invoice]{
		Content: []client.Invoice{
			{ID: "5", Numero: "F1", Data: "2024-01-10", Importo: 12.5, Stato: &client.InvoiceStatus{ID: "3", Label: StatusPaid}},
			{ID: "6", Numero: "F2", Data: "2024-01-11", Importo: 3},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "12,50 €")
	assert.Contains(t, out, StatusPaid)
	// missing client and status
	assert.Equal(t, 2, strings.Count(strings.Split(out, "\n")[3], Missing))
}

func TestStatus_Colours(t *testing.T) {
	plain := New(&bytes.Buffer{}, false)
	assert.Equal(t, StatusInProgress, plain.Status(&client.InvoiceStatus{Label: StatusInProgress}))
	assert.Equal(t, Missing, plain.Status(nil))

	coloured := New(&bytes.Buffer{}, true)
	paid := coloured.Status(&client.InvoiceStatus{Label: StatusPaid})
	issued := coloured.Status(&client.InvoiceStatus{Label: "EMESSA"})
	assert.Contains(t, paid, StatusPaid)
	assert.Contains(t, paid, "\033[")
	assert.NotEqual(t, green("X"), red("X"))
	assert.Equal(t, red("EMESSA"), issued)
}

func TestUser(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).User(&client.User{Username: "mario", Nome: "Mario", Cognome: "Rossi", Email: "mario@example.com"})

	assert.Contains(t, buf.String(), "Mario Rossi\n@mario\n")
	assert.Contains(t, buf.String(), "Email: mario@example.com")
	assert.Contains(t, buf.String(), "Role:  N/D")
}
