// Package render prints backend records as text tables.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

// Missing is shown in place of absent values
const Missing = "N/D"

// Invoice status labels with a dedicated colour
const (
	StatusPaid       = "PAGATA"
	StatusInProgress = "IN_CORSO"
)

var (
	green  = promptui.Styler(promptui.FGGreen, promptui.FGBold)
	yellow = promptui.Styler(promptui.FGYellow, promptui.FGBold)
	red    = promptui.Styler(promptui.FGRed, promptui.FGBold)
)

// Renderer writes tables to w
type Renderer struct {
	w       io.Writer
	color   bool
	printer *message.Printer
}

// New creates a renderer; color enables ANSI styling of statuses
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{
		w:       w,
		color:   color,
		printer: message.NewPrinter(language.Italian),
	}
}

// Currency formats an amount in euro using Italian separators
func (r *Renderer) Currency(amount float64) string {
	return r.printer.Sprintf("%.2f €", amount)
}

// Status returns the status label, coloured when enabled
func (r *Renderer) Status(s *client.InvoiceStatus) string {
	label := Missing
	if s != nil && s.Label != "" {
		label = s.Label
	}
	if !r.color {
		return label
	}

	switch label {
	case StatusPaid:
		return green(label)
	case StatusInProgress:
		return yellow(label)
	default:
		return red(label)
	}
}

func (r *Renderer) table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("─", len([]rune(h)))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(rule, "\t"))
	return w
}

func (r *Renderer) pageFooter(number, totalPages, totalElements int) {
	if totalPages <= 1 {
		return
	}
	fmt.Fprintf(r.w, "\nPage %d of %d (%d total)\n", number+1, totalPages, totalElements)
}

// Customers prints a page of clients
func (r *Renderer) Customers(page *client.Page[client.Customer]) {
	if page == nil || len(page.Content) == 0 {
		fmt.Fprintln(r.w, "No clients found.")
		return
	}

	w := r.table("ID", "COMPANY", "TYPE", "VAT NUMBER", "EMAIL", "LEGAL ADDRESS")
	for _, c := range page.Content {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			orMissing(c.RagioneSociale),
			orMissing(c.TipoCliente),
			orMissing(c.PartitaIva),
			orMissing(c.Email),
			addressLine(c.IndirizzoSedeLegale),
		)
	}
	w.Flush()
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
}

// Addresses prints a page of addresses
func (r *Renderer) Addresses(page *client.Page[client.Address]) {
	if page == nil || len(page.Content) == 0 {
		fmt.Fprintln(r.w, "No addresses found.")
		return
	}

	w := r.table("ID", "STREET", "POSTCODE", "LOCALITY", "MUNICIPALITY")
	for _, a := range page.Content {
		fmt.Fprintf(w, "%s\t%s, %s\t%05d\t%s\t%s\n",
			a.ID,
			a.Via,
			a.Civico,
			a.Cap,
			a.Localita,
			a.Comune,
		)
	}
	w.Flush()
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
}

// Invoices prints a page of invoices
func (r *Renderer) Invoices(page *client.Page[client.Invoice]) {
	if page == nil || len(page.Content) == 0 {
		fmt.Fprintln(r.w, "No invoices found.")
		return
	}

	w := r.table("ID", "CLIENT", "NUMBER", "DATE", "AMOUNT", "STATUS")
	for _, inv := range page.Content {
		customer := Missing
		if inv.Cliente != nil && inv.Cliente.RagioneSociale != "" {
			customer = inv.Cliente.RagioneSociale
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID,
			customer,
			inv.Numero,
			inv.Data,
			r.Currency(inv.Importo),
			r.Status(inv.Stato),
		)
	}
	w.Flush()
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
}

// Statuses prints the invoice status list
func (r *Renderer) Statuses(statuses []client.InvoiceStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(r.w, "No invoice statuses found.")
		return
	}

	w := r.table("ID", "STATUS")
	for i := range statuses {
		fmt.Fprintf(w, "%s\t%s\n", statuses[i].ID, r.Status(&statuses[i]))
	}
	w.Flush()
}

// User prints the profile card
func (r *Renderer) User(u *client.User) {
	fmt.Fprintf(r.w, "%s %s\n", u.Nome, u.Cognome)
	fmt.Fprintf(r.w, "@%s\n\n", u.Username)
	fmt.Fprintf(r.w, "Email: %s\n", orMissing(u.Email))
	fmt.Fprintf(r.w, "Role:  %s\n", orMissing(u.Ruolo))
}

func addressLine(a *client.Address) string {
	if a == nil {
		return Missing
	}
	return fmt.Sprintf("%s, %s (%s)", a.Via, a.Civico, a.Comune)
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}
