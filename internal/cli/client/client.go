package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gestione-dev/gestione/internal/cli/gateway"
)

// Doer executes backend requests
type Doer interface {
	Do(ctx context.Context, req gateway.Request) gateway.Result
	DoPublic(ctx context.Context, req gateway.Request) gateway.Result
}

// Fallback messages shown when the backend gives no reason
const (
	MsgLoginFailed        = "login failed"
	MsgRegisterFailed     = "error during registration"
	MsgProfileFailed      = "unable to load profile data"
	MsgCustomersFailed    = "unable to load clients"
	MsgAddressesFailed    = "unable to load addresses"
	MsgInvoicesFailed     = "unable to load invoices"
	MsgStatusesFailed     = "unable to load invoice statuses"
	MsgCreateCustomerFail = "error creating the client"
	MsgCreateAddressFail  = "error creating the address"
	MsgCreateInvoiceFail  = "error creating the invoice"
	MsgDeleteFailed       = "error during deletion"
)

// Client is a typed client for the business-management API
type Client struct {
	gw           Doer
	statusesPath string
}

// New creates a client over gw. statusesPath is the invoice status endpoint.
func New(gw Doer, statusesPath string) *Client {
	if statusesPath == "" {
		statusesPath = "/api/statifattura"
	}
	return &Client{gw: gw, statusesPath: statusesPath}
}

// Login authenticates and returns the bearer token
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	res := c.gw.DoPublic(ctx, gateway.Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     creds,
		Fallback: MsgLoginFailed,
	})

	var resp LoginResponse
	if err := res.Decode(&resp); err != nil {
		return "", err
	}

	token := strings.TrimSpace(resp.BearerToken())
	if token == "" {
		return "", fmt.Errorf("login response did not include a token")
	}
	return token, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if reg.Ruolo == "" {
		reg.Ruolo = DefaultRole
	}
	res := c.gw.DoPublic(ctx, gateway.Request{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     reg,
		Fallback: MsgRegisterFailed,
	})
	return res.Err()
}

// CurrentUser returns the authenticated user's profile
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/utenti/me", PageRequest{}, MsgProfileFailed, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListCustomers returns a page of clients
func (c *Client) ListCustomers(ctx context.Context, page PageRequest) (*Page[Customer], error) {
	var result Page[Customer]
	if err := c.get(ctx, "/clienti", page, MsgCustomersFailed, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCustomer creates a client
func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	var created Customer
	if err := c.create(ctx, "/clienti", input, MsgCreateCustomerFail, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCustomer deletes a client by id
func (c *Client) DeleteCustomer(ctx context.Context, id ID) error {
	return c.delete(ctx, "/clienti/"+escape(id))
}

// ListAddresses returns a page of addresses
func (c *Client) ListAddresses(ctx context.Context, page PageRequest) (*Page[Address], error) {
	var result Page[Address]
	if err := c.get(ctx, "/api/indirizzi", page, MsgAddressesFailed, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateAddress creates an address
func (c *Client) CreateAddress(ctx context.Context, input AddressInput) (*Address, error) {
	var created Address
	if err := c.create(ctx, "/api/indirizzi", input, MsgCreateAddressFail, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAddress deletes an address by id
func (c *Client) DeleteAddress(ctx context.Context, id ID) error {
	return c.delete(ctx, "/api/indirizzi/"+escape(id))
}

// ListInvoices returns a page of invoices
func (c *Client) ListInvoices(ctx context.Context, page PageRequest) (*Page[Invoice], error) {
	var result Page[Invoice]
	if err := c.get(ctx, "/fatture", page, MsgInvoicesFailed, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateInvoice creates an invoice for the given client
func (c *Client) CreateInvoice(ctx context.Context, customerID ID, input InvoiceInput) (*Invoice, error) {
	var created Invoice
	path := "/fatture/cliente/" + escape(customerID)
	if err := c.create(ctx, path, input, MsgCreateInvoiceFail, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteInvoice deletes an invoice by id
func (c *Client) DeleteInvoice(ctx context.Context, id ID) error {
	return c.delete(ctx, "/fatture/"+escape(id))
}

// ListInvoiceStatuses returns every invoice status.
// The endpoint may answer with a page envelope or a bare array.
func (c *Client) ListInvoiceStatuses(ctx context.Context) ([]InvoiceStatus, error) {
	var raw json.RawMessage
	if err := c.get(ctx, c.statusesPath, PageRequest{}, MsgStatusesFailed, &raw); err != nil {
		return nil, err
	}

	var statuses []InvoiceStatus
	if err := json.Unmarshal(raw, &statuses); err == nil {
		return statuses, nil
	}

	var page Page[InvoiceStatus]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &gateway.Error{Kind: gateway.OutcomeFailed, Message: MsgStatusesFailed, Err: err}
	}
	return page.Content, nil
}

func (c *Client) get(ctx context.Context, path string, page PageRequest, fallback string, out any) error {
	res := c.gw.Do(ctx, gateway.Request{
		Method:   http.MethodGet,
		Path:     path,
		Query:    page.query(),
		Fallback: fallback,
	})
	return decode(res, fallback, out)
}

func (c *Client) create(ctx context.Context, path string, body any, fallback string, out any) error {
	res := c.gw.Do(ctx, gateway.Request{
		Method:   http.MethodPost,
		Path:     path,
		Body:     body,
		Fallback: fallback,
	})
	return decode(res, fallback, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	res := c.gw.Do(ctx, gateway.Request{
		Method:   http.MethodDelete,
		Path:     path,
		Fallback: MsgDeleteFailed,
	})
	return res.Err()
}

// decode unmarshals a successful payload. A success without a body, or a body
// of the wrong shape, is reported with the operation's fallback message.
func decode(res gateway.Result, fallback string, out any) error {
	if err := res.Err(); err != nil {
		return err
	}
	if res.Outcome == gateway.OutcomeNoContent {
		return &gateway.Error{Kind: gateway.OutcomeFailed, Status: res.Status, Message: fallback}
	}
	if err := json.Unmarshal(res.Payload, out); err != nil {
		return &gateway.Error{Kind: gateway.OutcomeFailed, Status: res.Status, Message: fallback, Err: err}
	}
	return nil
}

func escape(id ID) string {
	return url.PathEscape(string(id))
}
