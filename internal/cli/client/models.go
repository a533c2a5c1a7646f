package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ID is a backend identifier. The backend may send numbers or strings;
// both decode to the same textual form and are sent back as strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Ref references another resource by id, e.g. {"id": "3"}
type Ref struct {
	ID ID `json:"id"`
}

// Page is the backend's paged list envelope
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

// PageRequest selects a page. Zero values leave the choice to the backend.
type PageRequest struct {
	Page int // zero-based
	Size int
}

func (p PageRequest) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	return q
}

// Client types accepted by the backend
var CustomerTypes = []string{"PA", "SAS", "SPA", "SRL"}

// Customer is a client company ("cliente")
type Customer struct {
	ID                     ID       `json:"id"`
	RagioneSociale         string   `json:"ragioneSociale"`
	PartitaIva             string   `json:"partitaIva"`
	Email                  string   `json:"email"`
	Pec                    string   `json:"pec"`
	Telefono               string   `json:"telefono"`
	FatturatoAnnuale       *float64 `json:"fatturatoAnnuale"`
	LogoAziendale          string   `json:"logoAziendale"`
	TipoCliente            string   `json:"tipoCliente"`
	EmailContatto          string   `json:"emailContatto"`
	NomeContatto           string   `json:"nomeContatto"`
	CognomeContatto        string   `json:"cognomeContatto"`
	TelefonoContatto       string   `json:"telefonoContatto"`
	IndirizzoSedeLegale    *Address `json:"indirizzoSedeLegale"`
	IndirizzoSedeOperativa *Address `json:"indirizzoSedeOperativa"`
}

// CustomerInput is the create-client payload. Nil pointers are sent as null.
type CustomerInput struct {
	RagioneSociale         string   `json:"ragioneSociale"`
	PartitaIva             string   `json:"partitaIva"`
	Email                  string   `json:"email"`
	Pec                    *string  `json:"pec"`
	Telefono               *string  `json:"telefono"`
	FatturatoAnnuale       *float64 `json:"fatturatoAnnuale"`
	LogoAziendale          *string  `json:"logoAziendale"`
	TipoCliente            string   `json:"tipoCliente"`
	EmailContatto          *string  `json:"emailContatto"`
	NomeContatto           *string  `json:"nomeContatto"`
	CognomeContatto        *string  `json:"cognomeContatto"`
	TelefonoContatto       *string  `json:"telefonoContatto"`
	IndirizzoSedeLegale    *Ref     `json:"indirizzoSedeLegale"`
	IndirizzoSedeOperativa *Ref     `json:"indirizzoSedeOperativa"`
}

// Address is a postal address ("indirizzo")
type Address struct {
	ID       ID     `json:"id"`
	Via      string `json:"via"`
	Civico   string `json:"civico"`
	Localita string `json:"localita"`
	Cap      int    `json:"cap"`
	Comune   string `json:"comune"`
}

// AddressInput is the create-address payload
type AddressInput struct {
	Via      string `json:"via"`
	Civico   string `json:"civico"`
	Localita string `json:"localita"`
	Cap      int    `json:"cap"`
	Comune   string `json:"comune"`
}

// InvoiceStatus is one of the backend's invoice states
type InvoiceStatus struct {
	ID    ID
	Label string
}

// UnmarshalJSON reads the label from statoFattura, nome or code,
// whichever the backend sends.
func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           ID     `json:"id"`
		StatoFattura string `json:"statoFattura"`
		Nome         string `json:"nome"`
		Code         string `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = raw.ID
	switch {
	case raw.StatoFattura != "":
		s.Label = raw.StatoFattura
	case raw.Nome != "":
		s.Label = raw.Nome
	default:
		s.Label = raw.Code
	}
	return nil
}

// Invoice is an invoice ("fattura")
type Invoice struct {
	ID      ID             `json:"id"`
	Numero  string         `json:"numero"`
	Data    string         `json:"data"`
	Importo float64        `json:"importo"`
	Stato   *InvoiceStatus `json:"stato"`
	Cliente *Customer      `json:"cliente"`
}

// InvoiceInput is the create-invoice payload
type InvoiceInput struct {
	Numero  string  `json:"numero"`
	Data    string  `json:"data"`
	Importo float64 `json:"importo"`
	Stato   Ref     `json:"stato"`
}

// User is the authenticated user's profile
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
	Cognome  string `json:"cognome"`
	Email    string `json:"email"`
	Ruolo    string `json:"ruolo"`
}

// DefaultRole is assigned to self-registered users
const DefaultRole = "ROLE_USER"

// Registration is the sign-up payload
type Registration struct {
	Nome     string `json:"nome"`
	Cognome  string `json:"cognome"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Ruolo    string `json:"ruolo"`
}

// Credentials is the login payload
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse accepts either accessToken or token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

// BearerToken returns whichever token field was set
func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}
