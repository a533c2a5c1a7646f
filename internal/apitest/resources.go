package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type refRecord struct {
	ID string `json:"id"`
}

type addressRecord struct {
	ID       string `json:"id"`
	Via      string `json:"via"`
	Civico   string `json:"civico"`
	Localita string `json:"localita"`
	Cap      int    `json:"cap"`
	Comune   string `json:"comune"`
}

type customerRecord struct {
	ID                     string         `json:"id"`
	RagioneSociale         string         `json:"ragioneSociale"`
	PartitaIva             string         `json:"partitaIva"`
	Email                  string         `json:"email"`
	Pec                    *string        `json:"pec"`
	Telefono               *string        `json:"telefono"`
	FatturatoAnnuale       *float64       `json:"fatturatoAnnuale"`
	LogoAziendale          *string        `json:"logoAziendale"`
	TipoCliente            string         `json:"tipoCliente"`
	EmailContatto          *string        `json:"emailContatto"`
	NomeContatto           *string        `json:"nomeContatto"`
	CognomeContatto        *string        `json:"cognomeContatto"`
	TelefonoContatto       *string        `json:"telefonoContatto"`
	IndirizzoSedeLegale    *addressRecord `json:"indirizzoSedeLegale"`
	IndirizzoSedeOperativa *addressRecord `json:"indirizzoSedeOperativa"`
}

type customerInput struct {
	customerRecord
	IndirizzoSedeLegale    *refRecord `json:"indirizzoSedeLegale"`
	IndirizzoSedeOperativa *refRecord `json:"indirizzoSedeOperativa"`
}

type statusRecord struct {
	ID           string `json:"id"`
	StatoFattura string `json:"statoFattura"`
}

type invoiceRecord struct {
	ID      string          `json:"id"`
	Numero  string          `json:"numero"`
	Data    string          `json:"data"`
	Importo float64         `json:"importo"`
	Stato   *statusRecord   `json:"stato"`
	Cliente *customerRecord `json:"cliente"`
}

type invoiceInput struct {
	Numero  string    `json:"numero"`
	Data    string    `json:"data"`
	Importo float64   `json:"importo"`
	Stato   refRecord `json:"stato"`
}

// AddAddress seeds an address and returns its id
func (s *Server) AddAddress(via, civico string, postcode int, comune string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := addressRecord{ID: newID(), Via: via, Civico: civico, Cap: postcode, Comune: comune}
	s.addresses = append(s.addresses, a)
	return a.ID
}

// AddCustomer seeds a client and returns its id
func (s *Server) AddCustomer(ragioneSociale, partitaIva, tipo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := customerRecord{
		ID:             newID(),
		RagioneSociale: ragioneSociale,
		PartitaIva:     partitaIva,
		Email:          "info@" + partitaIva + ".example.com",
		TipoCliente:    tipo,
	}
	s.customers = append(s.customers, c)
	return c.ID
}

// AddInvoice seeds an invoice for a client and returns its id
func (s *Server) AddInvoice(customerID, numero string, importo float64, statusID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := invoiceRecord{ID: newID(), Numero: numero, Data: "2024-03-01", Importo: importo}
	for i := range s.customers {
		if s.customers[i].ID == customerID {
			c := s.customers[i]
			inv.Cliente = &c
		}
	}
	for i := range s.statuses {
		if s.statuses[i].ID == statusID {
			st := s.statuses[i]
			inv.Stato = &st
		}
	}
	s.invoices = append(s.invoices, inv)
	return inv.ID
}

// Counts returns how many clients, addresses and invoices exist
func (s *Server) Counts() (customers, addresses, invoices int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers), len(s.addresses), len(s.invoices)
}

func (s *Server) listCustomers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, paginate(c, s.customers))
}

func (s *Server) findAddress(id string) *addressRecord {
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			a := s.addresses[i]
			return &a
		}
	}
	return nil
}

func (s *Server) createCustomer(c *gin.Context) {
	var in customerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		messageJSON(c, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.customers {
		if existing.PartitaIva == in.PartitaIva {
			messageJSON(c, http.StatusBadRequest, "a client with this VAT number already exists")
			return
		}
	}

	created := in.customerRecord
	created.ID = newID()
	if in.IndirizzoSedeLegale != nil {
		created.IndirizzoSedeLegale = s.findAddress(in.IndirizzoSedeLegale.ID)
		if created.IndirizzoSedeLegale == nil {
			messageJSON(c, http.StatusBadRequest, "legal address not found")
			return
		}
	}
	if in.IndirizzoSedeOperativa != nil {
		created.IndirizzoSedeOperativa = s.findAddress(in.IndirizzoSedeOperativa.ID)
	}

	s.customers = append(s.customers, created)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	messageJSON(c, http.StatusNotFound, "client not found")
}

func (s *Server) listAddresses(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, paginate(c, s.addresses))
}

func (s *Server) createAddress(c *gin.Context) {
	var in addressRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		messageJSON(c, http.StatusBadRequest, "invalid data, check the fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = newID()
	s.addresses = append(s.addresses, in)
	c.JSON(http.StatusCreated, in)
}

func (s *Server) deleteAddress(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	messageJSON(c, http.StatusNotFound, "address not found")
}

func (s *Server) listInvoices(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, paginate(c, s.invoices))
}

func (s *Server) createInvoice(c *gin.Context) {
	var in invoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		messageJSON(c, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := invoiceRecord{ID: newID(), Numero: in.Numero, Data: in.Data, Importo: in.Importo}
	for i := range s.customers {
		if s.customers[i].ID == c.Param("clienteId") {
			cust := s.customers[i]
			inv.Cliente = &cust
		}
	}
	if inv.Cliente == nil {
		messageJSON(c, http.StatusNotFound, "client not found")
		return
	}
	for i := range s.statuses {
		if s.statuses[i].ID == in.Stato.ID {
			st := s.statuses[i]
			inv.Stato = &st
		}
	}
	if inv.Stato == nil {
		messageJSON(c, http.StatusBadRequest, "unknown invoice status")
		return
	}

	s.invoices = append(s.invoices, inv)
	c.JSON(http.StatusCreated, inv)
}

func (s *Server) deleteInvoice(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	messageJSON(c, http.StatusNotFound, "invoice not found")
}

func (s *Server) listStatuses(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.statuses)
}
