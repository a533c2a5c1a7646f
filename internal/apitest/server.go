// Package apitest runs an in-process fake of the business-management API for tests.
// It keeps just enough state to answer the client's calls; it does not model the
// real backend's rules.
package apitest

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordedRequest is one request seen by the fake
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type injected struct {
	status int
	body   string
}

// Server is a fake backend bound to an httptest.Server
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	secret    []byte
	users     map[string]*userRecord
	customers []customerRecord
	addresses []addressRecord
	invoices  []invoiceRecord
	statuses  []statusRecord
	requests  []RecordedRequest
	failures  []injected
}

// New starts a fake backend, closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret: []byte(uuid.NewString()),
		users:  make(map[string]*userRecord),
		statuses: []statusRecord{
			{ID: "1", StatoFattura: "EMESSA"},
			{ID: "2", StatoFattura: "IN_CORSO"},
			{ID: "3", StatoFattura: "PAGATA"},
		},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.recordMiddleware())
	r.Use(s.injectMiddleware())

	r.POST("/auth/login", s.login)
	r.POST("/auth/register", s.register)

	api := r.Group("/")
	api.Use(s.jwtAuthMiddleware())
	{
		api.GET("/utenti/me", s.currentUser)

		api.GET("/clienti", s.listCustomers)
		api.POST("/clienti", s.createCustomer)
		api.DELETE("/clienti/:id", s.deleteCustomer)

		api.GET("/api/indirizzi", s.listAddresses)
		api.POST("/api/indirizzi", s.createAddress)
		api.DELETE("/api/indirizzi/:id", s.deleteAddress)

		api.GET("/fatture", s.listInvoices)
		api.POST("/fatture/cliente/:clienteId", s.createInvoice)
		api.DELETE("/fatture/:id", s.deleteInvoice)

		api.GET("/api/statifattura", s.listStatuses)
	}
	return r
}

func (s *Server) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

// injectMiddleware answers with a queued failure, if any
func (s *Server) injectMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		if len(s.failures) == 0 {
			s.mu.Unlock()
			c.Next()
			return
		}
		f := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()

		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
	}
}

// FailNext makes the next request answer status with body, whatever its route
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, injected{status: status, body: body})
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Hits counts requests for method and path
func (s *Server) Hits(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request
func (s *Server) LastRequest() (RecordedRequest, bool) {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}, false
	}
	return reqs[len(reqs)-1], true
}

func messageJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// paginate slices items by the page/size query parameters
func paginate[T any](c *gin.Context, items []T) gin.H {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	start := page * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	totalPages := (len(items) + size - 1) / size
	return gin.H{
		"content":       append([]T{}, items[start:end]...),
		"totalPages":    totalPages,
		"totalElements": len(items),
		"number":        page,
		"size":          size,
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
