// Package gateway executes requests against the backend API and turns every
// response into one Result, enforcing the session-expiry protocol in one place.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	bearerPrefix = "Bearer "
	maxBodyBytes = 8 << 20
)

// TokenSession is the session slot the gateway reads and clears
type TokenSession interface {
	Token() (string, bool, error)
	Clear() error
}

// Request is one call to the backend
type Request struct {
	Method   string
	Path     string // Relative to the base URL, e.g. /clienti
	Query    url.Values
	Body     any    // Encoded as JSON when non-nil
	Fallback string // Message surfaced when the server gives none
}

// Gateway executes requests against one backend origin
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    TokenSession
	logger     zerolog.Logger
}

// New creates a gateway for baseURL using session for credentials
func New(baseURL string, session TokenSession, logger zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
		logger:     logger,
	}
}

// SetHTTPClient sets a custom HTTP client
func (g *Gateway) SetHTTPClient(httpClient *http.Client) {
	g.httpClient = httpClient
}

// BaseURL returns the backend origin
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do executes an authenticated request.
//
// Without a stored token nothing is sent and the result is OutcomeUnauthorized.
// A 401 or 403 clears the stored token and yields OutcomeSessionExpired.
// There is exactly one attempt: no retry, no backoff.
func (g *Gateway) Do(ctx context.Context, req Request) Result {
	token, ok, err := g.session.Token()
	if err != nil {
		return failed(req, 0, "", err)
	}
	if !ok {
		g.logger.Debug().Str("method", req.Method).Str("path", req.Path).Msg("No session token, request not sent")
		return Result{
			Outcome: OutcomeUnauthorized,
			Message: MsgUnauthorized,
		}
	}
	return g.execute(ctx, req, token)
}

// DoPublic executes a request that needs no session (login, register).
// 401/403 are treated as ordinary errors and the stored token is left alone.
func (g *Gateway) DoPublic(ctx context.Context, req Request) Result {
	return g.execute(ctx, req, "")
}

func (g *Gateway) execute(ctx context.Context, req Request, token string) Result {
	requestID := ulid.Make().String()

	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return failed(req, 0, requestID, fmt.Errorf("failed to marshal request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return failed(req, 0, requestID, fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", bearerPrefix+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Msg("HTTP request failed")
		return failed(req, 0, requestID, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	g.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("HTTP request")

	status := resp.StatusCode

	if token != "" && (status == http.StatusUnauthorized || status == http.StatusForbidden) {
		if err := g.session.Clear(); err != nil {
			g.logger.Warn().Err(err).Msg("Failed to clear expired session token")
		}
		g.logger.Warn().Int("status", status).Str("path", req.Path).Msg("Session expired, token cleared")
		return Result{
			Outcome:   OutcomeSessionExpired,
			Status:    status,
			Message:   MsgSessionExpired,
			RequestID: requestID,
		}
	}

	if status >= 200 && status < 300 {
		if readErr != nil {
			return failed(req, status, requestID, fmt.Errorf("failed to read response: %w", readErr))
		}
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return Result{Outcome: OutcomeNoContent, Status: status, RequestID: requestID}
		}
		if !json.Valid(trimmed) {
			return failed(req, status, requestID, fmt.Errorf("response is not valid JSON"))
		}
		return Result{
			Outcome:   OutcomeOK,
			Status:    status,
			Payload:   json.RawMessage(trimmed),
			RequestID: requestID,
		}
	}

	if message := errorMessage(status, data); message != "" {
		return Result{
			Outcome:   OutcomeRejected,
			Status:    status,
			Message:   message,
			RequestID: requestID,
		}
	}
	return failed(req, status, requestID, fmt.Errorf("unexpected status %d", status))
}

func failed(req Request, status int, requestID string, cause error) Result {
	message := req.Fallback
	if message == "" {
		message = MsgRequestFailed
	}
	return Result{
		Outcome:   OutcomeFailed,
		Status:    status,
		Message:   message,
		RequestID: requestID,
		cause:     cause,
	}
}

// errorBody is the subset of an error response the client understands
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// errorMessage extracts a user-facing message from an error response body.
// A 400 carrying per-field errors reports those, joined in key order.
func errorMessage(status int, data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	if status == http.StatusBadRequest && len(body.Errors) > 0 {
		if joined := joinFieldErrors(body.Errors); joined != "" {
			return joined
		}
	}
	return strings.TrimSpace(body.Message)
}

func joinFieldErrors(raw json.RawMessage) string {
	var byField map[string]any
	if err := json.Unmarshal(raw, &byField); err == nil {
		keys := make([]string, 0, len(byField))
		for k := range byField {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprint(byField[k]))
		}
		return strings.Join(parts, " ")
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, v := range list {
			parts = append(parts, fmt.Sprint(v))
		}
		return strings.Join(parts, " ")
	}
	return ""
}
