package gateway

import (
	"encoding/json"
	"fmt"
)

// Outcome classifies how a request resolved
type Outcome int

const (
	// OutcomeOK is a 2xx response with a JSON payload
	OutcomeOK Outcome = iota
	// OutcomeNoContent is a 2xx response without a body (e.g. 204 on delete)
	OutcomeNoContent
	// OutcomeUnauthorized means no token was stored, so nothing was sent
	OutcomeUnauthorized
	// OutcomeSessionExpired is a 401/403; the stored token has been cleared
	OutcomeSessionExpired
	// OutcomeRejected is any other non-2xx carrying a message from the server
	OutcomeRejected
	// OutcomeFailed covers non-2xx without a usable message, transport and parse errors
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoContent:
		return "no-content"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeSessionExpired:
		return "session-expired"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the resolved outcome of one request
type Result struct {
	Outcome   Outcome
	Status    int             // HTTP status, 0 when no response was received
	Payload   json.RawMessage // Set for OutcomeOK only
	Message   string          // User-facing message for every non-success outcome
	RequestID string

	cause error
}

// Success reports whether the outcome is OK or NoContent
func (r Result) Success() bool {
	return r.Outcome == OutcomeOK || r.Outcome == OutcomeNoContent
}

// Err returns nil on success and a *Error otherwise
func (r Result) Err() error {
	if r.Success() {
		return nil
	}
	return &Error{
		Kind:    r.Outcome,
		Status:  r.Status,
		Message: r.Message,
		Err:     r.cause,
	}
}

// Decode unmarshals the payload into v
func (r Result) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if r.Outcome == OutcomeNoContent {
		return fmt.Errorf("response has no content")
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
