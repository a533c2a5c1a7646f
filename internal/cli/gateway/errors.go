package gateway

import "errors"

// User-facing messages for session loss
const (
	MsgUnauthorized   = "unauthorized access, please log in"
	MsgSessionExpired = "session expired, please log in again"
	MsgRequestFailed  = "request failed"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnauthorized   = &Error{Kind: OutcomeUnauthorized}
	ErrSessionExpired = &Error{Kind: OutcomeSessionExpired}
	ErrRejected       = &Error{Kind: OutcomeRejected}
	ErrFailed         = &Error{Kind: OutcomeFailed}
)

// Error is a non-success Result as an error value
type Error struct {
	Kind    Outcome
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Status == 0 && t.Kind == e.Kind
}

// IsSessionLost reports whether err means the user has to log in again,
// either because no token was stored or because the server refused it.
func IsSessionLost(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired)
}
