// Package forms checks user input before anything is sent to the backend and
// builds the request payloads.
package forms

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages surfaced for checks the backend would otherwise reject
const (
	MsgStatusRequired   = "must select a status"
	MsgCustomerRequired = "company name, VAT number, email, client type and legal address are required"
)

// ValidationError lists every problem found in a form
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// IsValidation reports whether err is a form validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Accepts 1234.56 as well as the Italian 1234,56
	v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := parseDecimal(fl.Field().String())
		return err == nil
	})

	return v
}

// check validates form and maps each failure to a message.
// messages is keyed by "Field.tag"; unknown failures get a generic message.
func check(form any, messages map[string]string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	seen := make(map[string]bool)
	var out []string
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return &ValidationError{Messages: out}
}

// Optional sign, digits, at most one "." or "," separator
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	return v, nil
}

// optional returns nil for blank input
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
