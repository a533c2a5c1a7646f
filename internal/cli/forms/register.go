package forms

import (
	"strings"

	"github.com/gestione-dev/gestione/internal/cli/client"
)

// RegisterForm is the sign-up form
type RegisterForm struct {
	Nome     string `validate:"required"`
	Cognome  string `validate:"required"`
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

var registerMessages = map[string]string{
	"Nome.required":     "first name is required",
	"Cognome.required":  "last name is required",
	"Username.required": "username is required",
	"Email.required":    "email is required",
	"Email.email":       "email is not a valid address",
	"Password.required": "password is required",
}

// Payload validates and builds the registration request body
func (f RegisterForm) Payload() (client.Registration, error) {
	t := RegisterForm{
		Nome:     strings.TrimSpace(f.Nome),
		Cognome:  strings.TrimSpace(f.Cognome),
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
	if err := check(t, registerMessages); err != nil {
		return client.Registration{}, err
	}
	return client.Registration{
		Nome:     t.Nome,
		Cognome:  t.Cognome,
		Username: t.Username,
		Email:    t.Email,
		Password: t.Password,
		Ruolo:    client.DefaultRole,
	}, nil
}
