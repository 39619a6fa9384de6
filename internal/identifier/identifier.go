package identifier

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"fintrack/internal/errors"
)

// Kind discriminates the two accepted contact channels.
type Kind string

const (
	KindEmail  Kind = "email"
	KindMobile Kind = "mobile"
)

// Identifier is a tagged contact address: an email or an E.164 phone number.
// The kind is decided once when the raw string enters the API and is carried
// through the reset flow instead of being re-detected at each step.
type Identifier struct {
	Kind  Kind
	Value string
}

var validate = validator.New()

// Parse classifies a raw string as email or mobile. It returns
// errors.ErrInvalidIdentifier when the string is neither.
func Parse(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,email"); err == nil {
		return Identifier{Kind: KindEmail, Value: strings.ToLower(raw)}, nil
	}
	if err := validate.Var(raw, "required,e164"); err == nil {
		return Identifier{Kind: KindMobile, Value: raw}, nil
	}
	return Identifier{}, errors.ErrInvalidIdentifier
}

// IsMobile reports whether the identifier is a phone number.
func (i Identifier) IsMobile() bool {
	return i.Kind == KindMobile
}
