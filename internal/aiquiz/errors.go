package aiquiz

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	ErrInvalidRequest  = errors.New("missing required fields in request body")
	ErrInvalidSettings = errors.New("invalid quiz settings")
	ErrNotConfigured   = errors.New("gemini api key not configured")
	ErrUpstream        = errors.New("generation service failed")
	ErrBlocked         = fmt.Errorf("%w: reply blocked by safety filters", ErrUpstream)
	ErrEmptyResponse   = fmt.Errorf("%w: empty reply from model", ErrUpstream)
	ErrUnparsable      = errors.New("response unparsable")
	ErrMalformed       = errors.New("malformed quiz data")
)

// ParseError reports a reply that could not be turned into questions. Raw keeps
// the full model output for server-side diagnostics only.
type ParseError struct {
	Kind   error
	Detail string
	Raw    string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
