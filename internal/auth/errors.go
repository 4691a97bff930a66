package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrCountryNotFound    = errors.New("country not found")
	ErrActivationNotFound = errors.New("activation link not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// ValidationError carries the first violated input rule. Handlers render it
// as 400 with the rule text as the message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is an input-shape failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
