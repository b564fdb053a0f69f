package domain

import (
	"errors"
	"regexp"
)

var (
	// ErrEmailRequired is returned when no address was submitted.
	ErrEmailRequired = errors.New("email is required")
	// ErrInvalidEmail is returned when the address does not look like local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email format")
)

// emailPattern excludes every Unicode space separator, not only ASCII
// whitespace, from each part of the address.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Subscriber is an email address submitted through the newsletter form.
// Subscribers are forwarded to the email provider and never stored.
type Subscriber struct {
	Email string `json:"email"`
}

// Validate checks the address shape. It performs no network lookups.
func (s Subscriber) Validate() error {
	if s.Email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(s.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// IsInputError reports whether err was caused by the submitted data rather
// than by an upstream service.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmailRequired) || errors.Is(err, ErrInvalidEmail)
}
