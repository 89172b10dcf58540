// Package contact holds the contact-form message and its validation.
package contact

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingFields is returned when any field is blank after trimming.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidEmail is returned when the email lacks an "@" or a ".".
	ErrInvalidEmail = errors.New("enter a valid email address")
)

// Message is a contact-form submission. It is never stored.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Notifier delivers a contact message to the site operator.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Normalize returns a copy with surrounding whitespace trimmed from every field.
func (m Message) Normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate checks a normalized message. The email check only looks for
// an "@" and a "."; it is not an address parser.
func (m Message) Validate() error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return ErrMissingFields
	}
	if !strings.Contains(m.Email, "@") || !strings.Contains(m.Email, ".") {
		return ErrInvalidEmail
	}
	return nil
}
