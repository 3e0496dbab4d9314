package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when no job exists for a well-formed identity.
	ErrJobNotFound = errors.New("job not found")

	// ErrMalformedJobID is returned when an identity string is not a valid
	// job identifier, distinct from a lookup miss.
	ErrMalformedJobID = errors.New("malformed job id")
)

// UnresolvableLocationError is returned when a postcode could not be resolved
// to a coordinate. It blocks create/update; listing falls back instead.
type UnresolvableLocationError struct {
	Postcode string
}

func (e *UnresolvableLocationError) Error() string {
	return fmt.Sprintf("postcode %q could not be resolved to a location", e.Postcode)
}

// NewUnresolvableLocation creates an UnresolvableLocationError naming the
// offending postcode.
func NewUnresolvableLocation(postcode string) error {
	return &UnresolvableLocationError{Postcode: postcode}
}

// InvalidInputError reports a job field that failed domain validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInvalidInput creates an InvalidInputError for the given field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
