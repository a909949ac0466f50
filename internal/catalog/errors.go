package catalog

import "errors"

var (
	// ErrServiceNotFound is returned when a service id does not exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrProfessionalNotFound is returned when a professional id does not exist.
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrInvalidServiceName is returned when the service name is missing.
	ErrInvalidServiceName = errors.New("service name is required")

	// ErrInvalidDuration is returned when the duration is not positive.
	ErrInvalidDuration = errors.New("service duration must be positive")

	// ErrInvalidPrice is returned when the price is negative.
	ErrInvalidPrice = errors.New("service price must not be negative")

	// ErrMissingUser is returned when a professional has no linked user.
	ErrMissingUser = errors.New("professional must be linked to a user")

	// ErrInvalidProfessionalName is returned when the display name is missing.
	ErrInvalidProfessionalName = errors.New("professional display name is required")
)
