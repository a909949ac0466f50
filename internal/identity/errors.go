package identity

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("a valid email is required")

	// ErrInvalidName is returned when the name is missing.
	ErrInvalidName = errors.New("name is required")

	// ErrWeakPassword is returned for passwords under the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)
