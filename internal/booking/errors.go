package booking

import "errors"

var (
	// ErrNotFound is returned when a booking id does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrPermissionDenied is returned when the actor lacks the required
	// role or ownership relation for a transition.
	ErrPermissionDenied = errors.New("not allowed to modify this booking")

	// ErrSlotTaken is returned when another booking already occupies the
	// professional's start time. The persistence layer enforces this via
	// a uniqueness constraint, so a concurrent double-booking surfaces
	// as a detectable conflict instead of a silent race.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrCancelled is returned when confirming a booking that was
	// already cancelled. Cancelled is terminal.
	ErrCancelled = errors.New("booking is cancelled")

	// ErrMissingCustomer is returned when the customer reference is absent.
	ErrMissingCustomer = errors.New("booking customer is required")

	// ErrMissingProfessional is returned when the professional reference is absent.
	ErrMissingProfessional = errors.New("booking professional is required")

	// ErrMissingService is returned when the service reference is absent.
	ErrMissingService = errors.New("booking service is required")

	// ErrInvalidStart is returned when the start timestamp is absent or unparseable.
	ErrInvalidStart = errors.New("booking start time is invalid")
)
