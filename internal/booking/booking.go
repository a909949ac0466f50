// Package booking implements the reservation entity and its lifecycle:
// pending bookings are confirmed by the assigned professional or
// cancelled by either side, and neither terminal state can be left.
package booking

import (
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a reservation of a professional's time for one service.
type Booking struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	ProfessionalID string    `json:"professional_id"`
	ServiceID      string    `json:"service_id"`
	StartAt        time.Time `json:"start_at"`
	CreatedAt      time.Time `json:"created_at"`
	Status         Status    `json:"status"`
}

// New builds a pending booking, validating the required references.
// StartAt keeps whatever zone the caller resolved; persistence stores it
// timezone-aware.
func New(customerID, professionalID, serviceID string, startAt time.Time) (*Booking, error) {
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	if professionalID == "" {
		return nil, ErrMissingProfessional
	}
	if serviceID == "" {
		return nil, ErrMissingService
	}
	if startAt.IsZero() {
		return nil, ErrInvalidStart
	}
	return &Booking{
		CustomerID:     customerID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		StartAt:        startAt,
		Status:         StatusPending,
	}, nil
}

// Confirm moves the booking to confirmed. Only the assigned professional
// may confirm. Returns false with no error when the booking is already
// confirmed: an informational no-op, not a failure.
func (b *Booking) Confirm(actorProfessionalID string) (changed bool, err error) {
	if actorProfessionalID == "" || actorProfessionalID != b.ProfessionalID {
		return false, ErrPermissionDenied
	}
	switch b.Status {
	case StatusConfirmed:
		return false, nil
	case StatusCancelled:
		return false, ErrCancelled
	}
	b.Status = StatusConfirmed
	return true, nil
}

// Cancel moves the booking to cancelled. The owning customer and the
// assigned professional may cancel; anyone else is denied. A booking can
// be cancelled even after confirmation. Returns false with no error when
// already cancelled.
func (b *Booking) Cancel(actorUserID, actorProfessionalID string) (changed bool, err error) {
	isOwner := actorUserID != "" && actorUserID == b.CustomerID
	isAssigned := actorProfessionalID != "" && actorProfessionalID == b.ProfessionalID
	if !isOwner && !isAssigned {
		return false, ErrPermissionDenied
	}
	if b.Status == StatusCancelled {
		return false, nil
	}
	b.Status = StatusCancelled
	return true, nil
}
