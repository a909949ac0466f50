// Package catalog holds the bookable offering: services and the
// professionals who perform them.
package catalog

import (
	"strings"
	"time"
)

// Service is a bookable treatment with a fixed duration and price.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DurationMin int       `json:"duration_min"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Duration returns the service length as a time.Duration.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

// Validate checks service invariants before persistence.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidServiceName
	}
	if s.DurationMin <= 0 {
		return ErrInvalidDuration
	}
	if s.PriceCents < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Professional is a staff member who takes bookings. Each professional
// is linked one-to-one to a user account.
type Professional struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks professional invariants before persistence.
func (p *Professional) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return ErrInvalidProfessionalName
	}
	return nil
}
