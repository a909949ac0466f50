package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/internal/notify"
	"github.com/IFernandes27/barbershop-platform/internal/observability/metrics"
	"github.com/IFernandes27/barbershop-platform/internal/schedule"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("barbershop.internal.booking")

// Outcome tells the caller what a transition attempt did.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeNoop    Outcome = "noop"
)

// Service coordinates the booking lifecycle: availability queries,
// creation, and the confirm/cancel transitions with their notifications.
type Service struct {
	repo          Repository
	services      catalog.ServiceRepository
	professionals catalog.ProfessionalRepository
	users         identity.Repository
	flashes       notify.Flasher
	email         notify.EmailSender
	generator     *schedule.Generator
	location      *time.Location
	now           func() time.Time
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
}

// ServiceConfig wires the collaborators of a booking Service.
type ServiceConfig struct {
	Repo          Repository
	Services      catalog.ServiceRepository
	Professionals catalog.ProfessionalRepository
	Users         identity.Repository
	Flashes       notify.Flasher
	Email         notify.EmailSender
	Generator     *schedule.Generator
	Location      *time.Location
	Now           func() time.Time
	Metrics       *metrics.BookingMetrics
	Logger        *logging.Logger
}

// NewService constructs a booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Repo == nil {
		panic("booking: repository required")
	}
	if cfg.Services == nil || cfg.Professionals == nil {
		panic("booking: catalog repositories required")
	}
	if cfg.Flashes == nil {
		cfg.Flashes = notify.NopFlasher{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Generator == nil {
		cfg.Generator = schedule.NewGenerator(schedule.DefaultEnvelope(cfg.Location), 0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		repo:          cfg.Repo,
		services:      cfg.Services,
		professionals: cfg.Professionals,
		users:         cfg.Users,
		flashes:       cfg.Flashes,
		email:         cfg.Email,
		generator:     cfg.Generator,
		location:      cfg.Location,
		now:           cfg.Now,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
}

// Location returns the configured booking timezone.
func (s *Service) Location() *time.Location {
	return s.location
}

// ResolveStart parses an ISO start timestamp. Input without a zone is
// coerced to the configured booking timezone; zoned input is converted.
func (s *Service) ResolveStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrInvalidStart
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(s.location), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, s.location); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", raw, s.location); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidStart
}

// AvailableSlots computes the free start times for a professional on the
// given day for the given service. The day is interpreted in the booking
// timezone.
func (s *Service) AvailableSlots(ctx context.Context, professionalID, serviceID string, day time.Time) ([]time.Time, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("barbershop.professional_id", professionalID),
		attribute.String("barbershop.service_id", serviceID),
	)

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	pro, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if !pro.Active {
		return nil, catalog.ErrProfessionalNotFound
	}

	dayStart := startOfDay(day, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	started := time.Now()
	busy, err := s.repo.BusyIntervals(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	slots := s.generator.Slots(dayStart, svc.Duration(), busy, s.now())
	s.metrics.ObserveSlotQuery(time.Since(started).Seconds())
	return slots, nil
}

// Create persists a pending booking for the customer. Entity references
// are re-validated and the start timestamp is coerced to the booking
// timezone. Create itself performs no past-check; the slot generator is
// responsible for never offering past slots.
func (s *Service) Create(ctx context.Context, actor identity.Actor, serviceID, professionalID string, startAt time.Time) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("barbershop.professional_id", professionalID),
		attribute.String("barbershop.service_id", serviceID),
	)

	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	pro, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if !pro.Active {
		return nil, catalog.ErrProfessionalNotFound
	}

	b, err := New(actor.UserID, professionalID, serviceID, startAt.In(s.location))
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveConflict()
			s.flashes.Flash(ctx, actor.UserID, notify.SeverityError, "That slot was just taken. Please pick another time.")
		}
		return nil, err
	}

	s.metrics.ObserveCreated()
	s.flashes.Flash(ctx, actor.UserID, notify.SeveritySuccess, "Booking created! It will be confirmed shortly.")
	s.logger.Info("booking created",
		"booking_id", created.ID,
		"customer_id", created.CustomerID,
		"professional_id", created.ProfessionalID,
		"start_at", created.StartAt,
	)
	return created, nil
}

// Confirm applies the pending -> confirmed transition. Only the assigned
// professional may confirm; re-confirming yields an informational no-op.
func (s *Service) Confirm(ctx context.Context, actor identity.Actor, bookingID string) (*Booking, Outcome, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("barbershop.booking_id", bookingID))

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	changed, err := b.Confirm(s.actorProfessionalID(ctx, actor))
	if err != nil {
		s.metrics.ObserveTransition("confirm", "denied")
		s.flashes.Flash(ctx, actor.UserID, notify.SeverityError, "You cannot confirm this booking.")
		return nil, "", err
	}
	if !changed {
		s.metrics.ObserveTransition("confirm", "noop")
		s.flashes.Flash(ctx, actor.UserID, notify.SeverityInfo, "This booking is already confirmed.")
		return b, OutcomeNoop, nil
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, StatusConfirmed); err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	s.metrics.ObserveTransition("confirm", "applied")
	s.flashes.Flash(ctx, actor.UserID, notify.SeveritySuccess, "Booking confirmed.")
	s.notifyCustomer(ctx, b)
	s.logger.Info("booking confirmed", "booking_id", b.ID, "professional_id", b.ProfessionalID)
	return b, OutcomeApplied, nil
}

// Cancel applies the -> cancelled transition. The owning customer and
// the assigned professional may cancel, even after confirmation;
// re-cancelling yields an informational no-op.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, bookingID string) (*Booking, Outcome, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("barbershop.booking_id", bookingID))

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	changed, err := b.Cancel(actor.UserID, s.actorProfessionalID(ctx, actor))
	if err != nil {
		s.metrics.ObserveTransition("cancel", "denied")
		s.flashes.Flash(ctx, actor.UserID, notify.SeverityError, "You cannot cancel this booking.")
		return nil, "", err
	}
	if !changed {
		s.metrics.ObserveTransition("cancel", "noop")
		s.flashes.Flash(ctx, actor.UserID, notify.SeverityInfo, "This booking was already cancelled.")
		return b, OutcomeNoop, nil
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, StatusCancelled); err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	s.metrics.ObserveTransition("cancel", "applied")
	s.flashes.Flash(ctx, actor.UserID, notify.SeveritySuccess, "Booking cancelled.")
	s.logger.Info("booking cancelled", "booking_id", b.ID, "by_user", actor.UserID)
	return b, OutcomeApplied, nil
}

// ListForCustomer returns the customer's bookings, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// Agenda returns the agenda of the professional linked to the actor's
// user account.
func (s *Service) Agenda(ctx context.Context, actor identity.Actor) ([]*Booking, error) {
	pro, err := s.professionals.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByProfessional(ctx, pro.ID)
}

// actorProfessionalID resolves the professional record linked to the
// actor, or "" when the actor is not a professional.
func (s *Service) actorProfessionalID(ctx context.Context, actor identity.Actor) string {
	if !actor.IsProfessional() {
		return ""
	}
	pro, err := s.professionals.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return ""
	}
	return pro.ID
}

// notifyCustomer emails the customer about a confirmation, best effort.
func (s *Service) notifyCustomer(ctx context.Context, b *Booking) {
	if s.email == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, b.CustomerID)
	if err != nil {
		s.logger.Warn("confirmation email skipped", "error", err, "booking_id", b.ID)
		return
	}
	msg := notify.EmailMessage{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Your booking is confirmed",
		Body: fmt.Sprintf("Hi %s,\n\nYour appointment on %s is confirmed. See you then!\n\n— BarberBook",
			user.Name, b.StartAt.In(s.location).Format("Monday, January 2 at 15:04")),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("confirmation email failed", "error", err, "booking_id", b.ID)
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
