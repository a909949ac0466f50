package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Handler serves the booking endpoints: availability, dashboards and
// the confirm/cancel transitions.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SlotsResponse lists the free start times for a professional's day.
type SlotsResponse struct {
	ProfessionalID string   `json:"professional_id"`
	ServiceID      string   `json:"service_id"`
	Date           string   `json:"date"`
	Slots          []string `json:"slots"`
}

// Slots handles GET /api/professionals/{professionalID}/slots?service_id=&date=.
// A missing or malformed date falls back to today in the booking timezone.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	professionalID := chi.URLParam(r, "professionalID")
	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		http.Error(w, "service_id is required", http.StatusBadRequest)
		return
	}

	loc := h.service.Location()
	day := time.Now().In(loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err == nil {
			day = parsed
		}
	}

	slots, err := h.service.AvailableSlots(r.Context(), professionalID, serviceID, day)
	if err != nil {
		h.writeError(w, err, "failed to compute slots")
		return
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlotsResponse{
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		Date:           day.Format("2006-01-02"),
		Slots:          out,
	})
}

// ListResponse wraps a booking list.
type ListResponse struct {
	Bookings []*Booking `json:"bookings"`
	Count    int        `json:"count"`
}

// Dashboard handles GET /api/bookings: the customer's own bookings.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	bookings, err := h.service.ListForCustomer(r.Context(), actor.UserID)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeList(w, bookings)
}

// Agenda handles GET /api/agenda: the professional's bookings. A user
// without a linked professional record gets 403.
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	bookings, err := h.service.Agenda(r.Context(), actor)
	if err != nil {
		if errors.Is(err, catalog.ErrProfessionalNotFound) {
			http.Error(w, "your account is not registered as a professional", http.StatusForbidden)
			return
		}
		h.logger.Error("failed to load agenda", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeList(w, bookings)
}

// TransitionResponse reports the result of a confirm/cancel request.
type TransitionResponse struct {
	Booking *Booking `json:"booking"`
	Outcome Outcome  `json:"outcome"`
}

// Confirm handles POST /api/bookings/{bookingID}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm)
}

// Cancel handles POST /api/bookings/{bookingID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actor identity.Actor, id string) (*Booking, Outcome, error)) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	bookingID := chi.URLParam(r, "bookingID")

	b, outcome, err := apply(r.Context(), actor, bookingID)
	if err != nil {
		h.writeError(w, err, "transition failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TransitionResponse{Booking: b, Outcome: outcome})
}

func (h *Handler) writeList(w http.ResponseWriter, bookings []*Booking) {
	if bookings == nil {
		bookings = []*Booking{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Bookings: bookings, Count: len(bookings)})
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, catalog.ErrProfessionalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrCancelled):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidStart),
		errors.Is(err, ErrMissingCustomer),
		errors.Is(err, ErrMissingProfessional),
		errors.Is(err, ErrMissingService):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(logMsg, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
