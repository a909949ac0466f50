package wizard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/IFernandes27/barbershop-platform/internal/booking"
	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Orchestrator drives the booking wizard over HTTP. Every step
// re-validates the referenced entities and the prior-step fields, so a
// stale or tampered draft can only send the user back, never forward.
type Orchestrator struct {
	services      catalog.ServiceRepository
	professionals catalog.ProfessionalRepository
	bookings      *booking.Service
	drafts        Store
	logger        *logging.Logger
}

// NewOrchestrator creates the wizard handler.
func NewOrchestrator(
	services catalog.ServiceRepository,
	professionals catalog.ProfessionalRepository,
	bookings *booking.Service,
	drafts Store,
	logger *logging.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		services:      services,
		professionals: professionals,
		bookings:      bookings,
		drafts:        drafts,
		logger:        logger,
	}
}

// stepError is the validation signal sent when a prior step is missing:
// the client redirects to the named step.
type stepError struct {
	Error        string `json:"error"`
	RedirectStep Step   `json:"redirect_step"`
}

func (o *Orchestrator) writeStepError(w http.ResponseWriter, step Step) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(stepError{
		Error:        "select service, professional and time first",
		RedirectStep: step,
	})
}

// DraftResponse returns the current selection plus the next step.
type DraftResponse struct {
	Draft    *Draft `json:"draft"`
	NextStep Step   `json:"next_step"`
}

func (o *Orchestrator) writeDraft(w http.ResponseWriter, draft *Draft) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DraftResponse{Draft: draft, NextStep: draft.NextStep()})
}

// GetDraft handles GET /api/wizard: the confirmation summary.
func (o *Orchestrator) GetDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	draft, err := o.drafts.Get(r.Context(), actor.UserID)
	if err != nil {
		o.logger.Error("failed to load draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	o.writeDraft(w, draft)
}

// SelectService handles POST /api/wizard/service. Choosing a
// service resets every later step.
func (o *Orchestrator) SelectService(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	var req struct {
		ServiceID string `json:"service_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ServiceID == "" {
		http.Error(w, "service_id is required", http.StatusBadRequest)
		return
	}
	if _, err := o.services.GetByID(r.Context(), req.ServiceID); err != nil {
		o.writeCatalogError(w, err)
		return
	}

	draft := &Draft{ServiceID: req.ServiceID}
	if err := o.drafts.Save(r.Context(), actor.UserID, draft); err != nil {
		o.logger.Error("failed to save draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	o.writeDraft(w, draft)
}

// SelectProfessional handles POST /api/wizard/professional.
func (o *Orchestrator) SelectProfessional(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	var req struct {
		ProfessionalID string `json:"professional_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProfessionalID == "" {
		http.Error(w, "professional_id is required", http.StatusBadRequest)
		return
	}

	draft, err := o.drafts.Get(r.Context(), actor.UserID)
	if err != nil {
		o.logger.Error("failed to load draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if draft.ServiceID == "" {
		o.writeStepError(w, StepService)
		return
	}

	pro, err := o.professionals.GetByID(r.Context(), req.ProfessionalID)
	if err != nil {
		o.writeCatalogError(w, err)
		return
	}
	if !pro.Active {
		http.Error(w, "professional not found", http.StatusNotFound)
		return
	}

	draft.BarberID = pro.ID
	draft.Date = ""
	draft.StartISO = ""
	if err := o.drafts.Save(r.Context(), actor.UserID, draft); err != nil {
		o.logger.Error("failed to save draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	o.writeDraft(w, draft)
}

// SlotsResponse lists free start times for the drafted service and
// professional on a day.
type SlotsResponse struct {
	Draft *Draft   `json:"draft"`
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// Slots handles GET /api/wizard/slots?date=YYYY-MM-DD. The
// chosen date is remembered on the draft; a missing or malformed date
// falls back to today.
func (o *Orchestrator) Slots(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	draft, err := o.drafts.Get(r.Context(), actor.UserID)
	if err != nil {
		o.logger.Error("failed to load draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if draft.ServiceID == "" {
		o.writeStepError(w, StepService)
		return
	}
	if draft.BarberID == "" {
		o.writeStepError(w, StepProfessional)
		return
	}

	loc := o.bookings.Location()
	day := time.Now().In(loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
			day = parsed
		}
	}

	slots, err := o.bookings.AvailableSlots(r.Context(), draft.BarberID, draft.ServiceID, day)
	if err != nil {
		o.writeCatalogError(w, err)
		return
	}

	draft.Date = day.Format("2006-01-02")
	if err := o.drafts.Save(r.Context(), actor.UserID, draft); err != nil {
		o.logger.Error("failed to save draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlotsResponse{Draft: draft, Date: draft.Date, Slots: out})
}

// SelectSlot handles POST /api/wizard/slot. The start must
// parse; naive input is coerced to the booking timezone.
func (o *Orchestrator) SelectSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	var req struct {
		StartISO string `json:"start_iso"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartISO == "" {
		http.Error(w, "start_iso is required", http.StatusBadRequest)
		return
	}

	draft, err := o.drafts.Get(r.Context(), actor.UserID)
	if err != nil {
		o.logger.Error("failed to load draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if draft.ServiceID == "" {
		o.writeStepError(w, StepService)
		return
	}
	if draft.BarberID == "" {
		o.writeStepError(w, StepProfessional)
		return
	}

	start, err := o.bookings.ResolveStart(req.StartISO)
	if err != nil {
		http.Error(w, "invalid start time", http.StatusBadRequest)
		return
	}

	draft.StartISO = start.Format(time.RFC3339)
	draft.Date = start.Format("2006-01-02")
	if err := o.drafts.Save(r.Context(), actor.UserID, draft); err != nil {
		o.logger.Error("failed to save draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	o.writeDraft(w, draft)
}

// CreateResponse is returned by the final step.
type CreateResponse struct {
	Booking *booking.Booking `json:"booking"`
}

// Create handles POST /api/wizard/confirm: the final step. The
// entity references are re-validated, the start re-coerced, and the
// draft cleared once the booking persists.
func (o *Orchestrator) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	draft, err := o.drafts.Get(r.Context(), actor.UserID)
	if err != nil {
		o.logger.Error("failed to load draft", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !draft.Complete() {
		o.writeStepError(w, draft.NextStep())
		return
	}

	start, err := o.bookings.ResolveStart(draft.StartISO)
	if err != nil {
		http.Error(w, "invalid start time", http.StatusBadRequest)
		return
	}

	created, err := o.bookings.Create(r.Context(), actor, draft.ServiceID, draft.BarberID, start)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound), errors.Is(err, catalog.ErrProfessionalNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, booking.ErrSlotTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			o.logger.Error("failed to create booking", "error", err, "user_id", actor.UserID)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	if err := o.drafts.Clear(r.Context(), actor.UserID); err != nil {
		// the booking exists; a lingering draft only re-prompts the user
		o.logger.Warn("failed to clear draft after create", "error", err, "user_id", actor.UserID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateResponse{Booking: created})
}

func (o *Orchestrator) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound), errors.Is(err, catalog.ErrProfessionalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		o.logger.Error("wizard step failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
