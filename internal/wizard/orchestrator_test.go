package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFernandes27/barbershop-platform/internal/booking"
	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/internal/schedule"
)

type wizardFixture struct {
	orch    *Orchestrator
	drafts  Store
	service *catalog.Service
	pro     *catalog.Professional
	actor   identity.Actor
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)
	ctx := context.Background()

	services := catalog.NewInMemoryServiceRepository()
	pros := catalog.NewInMemoryProfessionalRepository()

	svc, err := services.Create(ctx, &catalog.Service{Name: "Corte", DurationMin: 30, PriceCents: 1200})
	require.NoError(t, err)
	pro, err := pros.Create(ctx, &catalog.Professional{UserID: "u-barber", DisplayName: "Barbeiro", Active: true})
	require.NoError(t, err)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, lisbon)
	bookings := booking.NewService(booking.ServiceConfig{
		Repo:          booking.NewInMemoryRepository(services),
		Services:      services,
		Professionals: pros,
		Generator:     schedule.NewGenerator(schedule.DefaultEnvelope(lisbon), 15*time.Minute),
		Location:      lisbon,
		Now:           func() time.Time { return day },
	})

	drafts := NewInMemoryStore()
	return &wizardFixture{
		orch:    NewOrchestrator(services, pros, bookings, drafts, nil),
		drafts:  drafts,
		service: svc,
		pro:     pro,
		actor:   identity.Actor{UserID: "u-customer", Role: identity.RoleCustomer},
	}
}

func (f *wizardFixture) request(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(identity.WithActor(req.Context(), f.actor))
}

func decodeDraft(t *testing.T, w *httptest.ResponseRecorder) DraftResponse {
	t.Helper()
	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestWizardSelectService(t *testing.T) {
	f := newWizardFixture(t)

	w := httptest.NewRecorder()
	f.orch.SelectService(w, f.request(t, http.MethodPost, "/api/wizard/service", map[string]string{"service_id": f.service.ID}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDraft(t, w)
	assert.Equal(t, f.service.ID, resp.Draft.ServiceID)
	assert.Equal(t, StepProfessional, resp.NextStep)
}

func TestWizardSelectServiceResetsLaterSteps(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, &Draft{
		ServiceID: "old",
		BarberID:  f.pro.ID,
		Date:      "2026-09-10",
		StartISO:  "2026-09-10T11:00:00+01:00",
	}))

	w := httptest.NewRecorder()
	f.orch.SelectService(w, f.request(t, http.MethodPost, "/api/wizard/service", map[string]string{"service_id": f.service.ID}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDraft(t, w)
	assert.Empty(t, resp.Draft.BarberID)
	assert.Empty(t, resp.Draft.StartISO)
}

func TestWizardSelectServiceUnknown(t *testing.T) {
	f := newWizardFixture(t)

	w := httptest.NewRecorder()
	f.orch.SelectService(w, f.request(t, http.MethodPost, "/api/wizard/service", map[string]string{"service_id": "ghost"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardSelectProfessionalRequiresService(t *testing.T) {
	f := newWizardFixture(t)

	w := httptest.NewRecorder()
	f.orch.SelectProfessional(w, f.request(t, http.MethodPost, "/api/wizard/professional", map[string]string{"professional_id": f.pro.ID}))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp stepError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, StepService, resp.RedirectStep)
}

func TestWizardSelectProfessionalInactive(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, &Draft{ServiceID: f.service.ID}))
	f.pro.Active = false

	w := httptest.NewRecorder()
	f.orch.SelectProfessional(w, f.request(t, http.MethodPost, "/api/wizard/professional", map[string]string{"professional_id": f.pro.ID}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardSlots(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, &Draft{ServiceID: f.service.ID, BarberID: f.pro.ID}))

	w := httptest.NewRecorder()
	f.orch.Slots(w, f.request(t, http.MethodGet, "/api/wizard/slots?date=2026-09-10", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "2026-09-10", resp.Date)
	assert.NotEmpty(t, resp.Slots)
	assert.Equal(t, "2026-09-10", resp.Draft.Date)
}

func TestWizardFullFlow(t *testing.T) {
	f := newWizardFixture(t)

	w := httptest.NewRecorder()
	f.orch.SelectService(w, f.request(t, http.MethodPost, "/api/wizard/service", map[string]string{"service_id": f.service.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	f.orch.SelectProfessional(w, f.request(t, http.MethodPost, "/api/wizard/professional", map[string]string{"professional_id": f.pro.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	f.orch.SelectSlot(w, f.request(t, http.MethodPost, "/api/wizard/slot", map[string]string{"start_iso": "2026-09-10T11:00"}))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeDraft(t, w)
	assert.Equal(t, StepDone, resp.NextStep)
	assert.Equal(t, "2026-09-10", resp.Draft.Date)

	w = httptest.NewRecorder()
	f.orch.Create(w, f.request(t, http.MethodPost, "/api/wizard/confirm", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var created CreateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, booking.StatusPending, created.Booking.Status)
	assert.Equal(t, f.actor.UserID, created.Booking.CustomerID)

	// The draft is cleared once the booking persists.
	w = httptest.NewRecorder()
	f.orch.GetDraft(w, f.request(t, http.MethodGet, "/api/wizard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StepService, decodeDraft(t, w).NextStep)
}

func TestWizardCreateIncomplete(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, &Draft{ServiceID: f.service.ID}))

	w := httptest.NewRecorder()
	f.orch.Create(w, f.request(t, http.MethodPost, "/api/wizard/confirm", nil))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp stepError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, StepProfessional, resp.RedirectStep)
}

func TestWizardCreateSlotTaken(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	draft := &Draft{
		ServiceID: f.service.ID,
		BarberID:  f.pro.ID,
		Date:      "2026-09-10",
		StartISO:  "2026-09-10T11:00",
	}
	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, draft))

	w := httptest.NewRecorder()
	f.orch.Create(w, f.request(t, http.MethodPost, "/api/wizard/confirm", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	// A second customer drafting the same slot hits the conflict.
	require.NoError(t, f.drafts.Save(ctx, f.actor.UserID, draft))
	w = httptest.NewRecorder()
	f.orch.Create(w, f.request(t, http.MethodPost, "/api/wizard/confirm", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}
