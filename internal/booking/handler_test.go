package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/IFernandes27/barbershop-platform/internal/identity"
)

func actorRequest(method, target string, actor identity.Actor, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := identity.WithActor(req.Context(), actor)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestSlotsEndpoint(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	f.mustCreate(t, 10, 0)

	req := actorRequest(http.MethodGet,
		"/api/professionals/"+f.pro.ID+"/slots?service_id="+f.service.ID+"&date=2026-09-10",
		f.customerActor(),
		map[string]string{"professionalID": f.pro.ID},
	)
	w := httptest.NewRecorder()
	handler.Slots(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp SlotsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Date != "2026-09-10" {
		t.Errorf("expected date 2026-09-10, got %s", resp.Date)
	}
	if len(resp.Slots) == 0 {
		t.Fatal("expected available slots")
	}
	booked := f.at(10, 0).Format("2006-01-02T15:04:05-07:00")
	for _, s := range resp.Slots {
		if s == booked {
			t.Errorf("booked slot %s must not be offered", s)
		}
	}
}

func TestSlotsEndpoint_MissingService(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	req := actorRequest(http.MethodGet, "/api/professionals/"+f.pro.ID+"/slots",
		f.customerActor(), map[string]string{"professionalID": f.pro.ID})
	w := httptest.NewRecorder()
	handler.Slots(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSlotsEndpoint_UnknownProfessional(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	req := actorRequest(http.MethodGet, "/api/professionals/ghost/slots?service_id="+f.service.ID+"&date=2026-09-10",
		f.customerActor(), map[string]string{"professionalID": "ghost"})
	w := httptest.NewRecorder()
	handler.Slots(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	f.mustCreate(t, 11, 0)

	req := actorRequest(http.MethodGet, "/api/bookings", f.customerActor(), nil)
	w := httptest.NewRecorder()
	handler.Dashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("expected one booking, got %d", resp.Count)
	}
}

func TestAgendaEndpoint_NotAProfessional(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	req := actorRequest(http.MethodGet, "/api/agenda", f.customerActor(), nil)
	w := httptest.NewRecorder()
	handler.Agenda(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestConfirmEndpoint(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	b := f.mustCreate(t, 11, 0)

	req := actorRequest(http.MethodPost, "/api/bookings/"+b.ID+"/confirm",
		f.barberActor(), map[string]string{"bookingID": b.ID})
	w := httptest.NewRecorder()
	handler.Confirm(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp TransitionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != OutcomeApplied {
		t.Errorf("expected applied outcome, got %s", resp.Outcome)
	}
	if resp.Booking.Status != StatusConfirmed {
		t.Errorf("expected confirmed status, got %s", resp.Booking.Status)
	}
}

func TestConfirmEndpoint_DeniedForCustomer(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	b := f.mustCreate(t, 11, 0)

	req := actorRequest(http.MethodPost, "/api/bookings/"+b.ID+"/confirm",
		f.customerActor(), map[string]string{"bookingID": b.ID})
	w := httptest.NewRecorder()
	handler.Confirm(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestCancelEndpoint_Conflict(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	b := f.mustCreate(t, 11, 0)
	if _, _, err := f.svc.Cancel(context.Background(), f.customerActor(), b.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Confirming a cancelled booking is a conflict, not a no-op.
	req := actorRequest(http.MethodPost, "/api/bookings/"+b.ID+"/confirm",
		f.barberActor(), map[string]string{"bookingID": b.ID})
	w := httptest.NewRecorder()
	handler.Confirm(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestCancelEndpoint_NoopOnRepeat(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	b := f.mustCreate(t, 11, 0)

	for i, wantOutcome := range []Outcome{OutcomeApplied, OutcomeNoop} {
		req := actorRequest(http.MethodPost, "/api/bookings/"+b.ID+"/cancel",
			f.customerActor(), map[string]string{"bookingID": b.ID})
		w := httptest.NewRecorder()
		handler.Cancel(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status %d, got %d", i, http.StatusOK, w.Code)
		}
		var resp TransitionResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Outcome != wantOutcome {
			t.Errorf("attempt %d: expected outcome %s, got %s", i, wantOutcome, resp.Outcome)
		}
	}
}

func TestTransitionEndpoint_NotFound(t *testing.T) {
	f := newServiceFixture(t)
	handler := NewHandler(f.svc, nil)

	req := actorRequest(http.MethodPost, "/api/bookings/ghost/cancel",
		f.customerActor(), map[string]string{"bookingID": "ghost"})
	w := httptest.NewRecorder()
	handler.Cancel(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
