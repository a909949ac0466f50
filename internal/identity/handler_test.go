package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc := NewService(NewInMemoryRepository(), "test-secret", time.Hour, nil)
	return NewHandler(svc, nil), svc
}

func TestRegisterEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "joana@example.com",
		Name:     "Joana",
		Password: "longenough",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var resp AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User == nil || resp.User.Email != "joana@example.com" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
	if resp.Token == "" {
		t.Error("expected a token in the register response")
	}
	if resp.Landing != "dashboard" {
		t.Errorf("expected customer landing dashboard, got %q", resp.Landing)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash must never be serialized")
	}
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	handler, _ := newTestHandler(t)

	body, _ := json.Marshal(RegisterRequest{Email: "joana@example.com", Name: "Joana", Password: "short"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	handler, svc := newTestHandler(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "taken@example.com",
		Name:     "First",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("seed register failed: %v", err)
	}

	body, _ := json.Marshal(RegisterRequest{Email: "taken@example.com", Name: "Second", Password: "longenough"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestLoginEndpoint_ProfessionalLanding(t *testing.T) {
	handler, svc := newTestHandler(t)

	// Professionals are provisioned directly, not via self-registration.
	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "barber@example.com",
		Name:     "Barber",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("seed register failed: %v", err)
	}
	user.Role = RoleProfessional

	body, _ := json.Marshal(LoginRequest{Email: "barber@example.com", Password: "longenough"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Landing != "agenda" {
		t.Errorf("expected professional landing agenda, got %q", resp.Landing)
	}
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	body, _ := json.Marshal(LoginRequest{Email: "ghost@example.com", Password: "longenough"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
