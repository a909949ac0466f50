package booking

import (
	"errors"
	"testing"
	"time"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := New("customer-1", "pro-1", "svc-1", time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return b
}

func TestNewValidatesReferences(t *testing.T) {
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name               string
		customer, pro, svc string
		start              time.Time
		wantErr            error
	}{
		{"missing customer", "", "pro", "svc", start, ErrMissingCustomer},
		{"missing professional", "cust", "", "svc", start, ErrMissingProfessional},
		{"missing service", "cust", "pro", "", start, ErrMissingService},
		{"zero start", "cust", "pro", "svc", time.Time{}, ErrInvalidStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.customer, tt.pro, tt.svc, tt.start); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	b, err := New("cust", "pro", "svc", start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("new booking should be pending, got %s", b.Status)
	}
}

func TestConfirmByAssignedProfessional(t *testing.T) {
	b := newTestBooking(t)

	changed, err := b.Confirm("pro-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed || b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed transition, changed=%v status=%s", changed, b.Status)
	}

	// second confirm is an informational no-op
	changed, err = b.Confirm("pro-1")
	if err != nil {
		t.Fatalf("repeat confirm should not error, got %v", err)
	}
	if changed {
		t.Fatal("repeat confirm should report no change")
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("status must remain confirmed, got %s", b.Status)
	}
}

func TestConfirmDeniedForOthers(t *testing.T) {
	b := newTestBooking(t)

	for _, actor := range []string{"", "pro-2"} {
		if _, err := b.Confirm(actor); !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("actor %q: expected ErrPermissionDenied, got %v", actor, err)
		}
	}
	if b.Status != StatusPending {
		t.Fatalf("denied confirm must not mutate, got %s", b.Status)
	}
}

func TestConfirmAfterCancelFails(t *testing.T) {
	b := newTestBooking(t)
	if _, err := b.Cancel("customer-1", ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := b.Confirm("pro-1"); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestCancelPermissions(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		proID       string
		wantErr     error
		wantChanged bool
	}{
		{"owning customer", "customer-1", "", nil, true},
		{"assigned professional", "other-user", "pro-1", nil, true},
		{"third party customer", "customer-2", "", ErrPermissionDenied, false},
		{"other professional", "other-user", "pro-2", ErrPermissionDenied, false},
		{"anonymous", "", "", ErrPermissionDenied, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t)
			changed, err := b.Cancel(tt.userID, tt.proID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if changed != tt.wantChanged {
				t.Fatalf("expected changed=%v, got %v", tt.wantChanged, changed)
			}
			if tt.wantChanged && b.Status != StatusCancelled {
				t.Fatalf("expected cancelled, got %s", b.Status)
			}
			if !tt.wantChanged && err != nil && b.Status != StatusPending {
				t.Fatalf("denied cancel must not mutate, got %s", b.Status)
			}
		})
	}
}

// A customer may cancel even after the professional confirmed.
func TestCustomerCancelAfterConfirm(t *testing.T) {
	b := newTestBooking(t)
	if _, err := b.Confirm("pro-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	changed, err := b.Cancel("customer-1", "")
	if err != nil {
		t.Fatalf("cancel after confirm should succeed, got %v", err)
	}
	if !changed || b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, changed=%v status=%s", changed, b.Status)
	}
}

func TestRepeatCancelIsNoop(t *testing.T) {
	b := newTestBooking(t)
	if _, err := b.Cancel("customer-1", ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	changed, err := b.Cancel("customer-1", "")
	if err != nil {
		t.Fatalf("repeat cancel should not error, got %v", err)
	}
	if changed {
		t.Fatal("repeat cancel should report no change")
	}
}
