package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BOOKING_TIMEZONE", "")
	t.Setenv("SLOT_STEP_MINUTES", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.BookingTimezone != "Europe/Lisbon" {
		t.Fatalf("expected default timezone, got %s", cfg.BookingTimezone)
	}
	if cfg.WorkDayStart != "09:00" || cfg.WorkDayEnd != "18:00" {
		t.Fatalf("expected default working envelope, got %s-%s", cfg.WorkDayStart, cfg.WorkDayEnd)
	}
	if cfg.SlotStepMinutes != 15 {
		t.Fatalf("expected default slot step, got %d", cfg.SlotStepMinutes)
	}
	if cfg.DraftTTL != 30*time.Minute {
		t.Fatalf("expected default draft TTL, got %s", cfg.DraftTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("BOOKING_TIMEZONE", "America/New_York")
	t.Setenv("SLOT_STEP_MINUTES", "30")
	t.Setenv("BOOKING_DRAFT_TTL", "45m")
	t.Setenv("REDIS_TLS", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.BookingTimezone != "America/New_York" {
		t.Fatalf("expected timezone override, got %s", cfg.BookingTimezone)
	}
	if cfg.SlotStepMinutes != 30 {
		t.Fatalf("expected slot step override, got %d", cfg.SlotStepMinutes)
	}
	if cfg.DraftTTL != 45*time.Minute {
		t.Fatalf("expected draft TTL override, got %s", cfg.DraftTTL)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis TLS override")
	}
}
