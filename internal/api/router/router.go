package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/IFernandes27/barbershop-platform/internal/booking"
	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	httpmiddleware "github.com/IFernandes27/barbershop-platform/internal/http/middleware"
	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/internal/notify"
	"github.com/IFernandes27/barbershop-platform/internal/reporting"
	"github.com/IFernandes27/barbershop-platform/internal/wizard"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	TokenParser        httpmiddleware.TokenParser
	IdentityHandler    *identity.Handler
	CatalogHandler     *catalog.Handler
	BookingHandler     *booking.Handler
	NotifyHandler      *notify.Handler
	WizardOrchestrator *wizard.Orchestrator
	AdminDashboard     *reporting.DashboardHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.IdentityHandler != nil {
			public.Route("/auth", func(r chi.Router) {
				r.Post("/register", cfg.IdentityHandler.Register)
				r.Post("/login", cfg.IdentityHandler.Login)
			})
		}
		if cfg.CatalogHandler != nil {
			public.Get("/api/services", cfg.CatalogHandler.ListServices)
			public.Get("/api/services/{serviceID}", cfg.CatalogHandler.GetService)
			public.Get("/api/professionals", cfg.CatalogHandler.ListProfessionals)
		}
	})

	// Authenticated endpoints (customer and professional accounts)
	if cfg.TokenParser != nil {
		r.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.Auth(cfg.TokenParser))

			if cfg.BookingHandler != nil {
				authed.Get("/api/professionals/{professionalID}/slots", cfg.BookingHandler.Slots)
				authed.Route("/api/bookings", func(r chi.Router) {
					r.Get("/", cfg.BookingHandler.Dashboard)
					r.Post("/{bookingID}/cancel", cfg.BookingHandler.Cancel)
					r.With(httpmiddleware.RequireProfessional).Post("/{bookingID}/confirm", cfg.BookingHandler.Confirm)
				})
				authed.With(httpmiddleware.RequireProfessional).Get("/api/agenda", cfg.BookingHandler.Agenda)
			}

			if cfg.WizardOrchestrator != nil {
				authed.Route("/api/wizard", func(r chi.Router) {
					r.Get("/", cfg.WizardOrchestrator.GetDraft)
					r.Post("/service", cfg.WizardOrchestrator.SelectService)
					r.Post("/professional", cfg.WizardOrchestrator.SelectProfessional)
					r.Get("/slots", cfg.WizardOrchestrator.Slots)
					r.Post("/slot", cfg.WizardOrchestrator.SelectSlot)
					r.Post("/confirm", cfg.WizardOrchestrator.Create)
				})
			}

			if cfg.NotifyHandler != nil {
				authed.Get("/api/notifications", cfg.NotifyHandler.List)
			}
		})
	}

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" && cfg.AdminDashboard != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/dashboard", cfg.AdminDashboard.GetDashboard)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
