package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Handler serves read-only catalog endpoints for the booking flow.
type Handler struct {
	services      ServiceRepository
	professionals ProfessionalRepository
	logger        *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(services ServiceRepository, professionals ProfessionalRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{services: services, professionals: professionals, logger: logger}
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []*Service{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"services": services, "count": len(services)})
}

// GetService handles GET /api/services/{serviceID}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")
	svc, err := h.services.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load service", "error", err, "service_id", id)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}

// ListProfessionals handles GET /api/professionals. Only active
// professionals are offered to booking flows.
func (h *Handler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	pros, err := h.professionals.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list professionals", "error", err)
		http.Error(w, "failed to list professionals", http.StatusInternalServerError)
		return
	}
	if pros == nil {
		pros = []*Professional{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"professionals": pros, "count": len(pros)})
}
