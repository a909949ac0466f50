package notify

import (
	"encoding/json"
	"net/http"

	"github.com/IFernandes27/barbershop-platform/internal/identity"
	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Handler serves the pending flash messages for the authenticated user.
type Handler struct {
	store  *FlashStore
	logger *logging.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(store *FlashStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/notifications. Reading drains the queue, so
// each message is displayed at most once.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	flashes, err := h.store.Drain(r.Context(), actor.UserID)
	if err != nil {
		h.logger.Error("failed to drain flashes", "error", err, "user_id", actor.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if flashes == nil {
		flashes = []Flash{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notifications": flashes, "count": len(flashes)})
}
