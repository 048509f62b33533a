package editadjustments

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	SetAdjustments(ctx context.Context, id uuid.UUID, adjustments draft.Adjustments) (*draft.Snapshot, error)
}

// SetAdjustments replaces the order-level freight and discount figures.
func SetAdjustments(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	var adjustments draft.Adjustments
	if err := json.NewDecoder(r.Body).Decode(&adjustments); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding adjustments request", "error", err)

		return
	}

	snapshot, err := service.SetAdjustments(r.Context(), id, adjustments)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error setting adjustments", "draft_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		slog.Error("Error sending draft snapshot", "error", err)
	}
}
