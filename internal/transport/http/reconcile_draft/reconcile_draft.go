package reconciledraft

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
	Reconcile(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error)
}

// ReconcileDraft flushes any pending debounce and fetches authoritative
// totals immediately. A backend failure leaves previous totals in place.
func ReconcileDraft(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	snapshot, err := service.Reconcile(r.Context(), id)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error reconciling draft", "draft_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		slog.Error("Error sending draft snapshot", "error", err)
	}
}
