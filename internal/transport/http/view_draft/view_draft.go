package viewdraft

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
	Snapshot(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error)
}

// ViewDraft returns the current reviewable state of a draft.
func ViewDraft(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	snapshot, err := service.Snapshot(r.Context(), id)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error getting draft snapshot", "draft_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		slog.Error("Error sending draft snapshot", "error", err)
	}
}
