package discarddraft

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/retailworks/backoffice/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	Discard(ctx context.Context, id uuid.UUID) error
}

// DiscardDraft ends an order-creation session without submitting.
func DiscardDraft(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	if err := service.Discard(r.Context(), id); err != nil {
		httperr.Write(w, err)
		slog.Error("Error discarding draft", "draft_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
