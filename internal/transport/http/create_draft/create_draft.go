package createdraft

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	CreateDraft(ctx context.Context, session draft.SessionContext) (*draft.Snapshot, error)
}

// CreateDraft opens a new order-creation session for a store/division.
func CreateDraft(w http.ResponseWriter, r *http.Request, service service) {
	var session draft.SessionContext
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding create draft request", "error", err)

		return
	}

	snapshot, err := service.CreateDraft(r.Context(), session)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error creating draft", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		slog.Error("Error sending create draft response", "error", err)
	}
}
