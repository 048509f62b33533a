package submitdraft

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
	"github.com/retailworks/backoffice/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	Submit(ctx context.Context, id uuid.UUID, payments []payment.Record, notes string) (*salesorder.SalesOrder, error)
}

type submitRequest struct {
	Payments []payment.Record `json:"payments"`
	Notes    string           `json:"notes,omitempty"`
}

// SubmitDraft runs the payment gate and hands the finalized order to the
// submission backend. The draft survives any rejection for correction.
func SubmitDraft(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding submit request", "error", err)

		return
	}

	order, err := service.Submit(r.Context(), id, req.Payments, req.Notes)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error submitting draft", "draft_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		slog.Error("Error sending submit response", "error", err)
	}
}
