package editlines

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/lineitem"
	"github.com/retailworks/backoffice/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	AddLine(ctx context.Context, id uuid.UUID, productID int64, quantity decimal.Decimal, unitPrice *decimal.Decimal) (*draft.Snapshot, error)
	UpdateLine(ctx context.Context, id uuid.UUID, productID int64, patch lineitem.Patch) (*draft.Snapshot, error)
	RemoveLine(ctx context.Context, id uuid.UUID, productID int64) (*draft.Snapshot, error)
}

type addLineRequest struct {
	ProductID int64            `json:"productId"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
}

// AddLine adds a product to the draft, merging quantities when it is
// already present.
func AddLine(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding add line request", "error", err)

		return
	}

	snapshot, err := service.AddLine(r.Context(), id, req.ProductID, req.Quantity, req.UnitPrice)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error adding line", "draft_id", id, "product_id", req.ProductID, "error", err)

		return
	}

	writeSnapshot(w, snapshot)
}

// UpdateLine applies a partial edit to a line.
func UpdateLine(w http.ResponseWriter, r *http.Request, service service) {
	id, productID, ok := parseIds(w, r)
	if !ok {
		return
	}

	var patch lineitem.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding update line request", "error", err)

		return
	}

	snapshot, err := service.UpdateLine(r.Context(), id, productID, patch)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error updating line", "draft_id", id, "product_id", productID, "error", err)

		return
	}

	writeSnapshot(w, snapshot)
}

// RemoveLine deletes a line; removing an absent line is a no-op.
func RemoveLine(w http.ResponseWriter, r *http.Request, service service) {
	id, productID, ok := parseIds(w, r)
	if !ok {
		return
	}

	snapshot, err := service.RemoveLine(r.Context(), id, productID)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error removing line", "draft_id", id, "product_id", productID, "error", err)

		return
	}

	writeSnapshot(w, snapshot)
}

func parseIds(w http.ResponseWriter, r *http.Request) (uuid.UUID, int64, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "draftId"))
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)

		return uuid.UUID{}, 0, false
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return uuid.UUID{}, 0, false
	}

	return id, productID, true
}

func writeSnapshot(w http.ResponseWriter, snapshot *draft.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		slog.Error("Error sending draft snapshot", "error", err)
	}
}
