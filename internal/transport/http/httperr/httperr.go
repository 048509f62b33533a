package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailworks/backoffice/internal/dal/clients/gateway"
	"github.com/retailworks/backoffice/internal/service/services/draftsvc"
)

// Write maps service errors onto HTTP status codes and writes the error
// message. Input problems are 400, gate failures 422, backend failures 502.
func Write(w http.ResponseWriter, err error) {
	var validationErr *gateway.ValidationError
	var serverErr *gateway.ServerError

	switch {
	case errors.Is(err, draftsvc.ErrDraftNotFound),
		errors.Is(err, draftsvc.ErrLineNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, draftsvc.ErrInvalidQuantity),
		errors.Is(err, draftsvc.ErrInvalidUnitPrice),
		errors.Is(err, draftsvc.ErrInvalidAdjustment),
		errors.Is(err, draftsvc.ErrInvalidSession):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, draftsvc.ErrTotalsNotReady),
		errors.Is(err, draftsvc.ErrPaymentMismatch),
		errors.Is(err, draftsvc.ErrPaymentIncomplete),
		errors.Is(err, draftsvc.ErrEmptyDraft):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Message, http.StatusUnprocessableEntity)
	case errors.As(err, &serverErr):
		http.Error(w, serverErr.Message, http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("unexpected handler error", "error", err)
	}
}
