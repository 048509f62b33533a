package listproducts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/retailworks/backoffice/internal/service/models/product"
)

// service is an interface for the service layer.
type service interface {
	Products(ctx context.Context, storeID int64) ([]product.Product, error)
}

// ListProducts returns the sellable products for a store.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	storeID, err := strconv.ParseInt(r.URL.Query().Get("storeId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid store id", http.StatusBadRequest)

		return
	}

	products, err := service.Products(r.Context(), storeID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		slog.Error("Error fetching products", "store_id", storeID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("Error sending products response", "error", err)
	}
}
