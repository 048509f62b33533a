package reconciler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailworks/backoffice/internal/service/models/draft"
)

func TestCalculateTotals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/calculate-totals", r.URL.Path)

		var req draft.TotalsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.True(t, req.Items[0].Quantity.Equal(decimal.NewFromInt(10)))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(draft.Totals{
			Subtotal: decimal.NewFromInt(500),
			Tax:      decimal.NewFromInt(25),
			Total:    decimal.NewFromInt(525),
		})
	}))
	defer server.Close()

	viper.Set("clients.reconciler.base_url", server.URL)
	defer viper.Set("clients.reconciler.base_url", "")

	client := NewClient()
	totals, err := client.CalculateTotals(context.Background(), draft.TotalsRequest{
		Items: []draft.TotalsRequestItem{
			{ProductID: 1, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(525)))
}

func TestCalculateTotals_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "pricing rules unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	viper.Set("clients.reconciler.base_url", server.URL)
	defer viper.Set("clients.reconciler.base_url", "")

	client := NewClient()
	_, err := client.CalculateTotals(context.Background(), draft.TotalsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
