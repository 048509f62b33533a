package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/service/models/draft"
)

// Client calls the authoritative total-calculation endpoint of the pricing
// backend. It holds no state; every call sends the full line set.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	timeout := viper.GetDuration("clients.reconciler.timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: viper.GetString("clients.reconciler.base_url"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CalculateTotals posts the draft's items and adjustments and returns the
// authoritative subtotal/tax/total figures.
func (c *Client) CalculateTotals(
	ctx context.Context,
	request draft.TotalsRequest,
) (*draft.Totals, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal totals request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/orders/calculate-totals",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build totals request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("totals request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("totals request returned %d: %s", resp.StatusCode, msg)
	}

	var totals draft.Totals
	if err := json.NewDecoder(resp.Body).Decode(&totals); err != nil {
		return nil, fmt.Errorf("failed to decode totals response: %w", err)
	}

	return &totals, nil
}
