package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// ValidationError is a rejection of the submitted order by the backend,
// e.g. a payment mismatch or stock changed concurrently. The backend message
// is surfaced verbatim so the operator sees the actual reason.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerError is a non-validation failure of the submission backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("submission backend returned %d: %s", e.Status, e.Message)
}

// Client persists finalized orders through the submission backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	timeout := viper.GetDuration("clients.gateway.timeout")
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: viper.GetString("clients.gateway.base_url"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type submitRequest struct {
	StoreID        int64                 `json:"storeId"`
	DivisionID     int64                 `json:"divisionId"`
	CustomerID     int64                 `json:"customerId,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Items          []submitItem          `json:"items"`
	Payments       []payment.Record      `json:"payments"`
	DiscountAmount string                `json:"discountAmount"`
	FreightCharges string                `json:"freightCharges"`
}

type submitItem struct {
	ProductID      int64  `json:"productId"`
	Quantity       string `json:"quantity"`
	UnitPrice      string `json:"unitPrice"`
	DiscountAmount string `json:"discountAmount"`
	FinalAmount    string `json:"finalAmount"`
}

type submitResponse struct {
	ID        int64  `json:"id"`
	OrderCode string `json:"orderCode"`
	Status    string `json:"status"`
}

// Submit sends the finalized order. On acceptance the returned order carries
// the backend-assigned code and status.
func (c *Client) Submit(
	ctx context.Context,
	order salesorder.SalesOrder,
) (*salesorder.SalesOrder, error) {
	req := submitRequest{
		StoreID:        order.StoreID,
		DivisionID:     order.DivisionID,
		CustomerID:     order.CustomerID,
		Notes:          order.Notes,
		Payments:       order.Payments,
		DiscountAmount: order.DiscountAmount.String(),
		FreightCharges: order.FreightCharges.String(),
	}
	for _, line := range order.Lines {
		req.Items = append(req.Items, submitItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity.String(),
			UnitPrice:      line.UnitPrice.String(),
			DiscountAmount: line.DiscountAmount.String(),
			FinalAmount:    line.FinalAmount.String(),
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/orders",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ValidationError{Message: string(msg)}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ServerError{Status: resp.StatusCode, Message: string(msg)}
	}

	var res submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode submit response: %w", err)
	}

	status, err := salesorder.ParseStatus(res.Status)
	if err != nil {
		status = salesorder.StatusSubmitted
	}

	submitted := order
	submitted.ID = 0 // archive assigns its own id
	submitted.OrderCode = res.OrderCode
	submitted.Status = status

	return &submitted, nil
}
