package draftsvc

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/product"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// mockCatalog implements catalogProvider for testing
type mockCatalog struct {
	mu       sync.Mutex
	products map[int64]product.Product
	err      error
	calls    int
}

func (m *mockCatalog) Product(_ context.Context, _ int64, productID int64) (*product.Product, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

func (m *mockCatalog) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockReconciler implements totalsCalculator for testing. When started and
// release are set, CalculateTotals signals started and then blocks until
// release is closed, letting tests interleave mutations with an in-flight
// request.
type mockReconciler struct {
	mu       sync.Mutex
	totals   draft.Totals
	err      error
	calls    int
	requests []draft.TotalsRequest

	started chan struct{}
	release chan struct{}
}

func (m *mockReconciler) CalculateTotals(_ context.Context, req draft.TotalsRequest) (*draft.Totals, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	started, release := m.started, m.release
	totals, err := m.totals, m.err
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}

	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (m *mockReconciler) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockReconciler) setTotals(t draft.Totals) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals = t
}

func (m *mockReconciler) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// mockGateway implements submissionGateway for testing
type mockGateway struct {
	mu        sync.Mutex
	orderCode string
	err       error
	received  *salesorder.SalesOrder
}

func (m *mockGateway) Submit(_ context.Context, order salesorder.SalesOrder) (*salesorder.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.received = &order
	if m.err != nil {
		return nil, m.err
	}

	submitted := order
	submitted.OrderCode = m.orderCode
	submitted.Status = salesorder.StatusSubmitted
	return &submitted, nil
}

// mockArchive implements orderArchive for testing
type mockArchive struct {
	mu       sync.Mutex
	err      error
	archived *salesorder.SalesOrder
}

func (m *mockArchive) ArchiveSubmitted(_ context.Context, order salesorder.SalesOrder) (*salesorder.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.archived = &order
	if m.err != nil {
		return nil, m.err
	}

	archived := order
	archived.ID = 42
	return &archived, nil
}

func testProducts() map[int64]product.Product {
	return map[int64]product.Product{
		1: {ID: 1, Name: "Cement 50kg", SKU: "CEM-50", Unit: "bag", BasePrice: dec("50")},
		2: {ID: 2, Name: "Sand 25kg", SKU: "SND-25", Unit: "bag", BasePrice: dec("20")},
		3: {ID: 3, Name: "Gravel 25kg", SKU: "GRV-25", Unit: "bag", BasePrice: dec("35")},
	}
}

// newTestService creates a fully wired DraftService for testing
func newTestService(
	catalog *mockCatalog,
	reconciler *mockReconciler,
	gw *mockGateway,
	archive *mockArchive,
	opts ...option,
) *DraftService {
	opts = append([]option{
		WithCatalog(catalog),
		WithReconciler(reconciler),
		WithGateway(gw),
		WithArchive(archive),
	}, opts...)

	return MustNewDraftService(opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
