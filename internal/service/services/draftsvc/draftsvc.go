package draftsvc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/product"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
	"github.com/retailworks/backoffice/pkg/debounce"
)

// catalogProvider resolves sellable products for a store.
type catalogProvider interface {
	Product(ctx context.Context, storeID, productID int64) (*product.Product, error)
}

// totalsCalculator is the authoritative total-preview backend.
type totalsCalculator interface {
	CalculateTotals(ctx context.Context, request draft.TotalsRequest) (*draft.Totals, error)
}

// submissionGateway persists finalized orders on the backend.
type submissionGateway interface {
	Submit(ctx context.Context, order salesorder.SalesOrder) (*salesorder.SalesOrder, error)
}

// orderArchive records accepted orders locally.
type orderArchive interface {
	ArchiveSubmitted(ctx context.Context, order salesorder.SalesOrder) (*salesorder.SalesOrder, error)
}

// DraftService owns every active order-creation session. Each session holds
// one draft; drafts are never persisted and die with their session.
type DraftService struct {
	catalog    catalogProvider
	reconciler totalsCalculator
	gateway    submissionGateway
	archive    orderArchive

	clock         clock.Clock
	debounceDelay time.Duration
	tolerance     decimal.Decimal

	mu     sync.RWMutex
	drafts map[uuid.UUID]*Draft
}

// option is a function that configures the DraftService.
type option func(*DraftService)

// MustNewDraftService creates a new DraftService.
func MustNewDraftService(opts ...option) *DraftService {
	delay := viper.GetDuration("draft.debounce")
	if delay == 0 {
		delay = time.Second
	}

	tolerance := decimal.NewFromInt(1)
	if raw := viper.GetString("draft.payment_tolerance"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			panic("invalid draft.payment_tolerance: " + err.Error())
		}
		tolerance = parsed
	}

	s := &DraftService{
		clock:         clock.New(),
		debounceDelay: delay,
		tolerance:     tolerance,
		drafts:        make(map[uuid.UUID]*Draft),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCatalog sets the product catalog provider.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalogProvider) option {
	return func(s *DraftService) {
		s.catalog = c
	}
}

// WithReconciler sets the totals calculation backend.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithReconciler(r totalsCalculator) option {
	return func(s *DraftService) {
		s.reconciler = r
	}
}

// WithGateway sets the submission backend.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGateway(g submissionGateway) option {
	return func(s *DraftService) {
		s.gateway = g
	}
}

// WithArchive sets the local archive for accepted orders.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithArchive(a orderArchive) option {
	return func(s *DraftService) {
		s.archive = a
	}
}

// WithClock replaces the wall clock, letting tests drive the debounce window.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(s *DraftService) {
		s.clock = c
	}
}

// CreateDraft opens a new order-creation session.
func (s *DraftService) CreateDraft(
	_ context.Context,
	session draft.SessionContext,
) (*draft.Snapshot, error) {
	if session.StoreID == 0 {
		return nil, ErrInvalidSession
	}

	d := newDraft(uuid.New(), session)
	d.pending = debounce.New(s.clock, s.debounceDelay, func() {
		if err := s.reconcile(context.Background(), d); err != nil {
			slog.Error("debounced reconciliation failed", "draft_id", d.id, "error", err)
		}
	})

	s.mu.Lock()
	s.drafts[d.id] = d
	s.mu.Unlock()

	return s.snapshot(d), nil
}

// Snapshot returns the current reviewable state of a draft.
func (s *DraftService) Snapshot(_ context.Context, id uuid.UUID) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	return s.snapshot(d), nil
}

// Discard ends a session. Results of any in-flight reconciliation or
// submission are ignored when they arrive.
func (s *DraftService) Discard(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if ok {
		delete(s.drafts, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrDraftNotFound
	}

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.pending.Cancel()

	return nil
}

func (s *DraftService) draft(id uuid.UUID) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	return d, nil
}
