package draftsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/lineitem"
	"github.com/retailworks/backoffice/pkg/debounce"
)

// Draft is the in-memory cart of one order-creation session. There is one
// logical writer per session, but the debounce timer fires on its own
// goroutine, so state is guarded by a mutex.
type Draft struct {
	id      uuid.UUID
	session draft.SessionContext
	pending *debounce.Task

	mu          sync.Mutex
	lines       map[int64]*lineitem.LineItem
	order       []int64 // product ids in insertion order, for display only
	adjustments draft.Adjustments
	totals      *draft.Totals
	stale       bool
	gen         uint64 // reconciliation generation; last issued request wins
	closed      bool
}

func newDraft(id uuid.UUID, session draft.SessionContext) *Draft {
	return &Draft{
		id:      id,
		session: session,
		lines:   make(map[int64]*lineitem.LineItem),
		stale:   true,
	}
}

// invalidate marks reconciled totals stale and supersedes any in-flight
// reconciliation. Callers hold d.mu.
func (d *Draft) invalidate() {
	d.stale = true
	d.gen++
}

// resetComputed restores a line's computed final amount after an edit; the
// previous tax allocation no longer applies to the changed base.
func resetComputed(li *lineitem.LineItem) {
	li.AllocatedTax = decimal.Decimal{}
	if !li.FinalAmount.IsOverridden() {
		li.FinalAmount = lineitem.Computed(li.BaseTotal())
	}
}

// AddLine adds a product to the draft, merging quantities when the product
// is already present. A nil unitPrice falls back to the catalog price.
func (s *DraftService) AddLine(
	ctx context.Context,
	id uuid.UUID,
	productID int64,
	quantity decimal.Decimal,
	unitPrice *decimal.Decimal,
) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	if quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice != nil && unitPrice.Sign() < 0 {
		return nil, ErrInvalidUnitPrice
	}

	d.mu.Lock()
	existing, ok := d.lines[productID]
	d.mu.Unlock()

	if ok {
		d.mu.Lock()
		existing.Quantity = existing.Quantity.Add(quantity)
		if unitPrice != nil {
			existing.UnitPrice = *unitPrice
		}
		resetComputed(existing)
		d.invalidate()
		d.mu.Unlock()

		d.pending.Schedule()

		return s.snapshot(d), nil
	}

	prod, err := s.catalog.Product(ctx, d.session.StoreID, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve product %d: %w", productID, err)
	}

	price := prod.DefaultUnitPrice()
	if unitPrice != nil {
		price = *unitPrice
	}

	li := &lineitem.LineItem{
		ProductID: productID,
		Name:      prod.Name,
		SKU:       prod.SKU,
		Unit:      prod.Unit,
		Quantity:  quantity,
		UnitPrice: price,
	}
	resetComputed(li)

	d.mu.Lock()
	// a concurrent add may have won the race; merge instead of clobbering
	if existing, ok := d.lines[productID]; ok {
		existing.Quantity = existing.Quantity.Add(quantity)
		resetComputed(existing)
	} else {
		d.lines[productID] = li
		d.order = append(d.order, productID)
	}
	d.invalidate()
	d.mu.Unlock()

	d.pending.Schedule()

	return s.snapshot(d), nil
}

// UpdateLine applies a partial edit to a line. Edited figures pass through
// without business validation; the reconciliation backend is the authority
// for rejecting them. Only a non-positive quantity is refused outright.
func (s *DraftService) UpdateLine(
	_ context.Context,
	id uuid.UUID,
	productID int64,
	patch lineitem.Patch,
) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil && patch.Quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}

	d.mu.Lock()
	li, ok := d.lines[productID]
	if !ok {
		d.mu.Unlock()
		return nil, ErrLineNotFound
	}

	if patch.Quantity != nil {
		li.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		li.UnitPrice = *patch.UnitPrice
	}
	if patch.DiscountAmount != nil {
		li.DiscountAmount = *patch.DiscountAmount
	}
	if patch.ClearFinalAmount {
		li.FinalAmount = lineitem.Computed(li.BaseTotal())
	} else if patch.FinalAmount != nil {
		li.FinalAmount = lineitem.Overridden(*patch.FinalAmount)
	}
	resetComputed(li)
	d.invalidate()
	d.mu.Unlock()

	d.pending.Schedule()

	return s.snapshot(d), nil
}

// RemoveLine deletes a line entirely. Removing an absent line is a no-op.
func (s *DraftService) RemoveLine(
	_ context.Context,
	id uuid.UUID,
	productID int64,
) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if _, ok := d.lines[productID]; !ok {
		d.mu.Unlock()
		return s.snapshot(d), nil
	}

	delete(d.lines, productID)
	for i, pid := range d.order {
		if pid == productID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.invalidate()
	d.mu.Unlock()

	d.pending.Schedule()

	return s.snapshot(d), nil
}

// SetAdjustments replaces the order-level freight and discount figures.
func (s *DraftService) SetAdjustments(
	_ context.Context,
	id uuid.UUID,
	adjustments draft.Adjustments,
) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	if adjustments.FreightCharges.Sign() < 0 || adjustments.DiscountAmount.Sign() < 0 {
		return nil, ErrInvalidAdjustment
	}

	d.mu.Lock()
	d.adjustments = adjustments
	d.invalidate()
	d.mu.Unlock()

	d.pending.Schedule()

	return s.snapshot(d), nil
}

// snapshot derives the reviewable state of a draft. Display precedence per
// line: operator override, then reconciled base+tax, then the local
// quantity*price-discount fallback (all three maintained in FinalAmount).
func (s *DraftService) snapshot(d *Draft) *draft.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := &draft.Snapshot{
		ID:          d.id,
		Session:     d.session,
		Lines:       make([]draft.LineView, 0, len(d.order)),
		Adjustments: d.adjustments,
		TotalsStale: d.stale,
	}

	localSum := decimal.Decimal{}
	totalBags := decimal.Decimal{}
	for _, pid := range d.order {
		li := d.lines[pid]
		display := li.FinalAmount.Value()
		snap.Lines = append(snap.Lines, draft.LineView{
			LineItem:     *li,
			DisplayTotal: display,
			Overridden:   li.FinalAmount.IsOverridden(),
		})
		localSum = localSum.Add(display)
		totalBags = totalBags.Add(li.Quantity)
	}
	snap.TotalBags = totalBags

	if d.totals != nil {
		totals := *d.totals
		snap.Totals = &totals
	}

	if d.totals != nil && !d.stale {
		snap.GrandTotal = d.totals.Total
	} else {
		snap.GrandTotal = localSum.
			Sub(d.adjustments.DiscountAmount).
			Add(d.adjustments.FreightCharges)
	}

	return snap
}
