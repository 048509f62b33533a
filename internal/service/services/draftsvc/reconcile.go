package draftsvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/lineitem"
)

// taxScale is the precision tax shares are computed at. Two digits beyond
// display precision keeps the allocation sum within tolerance of the total.
const taxScale = 4

// Reconcile flushes any pending debounced reconciliation and fetches
// authoritative totals immediately.
func (s *DraftService) Reconcile(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.pending.Cancel()
	if err := s.reconcile(ctx, d); err != nil {
		return nil, err
	}

	return s.snapshot(d), nil
}

// reconcile issues one totals request for the draft's current state. Only
// the result of the most recently issued request may update the draft; a
// response from a superseded request is dropped on arrival. A failed call
// leaves previous totals in place and applies nothing.
func (s *DraftService) reconcile(ctx context.Context, d *Draft) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.gen++
	gen := d.gen
	request := d.totalsRequest()
	d.mu.Unlock()

	totals, err := s.reconciler.CalculateTotals(ctx, request)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.gen {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reconcile totals: %w", err)
	}

	d.applyTotals(totals)

	return nil
}

// totalsRequest derives the preview-calculation input. Overridden final
// amounts are never sent as authoritative; the backend works from the raw
// quantity/price/discount figures. Callers hold d.mu.
func (d *Draft) totalsRequest() draft.TotalsRequest {
	request := draft.TotalsRequest{
		Items:          make([]draft.TotalsRequestItem, 0, len(d.order)),
		DiscountAmount: d.adjustments.DiscountAmount,
		FreightCharges: d.adjustments.FreightCharges,
	}
	for _, pid := range d.order {
		li := d.lines[pid]
		request.Items = append(request.Items, draft.TotalsRequestItem{
			ProductID:      li.ProductID,
			Quantity:       li.Quantity,
			UnitPrice:      li.UnitPrice,
			DiscountAmount: li.DiscountAmount,
		})
	}

	return request
}

// applyTotals stores authoritative totals and allocates the total tax across
// lines in proportion to their base totals. Lines with an operator override
// keep their displayed amount; everything else becomes base + tax share.
// Callers hold d.mu.
func (d *Draft) applyTotals(totals *draft.Totals) {
	sumBases := decimal.Decimal{}
	for _, li := range d.lines {
		sumBases = sumBases.Add(li.BaseTotal())
	}

	for _, li := range d.lines {
		var share decimal.Decimal
		if !sumBases.IsZero() {
			share = totals.Tax.Mul(li.BaseTotal()).DivRound(sumBases, taxScale)
		}
		li.AllocatedTax = share
		if !li.FinalAmount.IsOverridden() {
			li.FinalAmount = lineitem.Computed(li.BaseTotal().Add(share))
		}
	}

	d.totals = totals
	d.stale = false
}
