package draftsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/orderline"
	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// Submit runs the payment gate, hands the finalized order to the submission
// backend, archives the accepted order locally and ends the session. Any
// failure before acceptance leaves the draft untouched for correction.
func (s *DraftService) Submit(
	ctx context.Context,
	id uuid.UUID,
	payments []payment.Record,
	notes string,
) (*salesorder.SalesOrder, error) {
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if len(d.lines) == 0 {
		d.mu.Unlock()
		return nil, ErrEmptyDraft
	}
	if d.totals == nil || d.stale {
		d.mu.Unlock()
		return nil, ErrTotalsNotReady
	}
	if err := s.validatePayments(payments, d.totals.Total); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	order := d.toSalesOrder(payments, notes)
	d.mu.Unlock()

	submitted, err := s.gateway.Submit(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	archived, err := s.archive.ArchiveSubmitted(ctx, *submitted)
	if err != nil {
		// the backend accepted the order; archiving is local bookkeeping
		slog.Error("failed to archive submitted order",
			"order_code", submitted.OrderCode,
			"error", err,
		)
		archived = submitted
	}

	if err := s.Discard(ctx, id); err != nil {
		slog.Warn("failed to discard draft after submission", "draft_id", id, "error", err)
	}

	return archived, nil
}

// validatePayments checks the declared payments against the reconciled
// total. The tolerance absorbs rounding differences between the UI and the
// backend.
func (s *DraftService) validatePayments(payments []payment.Record, total decimal.Decimal) error {
	sum := decimal.Decimal{}
	for _, p := range payments {
		if _, err := payment.ParseMethod(p.Method.String()); err != nil {
			return err
		}
		if p.Method == payment.MethodBoth &&
			(p.CashAmount.Sign() <= 0 || p.BankAmount.Sign() <= 0) {
			return ErrPaymentIncomplete
		}
		sum = sum.Add(p.Declared())
	}

	if sum.Sub(total).Abs().GreaterThan(s.tolerance) {
		return fmt.Errorf("%w: declared %s, expected %s", ErrPaymentMismatch, sum, total)
	}

	return nil
}

// toSalesOrder assembles the finalized order from the draft. Callers hold d.mu.
func (d *Draft) toSalesOrder(payments []payment.Record, notes string) salesorder.SalesOrder {
	now := time.Now()

	order := salesorder.SalesOrder{
		StoreID:        d.session.StoreID,
		DivisionID:     d.session.DivisionID,
		CustomerID:     d.session.CustomerID,
		Status:         salesorder.StatusSubmitted,
		Notes:          notes,
		Subtotal:       d.totals.Subtotal,
		Tax:            d.totals.Tax,
		DiscountAmount: d.totals.DiscountAmount,
		FreightCharges: d.totals.FreightCharges,
		Total:          d.totals.Total,
		Payments:       payments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, pid := range d.order {
		li := d.lines[pid]
		order.Lines = append(order.Lines, orderline.OrderLine{
			ProductID:      li.ProductID,
			Name:           li.Name,
			SKU:            li.SKU,
			Unit:           li.Unit,
			Quantity:       li.Quantity,
			UnitPrice:      li.UnitPrice,
			DiscountAmount: li.DiscountAmount,
			TaxAmount:      li.AllocatedTax,
			FinalAmount:    li.FinalAmount.Value(),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return order
}
