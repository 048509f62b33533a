package draftsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// reconciledDraft builds a draft with two lines and fresh totals, ready for
// submission.
func reconciledDraft(t *testing.T, svc *DraftService) uuid.UUID {
	t.Helper()

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{
		StoreID:    7,
		DivisionID: 2,
		CustomerID: 31,
	})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)

	_, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	return snap.ID
}

func submitTotals() draft.Totals {
	return draft.Totals{
		Subtotal: dec("952.76"),
		Tax:      dec("47.64"),
		Total:    dec("1000.40"),
	}
}

func TestSubmit_EmptyDraft(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	svc := newTestService(catalog, &mockReconciler{}, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), snap.ID, nil, "")
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestSubmit_RequiresReconciledTotals(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	svc := newTestService(catalog, &mockReconciler{}, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), snap.ID, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("500")},
	}, "")
	assert.ErrorIs(t, err, ErrTotalsNotReady)
}

func TestSubmit_StaleTotalsBlockSubmission(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	svc := newTestService(catalog, reconciler, &mockGateway{orderCode: "SO-1001"}, &mockArchive{})

	id := reconciledDraft(t, svc)

	// an edit after reconciliation reopens the gap
	_, err := svc.AddLine(context.Background(), id, 3, dec("1"), nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("1000.40")},
	}, "")
	assert.ErrorIs(t, err, ErrTotalsNotReady)
}

func TestSubmit_PaymentWithinTolerance(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	gw := &mockGateway{orderCode: "SO-1001"}
	archive := &mockArchive{}
	svc := newTestService(catalog, reconciler, gw, archive)

	id := reconciledDraft(t, svc)

	// declared 1000 against a total of 1000.40; the 40 paise sit inside the
	// one-unit tolerance
	order, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("1000")},
	}, "deliver friday")
	require.NoError(t, err)

	assert.Equal(t, "SO-1001", order.OrderCode)
	assert.Equal(t, salesorder.StatusSubmitted, order.Status)
	assert.Equal(t, int64(42), order.ID, "archive id is carried back")
	assert.Equal(t, "deliver friday", order.Notes)
	assert.True(t, order.Total.Equal(dec("1000.40")))
	require.Len(t, order.Lines, 2)

	require.NotNil(t, archive.archived)

	_, err = svc.Snapshot(context.Background(), id)
	assert.ErrorIs(t, err, ErrDraftNotFound, "submission ends the session")
}

func TestSubmit_SplitPayment(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	svc := newTestService(catalog, reconciler, &mockGateway{orderCode: "SO-1002"}, &mockArchive{})

	id := reconciledDraft(t, svc)

	order, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodBoth, CashAmount: dec("1000"), BankAmount: dec("0.40")},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "SO-1002", order.OrderCode)
}

func TestSubmit_PaymentMismatch(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	gw := &mockGateway{orderCode: "SO-1001"}
	svc := newTestService(catalog, reconciler, gw, &mockArchive{})

	id := reconciledDraft(t, svc)

	_, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("999")},
	}, "")
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.Nil(t, gw.received, "a blocked submission never reaches the backend")

	_, err = svc.Snapshot(context.Background(), id)
	assert.NoError(t, err, "the draft stays open for correction")
}

func TestSubmit_SplitPaymentRequiresBothParts(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	id := reconciledDraft(t, svc)

	_, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodBoth, CashAmount: dec("1000.40")},
	}, "")
	assert.ErrorIs(t, err, ErrPaymentIncomplete)
}

func TestSubmit_UnknownPaymentMethod(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	id := reconciledDraft(t, svc)

	_, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: "card", Amount: dec("1000.40")},
	}, "")
	assert.ErrorIs(t, err, payment.ErrInvalidMethod)
}

func TestSubmit_GatewayRejectionKeepsDraft(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	gw := &mockGateway{err: errors.New("stock changed for product 1")}
	svc := newTestService(catalog, reconciler, gw, &mockArchive{})

	id := reconciledDraft(t, svc)

	_, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("1000.40")},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock changed")

	snap, err := svc.Snapshot(context.Background(), id)
	require.NoError(t, err, "a rejected submission leaves the draft intact")
	assert.Len(t, snap.Lines, 2)
	assert.False(t, snap.TotalsStale)
}

func TestSubmit_ArchiveFailureDoesNotBlockAcceptance(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: submitTotals()}
	archive := &mockArchive{err: errors.New("database unavailable")}
	svc := newTestService(catalog, reconciler, &mockGateway{orderCode: "SO-1003"}, archive)

	id := reconciledDraft(t, svc)

	order, err := svc.Submit(context.Background(), id, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("1000.40")},
	}, "")
	require.NoError(t, err, "the backend accepted; archiving is bookkeeping")
	assert.Equal(t, "SO-1003", order.OrderCode)

	_, err = svc.Snapshot(context.Background(), id)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmit_SalesOrderCarriesAllocatedTax(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Subtotal: dec("600"),
		Tax:      dec("30"),
		Total:    dec("630"),
	}}
	gw := &mockGateway{orderCode: "SO-1004"}
	svc := newTestService(catalog, reconciler, gw, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)
	_, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), snap.ID, []payment.Record{
		{Method: payment.MethodCash, Amount: dec("630")},
	}, "")
	require.NoError(t, err)

	require.NotNil(t, gw.received)
	require.Len(t, gw.received.Lines, 2)
	assert.True(t, gw.received.Lines[0].TaxAmount.Equal(dec("25")))
	assert.True(t, gw.received.Lines[0].FinalAmount.Equal(dec("525")))
	assert.True(t, gw.received.Lines[1].TaxAmount.Equal(dec("5")))
	assert.True(t, gw.received.Lines[1].FinalAmount.Equal(dec("105")))
	assert.True(t, gw.received.Tax.Equal(dec("30")))
}
