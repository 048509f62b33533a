package draftsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/lineitem"
)

func TestReconcile_AllocatesTaxProportionally(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Subtotal: dec("600"),
		Tax:      dec("30"),
		Total:    dec("630"),
	}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil) // base 500
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil) // base 100
	require.NoError(t, err)

	snap, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	assert.False(t, snap.TotalsStale)
	require.NotNil(t, snap.Totals)
	assert.True(t, snap.GrandTotal.Equal(dec("630")))

	require.Len(t, snap.Lines, 2)
	assert.True(t, snap.Lines[0].DisplayTotal.Equal(dec("525")), "got %s", snap.Lines[0].DisplayTotal)
	assert.True(t, snap.Lines[1].DisplayTotal.Equal(dec("105")), "got %s", snap.Lines[1].DisplayTotal)

	allocated := snap.Lines[0].AllocatedTax.Add(snap.Lines[1].AllocatedTax)
	assert.True(t, allocated.Equal(dec("30")), "tax shares must sum to the total tax, got %s", allocated)
}

func TestReconcile_ZeroBaseAllocatesNothing(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Tax:   dec("30"),
		Total: dec("30"),
	}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("3"), decPtr("0"))
	require.NoError(t, err)

	snap, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.True(t, snap.Lines[0].AllocatedTax.IsZero())
	assert.True(t, snap.Lines[0].DisplayTotal.IsZero())
}

func TestReconcile_OverriddenLineKeepsItsAmount(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Subtotal: dec("600"),
		Tax:      dec("30"),
		Total:    dec("630"),
	}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)
	_, err = svc.UpdateLine(context.Background(), snap.ID, 1, lineitem.Patch{
		FinalAmount: decPtr("490"),
	})
	require.NoError(t, err)

	snap, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 2)
	assert.True(t, snap.Lines[0].Overridden)
	assert.True(t, snap.Lines[0].DisplayTotal.Equal(dec("490")))
	assert.True(t, snap.Lines[0].AllocatedTax.Equal(dec("25")), "the share is still tracked for submission")
	assert.True(t, snap.Lines[1].DisplayTotal.Equal(dec("105")))
}

func TestReconcile_FailureKeepsPreviousTotals(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Subtotal: dec("500"),
		Tax:      dec("25"),
		Total:    dec("525"),
	}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)

	snap, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)
	require.False(t, snap.TotalsStale)

	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)

	reconciler.setErr(errors.New("backend unavailable"))
	_, err = svc.Reconcile(context.Background(), snap.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile totals")

	snap, err = svc.Snapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.True(t, snap.TotalsStale, "failed reconciliation must not mark totals fresh")
	require.NotNil(t, snap.Totals, "previous totals stay visible")
	assert.True(t, snap.Totals.Total.Equal(dec("525")))
	// line 1 still displays its previously reconciled 525; line 2 shows its raw 100
	assert.True(t, snap.GrandTotal.Equal(dec("625")), "stale draft falls back to the displayed sum, got %s", snap.GrandTotal)
}

func TestReconcile_SupersededResponseIsDropped(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{
		totals:  draft.Totals{Subtotal: dec("500"), Tax: dec("25"), Total: dec("525")},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)

	d, err := svc.draft(snap.ID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.reconcile(context.Background(), d)
	}()
	<-reconciler.started

	// the edit supersedes the request in flight
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)

	close(reconciler.release)
	require.NoError(t, <-done)

	snap, err = svc.Snapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.True(t, snap.TotalsStale, "a superseded response must not land")
	assert.Nil(t, snap.Totals)
}

func TestReconcile_ResponseAfterDiscardIsDropped(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{
		totals:  draft.Totals{Subtotal: dec("500"), Tax: dec("25"), Total: dec("525")},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)

	d, err := svc.draft(snap.ID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.reconcile(context.Background(), d)
	}()
	<-reconciler.started

	require.NoError(t, svc.Discard(context.Background(), snap.ID))

	close(reconciler.release)
	require.NoError(t, <-done)
}

func TestReconcile_SendsRawFiguresNotOverrides(t *testing.T) {
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{Total: dec("500")}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{})

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)
	_, err = svc.UpdateLine(context.Background(), snap.ID, 1, lineitem.Patch{
		FinalAmount: decPtr("1"),
	})
	require.NoError(t, err)

	_, err = svc.Reconcile(context.Background(), snap.ID)
	require.NoError(t, err)

	require.Len(t, reconciler.requests, 1)
	require.Len(t, reconciler.requests[0].Items, 1)
	item := reconciler.requests[0].Items[0]
	assert.True(t, item.Quantity.Equal(dec("10")))
	assert.True(t, item.UnitPrice.Equal(dec("50")))
}

func TestMutations_DebounceIntoOneReconciliation(t *testing.T) {
	mockClock := clock.NewMock()
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{
		Subtotal: dec("705"),
		Tax:      dec("35.25"),
		Total:    dec("740.25"),
	}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{},
		WithClock(mockClock))

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 2, dec("5"), nil)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), snap.ID, 3, dec("3"), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, reconciler.callCount(), "nothing fires inside the quiet window")

	mockClock.Add(time.Second)

	assert.Equal(t, 1, reconciler.callCount(), "a burst of edits collapses into one request")

	snap, err = svc.Snapshot(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.False(t, snap.TotalsStale)
	assert.True(t, snap.GrandTotal.Equal(dec("740.25")))
}

func TestDiscard_CancelsPendingReconciliation(t *testing.T) {
	mockClock := clock.NewMock()
	catalog := &mockCatalog{products: testProducts()}
	reconciler := &mockReconciler{totals: draft.Totals{Total: dec("500")}}
	svc := newTestService(catalog, reconciler, &mockGateway{}, &mockArchive{},
		WithClock(mockClock))

	snap, err := svc.CreateDraft(context.Background(), draft.SessionContext{StoreID: 7})
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), snap.ID, 1, dec("10"), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(context.Background(), snap.ID))

	mockClock.Add(time.Second)
	assert.Equal(t, 0, reconciler.callCount())
}
