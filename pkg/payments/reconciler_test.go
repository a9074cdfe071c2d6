package payments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/memory"
)

func newCipher(t *testing.T) *fieldcipher.Cipher {
	t.Helper()
	k1, err := fieldcipher.ParseKeyPair(strings.Repeat("1f", 32), strings.Repeat("2e", 16))
	require.NoError(t, err)
	k2, err := fieldcipher.ParseKeyPair(strings.Repeat("3d", 32), strings.Repeat("4c", 16))
	require.NoError(t, err)
	c, err := fieldcipher.New(k1, k2)
	require.NoError(t, err)
	return c
}

func purchase(id, owner string, qty int) PaymentEvent {
	return PaymentEvent{
		TransactionID:    id,
		Owner:            models.PartnerOwner(owner),
		Quantity:         qty,
		Amount:           int64(qty) * 500,
		Currency:         "usd",
		GatewaySessionID: id,
		CustomerEmail:    "owner@acme.test",
	}
}

func TestReconcileScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewReconciler(store, newCipher(t))

	res, err := r.Reconcile(ctx, purchase("evt-1", "P-1", 5))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Issued)
	assert.False(t, res.AlreadyProcessed)

	n, _ := store.CountLinks(ctx, "P-1", models.LinkStatusAll)
	assert.Equal(t, 5, n)

	res, err = r.Reconcile(ctx, purchase("evt-1", "P-1", 5))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Issued)
	assert.True(t, res.AlreadyProcessed)
	assert.Equal(t, 5, res.PreviouslyIssued)

	n, _ = store.CountLinks(ctx, "P-1", models.LinkStatusAll)
	assert.Equal(t, 5, n)

	txs, _ := store.ListTransactionsByOwner(ctx, "P-1", 10)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionPurchase, txs[0].Type)
	assert.Equal(t, 5, txs[0].Quantity)
	assert.NotEqual(t, "owner@acme.test", txs[0].Metadata["customer_email"])
}

func TestReconcileConcurrentDeliveries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewReconciler(store, newCipher(t))

	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Reconcile(ctx, purchase("evt-9", "P-1", 3))
			if err != nil {
				assert.ErrorIs(t, err, ErrEventInFlight)
				return
			}
			mu.Lock()
			issued += res.Issued
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, issued)
	n, _ := store.CountLinks(ctx, "P-1", models.LinkStatusAll)
	assert.Equal(t, 3, n)
}

func TestReconcileInFlight(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.ClaimEvent(ctx, &models.IdempotencyRecord{
		TransactionID: "evt-1",
		Status:        models.IdempotencyPending,
		ClaimedAt:     time.Now(),
	}))

	_, err := NewReconciler(store, newCipher(t)).Reconcile(ctx, purchase("evt-1", "P-1", 5))
	assert.ErrorIs(t, err, ErrEventInFlight)
}

type failingFulfill struct {
	*memory.Store
}

func (failingFulfill) FulfillEvent(context.Context, *models.PartnerTransaction, []models.SecureLink, time.Time) error {
	return errors.New("transaction conflict")
}

func TestReconcileReleasesClaimOnFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := NewReconciler(failingFulfill{store}, newCipher(t)).Reconcile(ctx, purchase("evt-1", "P-1", 5))
	require.Error(t, err)

	_, err = store.GetIdempotencyRecord(ctx, "evt-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	res, err := NewReconciler(store, newCipher(t)).Reconcile(ctx, purchase("evt-1", "P-1", 5))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Issued)
}

func TestReconcileLargeBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.MaxAtomic = 10

	r := NewReconciler(store, newCipher(t))
	res, err := r.Reconcile(ctx, purchase("evt-big", "P-1", 40))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Issued)

	rec, err := store.GetIdempotencyRecord(ctx, "evt-big")
	require.NoError(t, err)
	assert.Equal(t, models.IdempotencyCompleted, rec.Status)
	assert.Equal(t, 40, rec.IssuedCount)

	res, err = r.Reconcile(ctx, purchase("evt-big", "P-1", 40))
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)

	n, _ := store.CountLinks(ctx, "P-1", models.LinkStatusUnused)
	assert.Equal(t, 40, n)
}

func TestReconcileValidation(t *testing.T) {
	r := NewReconciler(memory.New(), newCipher(t))

	_, err := r.Reconcile(context.Background(), purchase("", "P-1", 5))
	assert.ErrorIs(t, err, links.ErrMissingField)

	_, err = r.Reconcile(context.Background(), purchase("evt-1", "P-1", 0))
	assert.ErrorIs(t, err, links.ErrInvalidCount)
}

func TestReleaseStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.New()
	require.NoError(t, store.ClaimEvent(ctx, &models.IdempotencyRecord{TransactionID: "old", Status: models.IdempotencyPending, ClaimedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.ClaimEvent(ctx, &models.IdempotencyRecord{TransactionID: "fresh", Status: models.IdempotencyPending, ClaimedAt: now.Add(-5 * time.Minute)}))

	r := NewReconciler(store, newCipher(t))
	r.Now = func() time.Time { return now }
	released, err := r.ReleaseStale(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	_, err = store.GetIdempotencyRecord(ctx, "old")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetIdempotencyRecord(ctx, "fresh")
	assert.NoError(t, err)
}
