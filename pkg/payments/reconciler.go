package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// ErrEventInFlight is returned while another delivery of the same event holds the claim.
// The gateway should redeliver later.
var ErrEventInFlight = errors.New("payment event is in-flight")

// Encrypter applies the field cipher before values are persisted.
type Encrypter interface {
	Encrypt(plaintext string) string
}

// PaymentEvent is a completed purchase of link inventory reported by the gateway.
type PaymentEvent struct {
	TransactionID    string
	Owner            models.Owner
	Quantity         int
	Amount           int64
	Currency         string
	GatewaySessionID string
	CustomerEmail    string
}

// ReconcileResult reports what a Reconcile call did. Issued counts links created by this
// call; PreviouslyIssued is set when the event had already been processed.
type ReconcileResult struct {
	Issued           int
	AlreadyProcessed bool
	PreviouslyIssued int
}

// Reconciler turns payment events into issued links exactly once per transaction id.
type Reconciler struct {
	Store  storage.IdempotencyStore
	Issuer *links.Issuer
	Cipher Encrypter
	Now    func() time.Time
}

// NewReconciler creates a new Reconciler.
func NewReconciler(store storage.IdempotencyStore, cipher Encrypter) *Reconciler {
	return &Reconciler{
		Store:  store,
		Issuer: links.NewIssuer(store),
		Cipher: cipher,
		Now:    time.Now,
	}
}

// Reconcile claims the event, then writes the ledger entry and the links. A claim that
// cannot be completed is released so a redelivery can retry.
func (r *Reconciler) Reconcile(ctx context.Context, ev PaymentEvent) (*ReconcileResult, error) {
	if ev.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id", links.ErrMissingField)
	}
	if ev.Quantity < 1 || ev.Quantity > links.MaxBatchSize {
		return nil, fmt.Errorf("%w: quantity %d", links.ErrInvalidCount, ev.Quantity)
	}

	now := r.Now().UTC()
	err := r.Store.ClaimEvent(ctx, &models.IdempotencyRecord{
		TransactionID: ev.TransactionID,
		Status:        models.IdempotencyPending,
		OwnerID:       ev.Owner.ID(),
		ClaimedAt:     now,
	})
	if errors.Is(err, storage.ErrEventClaimed) {
		return r.existing(ctx, ev.TransactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim event: %w", err)
	}

	issued, err := r.fulfill(ctx, ev, now)
	if err != nil {
		if releaseErr := r.Store.ReleaseClaim(ctx, ev.TransactionID); releaseErr != nil {
			slog.ErrorContext(ctx, "failed to release claim", "transaction_id", ev.TransactionID, "error", releaseErr)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "reconciled payment event", "transaction_id", ev.TransactionID, "owner_id", ev.Owner.ID(), "issued", issued)
	return &ReconcileResult{Issued: issued}, nil
}

func (r *Reconciler) existing(ctx context.Context, transactionID string) (*ReconcileResult, error) {
	rec, err := r.Store.GetIdempotencyRecord(ctx, transactionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Released between our claim attempt and this read.
			return nil, ErrEventInFlight
		}
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	if rec.Status != models.IdempotencyCompleted {
		return nil, ErrEventInFlight
	}

	slog.InfoContext(ctx, "payment event already processed", "transaction_id", transactionID, "issued", rec.IssuedCount)
	return &ReconcileResult{AlreadyProcessed: true, PreviouslyIssued: rec.IssuedCount}, nil
}

func (r *Reconciler) fulfill(ctx context.Context, ev PaymentEvent, now time.Time) (int, error) {
	tx := r.ledgerEntry(ev, now)

	if ev.Quantity <= r.Store.MaxAtomicLinks() {
		batch, err := links.Build(ev.Owner, ev.Quantity, links.IssueOptions{}, now)
		if err != nil {
			return 0, err
		}
		if err := r.Store.FulfillEvent(ctx, tx, batch, now); err != nil {
			return 0, fmt.Errorf("failed to fulfill event: %w", err)
		}
		return len(batch), nil
	}

	// Too large for one transaction: the claim guards against duplicates, the batch
	// itself is not atomic.
	if _, err := r.Store.RecordTransaction(ctx, tx); err != nil {
		return 0, fmt.Errorf("failed to record purchase: %w", err)
	}
	batch, err := r.Issuer.IssueBatch(ctx, ev.Owner, ev.Quantity, links.IssueOptions{})
	if err != nil {
		return 0, err
	}
	if err := r.Store.CompleteEvent(ctx, ev.TransactionID, len(batch), now); err != nil {
		return 0, fmt.Errorf("failed to complete event: %w", err)
	}
	return len(batch), nil
}

func (r *Reconciler) ledgerEntry(ev PaymentEvent, now time.Time) *models.PartnerTransaction {
	currency := ev.Currency
	if currency == "" {
		currency = "usd"
	}

	metadata := map[string]string{}
	if ev.GatewaySessionID != "" {
		metadata["gateway_session_id"] = ev.GatewaySessionID
	}
	if ev.CustomerEmail != "" {
		metadata["customer_email"] = r.Cipher.Encrypt(ev.CustomerEmail)
	}

	return &models.PartnerTransaction{
		TransactionID: ev.TransactionID,
		Type:          models.TransactionPurchase,
		OwnerID:       ev.Owner.ID(),
		Amount:        ev.Amount,
		Quantity:      ev.Quantity,
		Currency:      currency,
		Status:        models.StatusCompleted,
		Metadata:      metadata,
		CreatedAt:     now,
	}
}

// ReleaseStale frees PENDING claims older than maxAge, left behind by a process that
// died between claiming and completing. It returns the number released.
func (r *Reconciler) ReleaseStale(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := r.Store.GetStaleClaims(ctx, r.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to get stale claims: %w", err)
	}

	released := 0
	for _, rec := range stale {
		if err := r.Store.ReleaseClaim(ctx, rec.TransactionID); err != nil {
			if errors.Is(err, storage.ErrClaimNotHeld) {
				continue
			}
			slog.ErrorContext(ctx, "failed to release stale claim", "transaction_id", rec.TransactionID, "error", err)
			continue
		}
		slog.WarnContext(ctx, "released stale claim", "transaction_id", rec.TransactionID, "claimed_at", rec.ClaimedAt)
		released++
	}
	return released, nil
}
