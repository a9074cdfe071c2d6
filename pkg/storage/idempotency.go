package storage

import (
	"context"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// IdempotencyStore defines the privileged interface used by the payment reconciler.
// It should only be exposed to the components that process gateway events.
type IdempotencyStore interface {
	LedgerWriter
	LinkWriter

	// ClaimEvent stores a PENDING record for the transaction id. It returns
	// ErrEventClaimed if a record already exists.
	ClaimEvent(ctx context.Context, rec *models.IdempotencyRecord) error

	// GetIdempotencyRecord retrieves the record of a transaction id.
	GetIdempotencyRecord(ctx context.Context, transactionID string) (*models.IdempotencyRecord, error)

	// CompleteEvent moves a PENDING record to COMPLETED with the issued count.
	CompleteEvent(ctx context.Context, transactionID string, issued int, at time.Time) error

	// ReleaseClaim deletes a PENDING record so the event can be processed again.
	ReleaseClaim(ctx context.Context, transactionID string) error

	// FulfillEvent writes the ledger entry, the links and the COMPLETED record in one
	// atomic operation. It returns ErrTooManyItems when len(links) exceeds MaxAtomicLinks.
	FulfillEvent(ctx context.Context, tx *models.PartnerTransaction, links []models.SecureLink, at time.Time) error

	// MaxAtomicLinks is the largest link count FulfillEvent accepts.
	MaxAtomicLinks() int

	// GetStaleClaims retrieves PENDING records claimed before cutoff.
	GetStaleClaims(ctx context.Context, cutoff time.Time) ([]models.IdempotencyRecord, error)
}
