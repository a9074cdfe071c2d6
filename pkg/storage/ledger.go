package storage

import (
	"context"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListTransactionsByOwner retrieves the most recent ledger entries of an owner.
	ListTransactionsByOwner(ctx context.Context, ownerID string, limit int32) ([]models.PartnerTransaction, error)
}

// LedgerWriter appends ledger entries.
type LedgerWriter interface {
	// RecordTransaction stores a ledger entry unless one with the same transaction id
	// exists. It reports whether the entry was created.
	RecordTransaction(ctx context.Context, tx *models.PartnerTransaction) (bool, error)
}

// LedgerStore combines the reader and writer interfaces.
type LedgerStore interface {
	LedgerReader
	LedgerWriter
}
