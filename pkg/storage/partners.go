package storage

import (
	"context"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// PartnerStore defines the interface for managing partner accounts.
// Email lookups take the encrypted email, so the caller encrypts before querying.
type PartnerStore interface {
	// CreatePartner stores a new partner. It returns ErrAlreadyExists if the id or the
	// encrypted email is taken.
	CreatePartner(ctx context.Context, partner *models.Partner) error

	// GetPartner retrieves a partner by id.
	GetPartner(ctx context.Context, partnerID string) (*models.Partner, error)

	// GetPartnerByEmail retrieves a partner by encrypted email.
	GetPartnerByEmail(ctx context.Context, encryptedEmail string) (*models.Partner, error)
}
