package storage

import (
	"context"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// LinkReader defines the interface for reading secure links.
type LinkReader interface {
	// GetLink retrieves a link by token. It returns ErrNotFound if there is none.
	GetLink(ctx context.Context, token string) (*models.SecureLink, error)

	// ListLinksByOwner returns all links of an owner, newest first.
	ListLinksByOwner(ctx context.Context, ownerID string) ([]models.SecureLink, error)

	// CountLinks counts an owner's links matching the status filter.
	CountLinks(ctx context.Context, ownerID string, status models.LinkStatus) (int, error)
}

// LinkWriter defines the interface for creating links and recording their state transitions.
type LinkWriter interface {
	// CreateLinks inserts a batch of links. Links written before a failure are kept.
	CreateLinks(ctx context.Context, links []models.SecureLink) error

	// MarkLinkUsed sets is_used and used_at unless the link is already used.
	// It reports whether the link changed and returns ErrNotFound for unknown tokens.
	MarkLinkUsed(ctx context.Context, token string, at time.Time) (bool, error)

	// MarkLinkSold records the sale context unless the link is already sold.
	// It reports whether the link changed and returns ErrNotFound for unknown tokens.
	MarkLinkSold(ctx context.Context, token string, sale models.LinkMetadata) (bool, error)
}

// LinkStore combines the reader and writer interfaces.
type LinkStore interface {
	LinkReader
	LinkWriter
}
