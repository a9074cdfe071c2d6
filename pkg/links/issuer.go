package links

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

const (
	// MaxBatchSize bounds a single issuance request.
	MaxBatchSize = 1000
	// MaxExpiryHours caps a link lifetime at ten years.
	MaxExpiryHours = 87600
)

// IssueOptions tune a batch. A nil Expiry issues links that never expire.
type IssueOptions struct {
	Expiry          *time.Duration
	SessionIDPrefix string
}

// ExpiryFromHours converts a lifetime in hours, rejecting values outside
// [1, MaxExpiryHours].
func ExpiryFromHours(hours int) (*time.Duration, error) {
	if hours < 1 || hours > MaxExpiryHours {
		return nil, fmt.Errorf("%w: %d hours not in [1, %d]", ErrInvalidExpiry, hours, MaxExpiryHours)
	}
	d := time.Duration(hours) * time.Hour
	return &d, nil
}

// NewToken returns a fresh opaque link token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Build creates count unsaved links for owner, all stamped with now.
func Build(owner models.Owner, count int, opts IssueOptions, now time.Time) ([]models.SecureLink, error) {
	if count < 1 || count > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCount, count, MaxBatchSize)
	}

	var expiresAt *time.Time
	if opts.Expiry != nil {
		if *opts.Expiry < time.Hour || *opts.Expiry > MaxExpiryHours*time.Hour {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExpiry, *opts.Expiry)
		}
		t := now.Add(*opts.Expiry)
		expiresAt = &t
	}

	links := make([]models.SecureLink, count)
	for i := range links {
		links[i] = models.SecureLink{
			Token:     NewToken(),
			OwnerID:   owner.ID(),
			SessionID: opts.SessionIDPrefix + uuid.NewString(),
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
	}
	return links, nil
}

// Issuer creates and persists batches of secure links.
type Issuer struct {
	Store storage.LinkWriter
	Now   func() time.Time
}

// NewIssuer creates a new Issuer.
func NewIssuer(store storage.LinkWriter) *Issuer {
	return &Issuer{Store: store, Now: time.Now}
}

// IssueBatch generates count links for owner and writes them in one bulk operation.
func (i *Issuer) IssueBatch(ctx context.Context, owner models.Owner, count int, opts IssueOptions) ([]models.SecureLink, error) {
	links, err := Build(owner, count, opts, i.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := i.Store.CreateLinks(ctx, links); err != nil {
		return nil, &IssuanceError{Owner: owner.ID(), Requested: count, Err: err}
	}

	slog.InfoContext(ctx, "issued links", "owner_id", owner.ID(), "count", count, "expires", opts.Expiry != nil)
	return links, nil
}
