package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// BrandingSource resolves the branding shown alongside a validated link.
type BrandingSource interface {
	Branding(ctx context.Context, owner models.Owner) (*models.Branding, error)
}

// ValidationResult is what a redeeming client needs to open the session.
type ValidationResult struct {
	SessionID string
	Owner     models.Owner
	ExpiresAt *time.Time
	Branding  *models.Branding
}

// Validator checks links without changing their state.
type Validator struct {
	Store    storage.LinkReader
	Branding BrandingSource
	Now      func() time.Time
}

// NewValidator creates a new Validator. branding may be nil.
func NewValidator(store storage.LinkReader, branding BrandingSource) *Validator {
	return &Validator{Store: store, Branding: branding, Now: time.Now}
}

// Validate looks up token and enforces expiry for partner-owned links. Starter links
// are exempt from expiry.
func (v *Validator) Validate(ctx context.Context, token string) (*ValidationResult, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token", ErrMissingField)
	}

	link, err := v.Store.GetLink(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	owner := link.Owner()
	if owner.EnforcesExpiry() && link.Expired(v.Now()) {
		return nil, ErrExpired
	}

	return &ValidationResult{
		SessionID: link.SessionID,
		Owner:     owner,
		ExpiresAt: link.ExpiresAt,
		Branding:  v.branding(ctx, owner),
	}, nil
}

func (v *Validator) branding(ctx context.Context, owner models.Owner) *models.Branding {
	if v.Branding == nil {
		return nil
	}
	b, err := v.Branding.Branding(ctx, owner)
	if err != nil {
		slog.WarnContext(ctx, "branding lookup failed", "owner_id", owner.ID(), "error", err)
		return nil
	}
	return b
}
