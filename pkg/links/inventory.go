package links

import (
	"context"
	"fmt"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions select one page of an owner's links.
type ListOptions struct {
	Page   int
	Limit  int
	Status models.LinkStatus
}

// Inventory answers listing and counting queries over an owner's links.
type Inventory struct {
	Store storage.LinkReader
}

// NewInventory creates a new Inventory.
func NewInventory(store storage.LinkReader) *Inventory {
	return &Inventory{Store: store}
}

// List returns the requested page, filtered by status, together with counts over all
// of the owner's links. Every call reads all of the owner's links: the counts and the
// filtered total cover the whole set, and status is not part of the owner index key,
// so a keyed page read would still need the full scan.
func (inv *Inventory) List(ctx context.Context, owner models.Owner, opts ListOptions) (*models.LinkPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultPageSize
	}
	if opts.Limit > MaxPageSize {
		opts.Limit = MaxPageSize
	}
	if opts.Status == "" {
		opts.Status = models.LinkStatusAll
	}

	all, err := inv.Store.ListLinksByOwner(ctx, owner.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	page := &models.LinkPage{Page: opts.Page, Limit: opts.Limit}
	var filtered []models.SecureLink
	for i := range all {
		page.Counts.Add(&all[i])
		if opts.Status.Matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}
	page.Total = len(filtered)

	start := (opts.Page - 1) * opts.Limit
	if start < len(filtered) {
		end := min(start+opts.Limit, len(filtered))
		page.Links = filtered[start:end]
	}
	return page, nil
}

// Count returns how many of the owner's links match status.
func (inv *Inventory) Count(ctx context.Context, owner models.Owner, status models.LinkStatus) (int, error) {
	n, err := inv.Store.CountLinks(ctx, owner.ID(), status)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}
