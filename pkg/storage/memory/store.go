// Package memory provides a process-local Storage used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// defaultMaxAtomicLinks mirrors the DynamoDB transaction ceiling so both backends take
// the same reconciliation path for a given quantity.
const defaultMaxAtomicLinks = 98

// Store keeps every table in maps guarded by a single lock.
type Store struct {
	mu           sync.RWMutex
	links        map[string]models.SecureLink
	transactions map[string]models.PartnerTransaction
	idempotency  map[string]models.IdempotencyRecord
	partners     map[string]models.Partner
	emails       map[string]string

	// MaxAtomic overrides the FulfillEvent ceiling when positive.
	MaxAtomic int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		links:        make(map[string]models.SecureLink),
		transactions: make(map[string]models.PartnerTransaction),
		idempotency:  make(map[string]models.IdempotencyRecord),
		partners:     make(map[string]models.Partner),
		emails:       make(map[string]string),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) GetLink(_ context.Context, token string) (*models.SecureLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[token]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", token, storage.ErrNotFound)
	}
	return &link, nil
}

func (s *Store) ListLinksByOwner(_ context.Context, ownerID string) ([]models.SecureLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var links []models.SecureLink
	for _, l := range s.links {
		if l.OwnerID == ownerID {
			links = append(links, l)
		}
	}
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (s *Store) CountLinks(_ context.Context, ownerID string, status models.LinkStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.links {
		if l.OwnerID == ownerID && status.Matches(&l) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateLinks(_ context.Context, links []models.SecureLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range links {
		if _, ok := s.links[l.Token]; ok {
			return fmt.Errorf("link %s: %w", l.Token, storage.ErrAlreadyExists)
		}
	}
	for _, l := range links {
		s.links[l.Token] = l
	}
	return nil
}

func (s *Store) MarkLinkUsed(_ context.Context, token string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[token]
	if !ok {
		return false, storage.ErrNotFound
	}
	if link.IsUsed {
		return false, nil
	}
	link.IsUsed = true
	link.UsedAt = &at
	s.links[token] = link
	return true, nil
}

func (s *Store) MarkLinkSold(_ context.Context, token string, sale models.LinkMetadata) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[token]
	if !ok {
		return false, storage.ErrNotFound
	}
	if link.Metadata.Sold {
		return false, nil
	}

	link.Metadata.Sold = true
	if sale.SoldAt != nil {
		link.Metadata.SoldAt = sale.SoldAt
	}
	if sale.CustomerEmail != "" {
		link.Metadata.CustomerEmail = sale.CustomerEmail
	}
	if sale.Plan != "" {
		link.Metadata.Plan = sale.Plan
	}
	if sale.PurchaseDate != nil {
		link.Metadata.PurchaseDate = sale.PurchaseDate
	}
	if sale.Amount > 0 {
		link.Metadata.Amount = sale.Amount
	}
	if len(sale.Extra) > 0 {
		link.Metadata.Extra = sale.Extra
	}
	s.links[token] = link
	return true, nil
}

func (s *Store) RecordTransaction(_ context.Context, tx *models.PartnerTransaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[tx.TransactionID]; ok {
		return false, nil
	}
	s.transactions[tx.TransactionID] = *tx
	return true, nil
}

func (s *Store) ListTransactionsByOwner(_ context.Context, ownerID string, limit int32) ([]models.PartnerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []models.PartnerTransaction
	for _, tx := range s.transactions {
		if tx.OwnerID == ownerID {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	if limit > 0 && len(txs) > int(limit) {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *Store) CreatePartner(_ context.Context, partner *models.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.partners[partner.PartnerID]; ok {
		return fmt.Errorf("partner %s: %w", partner.PartnerID, storage.ErrAlreadyExists)
	}
	if _, ok := s.emails[partner.Email]; ok {
		return fmt.Errorf("partner email: %w", storage.ErrAlreadyExists)
	}
	s.partners[partner.PartnerID] = *partner
	s.emails[partner.Email] = partner.PartnerID
	return nil
}

func (s *Store) GetPartner(_ context.Context, partnerID string) (*models.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partners[partnerID]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", partnerID, storage.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) GetPartnerByEmail(ctx context.Context, encryptedEmail string) (*models.Partner, error) {
	s.mu.RLock()
	id, ok := s.emails[encryptedEmail]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.GetPartner(ctx, id)
}

func (s *Store) ClaimEvent(_ context.Context, rec *models.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idempotency[rec.TransactionID]; ok {
		return storage.ErrEventClaimed
	}
	s.idempotency[rec.TransactionID] = *rec
	return nil
}

func (s *Store) GetIdempotencyRecord(_ context.Context, transactionID string) (*models.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.idempotency[transactionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) CompleteEvent(_ context.Context, transactionID string, issued int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.completeLocked(transactionID, issued, at)
}

func (s *Store) completeLocked(transactionID string, issued int, at time.Time) error {
	rec, ok := s.idempotency[transactionID]
	if !ok || rec.Status != models.IdempotencyPending {
		return storage.ErrClaimNotHeld
	}
	rec.Status = models.IdempotencyCompleted
	rec.IssuedCount = issued
	rec.CompletedAt = &at
	s.idempotency[transactionID] = rec
	return nil
}

func (s *Store) ReleaseClaim(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.idempotency[transactionID]
	if !ok || rec.Status != models.IdempotencyPending {
		return storage.ErrClaimNotHeld
	}
	delete(s.idempotency, transactionID)
	return nil
}

func (s *Store) MaxAtomicLinks() int {
	if s.MaxAtomic > 0 {
		return s.MaxAtomic
	}
	return defaultMaxAtomicLinks
}

// FulfillEvent validates every write before applying any of them.
func (s *Store) FulfillEvent(_ context.Context, tx *models.PartnerTransaction, links []models.SecureLink, at time.Time) error {
	if len(links) > s.MaxAtomicLinks() {
		return fmt.Errorf("%d links: %w", len(links), storage.ErrTooManyItems)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.idempotency[tx.TransactionID]; !ok || rec.Status != models.IdempotencyPending {
		return storage.ErrClaimNotHeld
	}
	if _, ok := s.transactions[tx.TransactionID]; ok {
		return fmt.Errorf("ledger entry %s: %w", tx.TransactionID, storage.ErrAlreadyExists)
	}
	for _, l := range links {
		if _, ok := s.links[l.Token]; ok {
			return fmt.Errorf("link %s: %w", l.Token, storage.ErrAlreadyExists)
		}
	}

	s.transactions[tx.TransactionID] = *tx
	for _, l := range links {
		s.links[l.Token] = l
	}
	return s.completeLocked(tx.TransactionID, len(links), at)
}

func (s *Store) GetStaleClaims(_ context.Context, cutoff time.Time) ([]models.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []models.IdempotencyRecord
	for _, rec := range s.idempotency {
		if rec.Status == models.IdempotencyPending && rec.ClaimedAt.Before(cutoff) {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
