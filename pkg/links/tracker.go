package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/notifier"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// Encrypter applies the field cipher before values are persisted.
type Encrypter interface {
	Encrypt(plaintext string) string
}

// SaleDetails is the context recorded when a link is sold. A positive Amount also
// appends a sale entry to the ledger.
type SaleDetails struct {
	CustomerEmail string
	Plan          string
	PurchaseDate  *time.Time
	Amount        int64
	Currency      string
	Extra         map[string]string
	// Seller, when set, must own the link.
	Seller *models.Owner
}

// UsageTracker records the one-way used and sold transitions of a link.
type UsageTracker struct {
	Links    storage.LinkStore
	Ledger   storage.LedgerWriter
	Cipher   Encrypter
	Notifier notifier.Notifier
	Now      func() time.Time
}

// NewUsageTracker creates a new UsageTracker.
func NewUsageTracker(links storage.LinkStore, ledger storage.LedgerWriter, cipher Encrypter, n notifier.Notifier) *UsageTracker {
	return &UsageTracker{Links: links, Ledger: ledger, Cipher: cipher, Notifier: n, Now: time.Now}
}

// MarkUsed flags the link as redeemed. Marking an already used link is a no-op.
func (u *UsageTracker) MarkUsed(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token", ErrMissingField)
	}

	now := u.Now().UTC()
	changed, err := u.Links.MarkLinkUsed(ctx, token, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark link used: %w", err)
	}
	if !changed {
		slog.DebugContext(ctx, "link already used", "token", token)
		return nil
	}

	link, err := u.Links.GetLink(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load link for notification", "token", token, "error", err)
		return nil
	}

	u.notify(ctx, &models.Notification{
		Type:       models.NotificationLinkUsed,
		OwnerID:    link.OwnerID,
		Token:      token,
		OccurredAt: now,
	})
	return nil
}

// MarkSold records a sale on the link. Marking an already sold link is a no-op, except
// that a retry of the recorded sale still writes its ledger entry if it is missing.
func (u *UsageTracker) MarkSold(ctx context.Context, token string, sale SaleDetails) error {
	if token == "" {
		return fmt.Errorf("%w: token", ErrMissingField)
	}

	link, err := u.Links.GetLink(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get link: %w", err)
	}
	if sale.Seller != nil && sale.Seller.ID() != link.OwnerID {
		return ErrNotOwner
	}

	now := u.Now().UTC()
	purchaseDate := sale.PurchaseDate
	if purchaseDate == nil {
		purchaseDate = &now
	}
	encryptedEmail := u.Cipher.Encrypt(sale.CustomerEmail)

	changed, err := u.Links.MarkLinkSold(ctx, token, models.LinkMetadata{
		SoldAt:        &now,
		CustomerEmail: encryptedEmail,
		Plan:          sale.Plan,
		PurchaseDate:  purchaseDate,
		Amount:        sale.Amount,
		Extra:         sale.Extra,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark link sold: %w", err)
	}

	if sale.Amount > 0 && (changed || isRecordedSale(link, sale.Amount, sale.Plan, encryptedEmail)) {
		if err := u.recordSale(ctx, link, sale, encryptedEmail, now); err != nil {
			return err
		}
	}

	if !changed {
		slog.DebugContext(ctx, "link already sold", "token", token)
		return nil
	}

	u.notify(ctx, &models.Notification{
		Type:          models.NotificationLinkSold,
		OwnerID:       link.OwnerID,
		Token:         token,
		OccurredAt:    now,
		CustomerEmail: encryptedEmail,
		Plan:          sale.Plan,
	})
	return nil
}

// isRecordedSale reports whether the link was already sold with these sale fields.
func isRecordedSale(link *models.SecureLink, amount int64, plan, encryptedEmail string) bool {
	m := link.Metadata
	return m.Sold && m.Amount == amount && m.Plan == plan && m.CustomerEmail == encryptedEmail
}

func (u *UsageTracker) recordSale(ctx context.Context, link *models.SecureLink, sale SaleDetails, encryptedEmail string, now time.Time) error {
	currency := sale.Currency
	if currency == "" {
		currency = "usd"
	}

	tx := &models.PartnerTransaction{
		TransactionID: "sale-" + link.Token,
		Type:          models.TransactionSale,
		OwnerID:       link.OwnerID,
		Amount:        sale.Amount,
		Quantity:      1,
		Currency:      currency,
		Status:        models.StatusCompleted,
		Metadata:      map[string]string{"link_token": link.Token},
		CreatedAt:     now,
	}
	if encryptedEmail != "" {
		tx.Metadata["customer_email"] = encryptedEmail
	}
	if sale.Plan != "" {
		tx.Metadata["plan"] = sale.Plan
	}

	created, err := u.Ledger.RecordTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}
	if created {
		slog.InfoContext(ctx, "recorded sale", "owner_id", link.OwnerID, "token", link.Token, "amount", sale.Amount)
	}
	return nil
}

// notify enqueues n. Failures are logged and never fail the caller.
func (u *UsageTracker) notify(ctx context.Context, n *models.Notification) {
	if u.Notifier == nil {
		return
	}
	if err := u.Notifier.Notify(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue notification", "type", n.Type, "token", n.Token, "error", err)
	}
}
