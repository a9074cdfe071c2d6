package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// PartnerReader is the part of the partner store the dispatcher needs.
type PartnerReader interface {
	GetPartner(ctx context.Context, partnerID string) (*models.Partner, error)
}

// Decrypter reverses the field cipher, returning the stored value when it is not ciphertext.
type Decrypter interface {
	DecryptOrRaw(stored string) string
}

// Dispatcher turns queued notifications into partner emails.
type Dispatcher struct {
	Partners PartnerReader
	Cipher   Decrypter
	Mailer   Mailer
	BaseURL  string
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(partners PartnerReader, cipher Decrypter, mailer Mailer, baseURL string) *Dispatcher {
	return &Dispatcher{Partners: partners, Cipher: cipher, Mailer: mailer, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Deliver emails the owning partner. Notifications that have no deliverable recipient
// are dropped; every other failure is returned so the queue redelivers.
func (d *Dispatcher) Deliver(ctx context.Context, n *models.Notification) error {
	owner := models.ParseOwner(n.OwnerID)
	if owner.Kind == models.OwnerStarter {
		slog.InfoContext(ctx, "dropping notification for starter owner", "token", n.Token)
		return nil
	}

	partner, err := d.Partners.GetPartner(ctx, owner.PartnerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "dropping notification for unknown partner", "owner_id", n.OwnerID, "token", n.Token)
			return nil
		}
		return fmt.Errorf("failed to load partner %s: %w", owner.PartnerID, err)
	}

	to := d.Cipher.DecryptOrRaw(partner.Email)
	if to == "" {
		slog.WarnContext(ctx, "dropping notification, partner has no email", "owner_id", n.OwnerID)
		return nil
	}

	subject, body := d.render(n, partner)
	if err := d.Mailer.Send(ctx, to, subject, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "notification delivered", "type", n.Type, "owner_id", n.OwnerID, "token", n.Token)
	return nil
}

func (d *Dispatcher) render(n *models.Notification, partner *models.Partner) (string, string) {
	name := d.Cipher.DecryptOrRaw(partner.Name)
	at := n.OccurredAt.UTC().Format(time.RFC1123)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)

	var subject string
	switch n.Type {
	case models.NotificationLinkSold:
		subject = "A secure link was sold"
		fmt.Fprintf(&b, "Secure link %s was sold on %s.\n", n.Token, at)
		if n.Plan != "" {
			fmt.Fprintf(&b, "Plan: %s\n", n.Plan)
		}
		if n.CustomerEmail != "" {
			fmt.Fprintf(&b, "Customer: %s\n", d.Cipher.DecryptOrRaw(n.CustomerEmail))
		}
	default:
		subject = "A secure link was used"
		fmt.Fprintf(&b, "Secure link %s was redeemed on %s.\n", n.Token, at)
	}

	if d.BaseURL != "" {
		fmt.Fprintf(&b, "\nManage your links: %s/dashboard/links\n", d.BaseURL)
	}
	return subject, b.String()
}
