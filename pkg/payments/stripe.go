package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// ErrInvalidSignature is returned when a webhook payload fails signature verification.
var ErrInvalidSignature = errors.New("invalid stripe signature")

// Webhook outcome statuses reported back to the gateway.
const (
	StatusProcessed = "processed"
	StatusDuplicate = "duplicate"
	StatusIgnored   = "ignored"
)

// EventReconciler is implemented by Reconciler.
type EventReconciler interface {
	Reconcile(ctx context.Context, ev PaymentEvent) (*ReconcileResult, error)
}

// WebhookResult summarizes how a webhook delivery was handled.
type WebhookResult struct {
	Status string
	Issued int
}

// StripeWebhook verifies Stripe deliveries and feeds completed checkouts to the reconciler.
type StripeWebhook struct {
	Secret     string
	Reconciler EventReconciler
	Plans      *Catalog
}

// NewStripeWebhook creates a new StripeWebhook.
func NewStripeWebhook(secret string, reconciler EventReconciler, plans *Catalog) *StripeWebhook {
	return &StripeWebhook{Secret: secret, Reconciler: reconciler, Plans: plans}
}

type stripeCheckoutSession struct {
	ID                string            `json:"id"`
	Mode              string            `json:"mode"`
	PaymentStatus     string            `json:"payment_status"`
	AmountTotal       int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	CustomerEmail     string            `json:"customer_email"`
	CustomerDetails   stripeCustDetails `json:"customer_details"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

type stripeCustDetails struct {
	Email string `json:"email"`
}

// Handle verifies the signature of payload and processes the event it carries.
func (w *StripeWebhook) Handle(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error) {
	if strings.TrimSpace(sigHeader) == "" {
		return nil, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, w.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout.session: %w", err)
		}
		return w.handleCheckoutSession(ctx, &event, session)
	default:
		slog.DebugContext(ctx, "ignoring stripe event", "event_id", event.ID, "type", event.Type)
		return &WebhookResult{Status: StatusIgnored}, nil
	}
}

func (w *StripeWebhook) handleCheckoutSession(ctx context.Context, event *stripe.Event, session stripeCheckoutSession) (*WebhookResult, error) {
	if session.PaymentStatus != string(stripe.CheckoutSessionPaymentStatusPaid) {
		slog.InfoContext(ctx, "checkout session not paid yet", "event_id", event.ID, "session_id", session.ID, "payment_status", session.PaymentStatus)
		return &WebhookResult{Status: StatusIgnored}, nil
	}

	ev, ok := w.paymentEvent(session)
	if !ok {
		// Never provision from a session that cannot be tied to an owner and quantity.
		slog.WarnContext(ctx, "checkout session missing owner or quantity, refusing to provision",
			"event_id", event.ID, "session_id", session.ID)
		return &WebhookResult{Status: StatusIgnored}, nil
	}

	res, err := w.Reconciler.Reconcile(ctx, ev)
	if errors.Is(err, links.ErrInvalidCount) || errors.Is(err, links.ErrMissingField) {
		// Redelivery cannot make this session valid, so acknowledge it.
		slog.WarnContext(ctx, "checkout session cannot be fulfilled, refusing to provision",
			"event_id", event.ID, "session_id", session.ID, "owner_id", ev.Owner.ID(), "quantity", ev.Quantity, "error", err)
		return &WebhookResult{Status: StatusIgnored}, nil
	}
	if err != nil {
		return nil, err
	}
	if res.AlreadyProcessed {
		return &WebhookResult{Status: StatusDuplicate}, nil
	}
	return &WebhookResult{Status: StatusProcessed, Issued: res.Issued}, nil
}

// paymentEvent maps a checkout session to a PaymentEvent. The session id is the
// idempotency key, so the completed and async-succeeded events of one session
// provision once.
func (w *StripeWebhook) paymentEvent(session stripeCheckoutSession) (PaymentEvent, bool) {
	ownerID := session.Metadata["owner_id"]
	if ownerID == "" {
		ownerID = session.ClientReferenceID
	}
	if ownerID == "" || session.ID == "" {
		return PaymentEvent{}, false
	}

	quantity, _ := strconv.Atoi(session.Metadata["quantity"])
	if quantity < 1 && w.Plans != nil {
		if plan, ok := w.Plans.Get(session.Metadata["plan_id"]); ok {
			quantity = plan.Quantity
		}
	}
	if quantity < 1 {
		return PaymentEvent{}, false
	}

	email := session.CustomerDetails.Email
	if email == "" {
		email = session.CustomerEmail
	}

	return PaymentEvent{
		TransactionID:    session.ID,
		Owner:            models.ParseOwner(ownerID),
		Quantity:         quantity,
		Amount:           session.AmountTotal,
		Currency:         session.Currency,
		GatewaySessionID: session.ID,
		CustomerEmail:    email,
	}, true
}
