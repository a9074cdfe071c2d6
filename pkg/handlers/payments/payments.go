package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/respond"
	paymentsvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/payments"
)

const webhookBodyLimit = 1024 * 1024 // 1MiB

// WebhookProcessor is implemented by payments.StripeWebhook.
type WebhookProcessor interface {
	Handle(ctx context.Context, payload []byte, sigHeader string) (*paymentsvc.WebhookResult, error)
}

// PaymentsHandler holds the dependencies for payment-related handlers.
type PaymentsHandler struct {
	Webhook  WebhookProcessor
	Checkout paymentsvc.CheckoutCreator
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(webhook WebhookProcessor, checkout paymentsvc.CheckoutCreator) *PaymentsHandler {
	return &PaymentsHandler{Webhook: webhook, Checkout: checkout}
}

// HandlePaymentWebhook verifies and reconciles a gateway delivery. Anything other than
// a 2xx makes the gateway retry, so only failures that a retry can fix return one.
func (h *PaymentsHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request, params api.HandlePaymentWebhookParams) {
	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	res, err := h.Webhook.Handle(r.Context(), payload, params.StripeSignature)
	if err != nil {
		switch {
		case errors.Is(err, paymentsvc.ErrInvalidSignature):
			slog.WarnContext(r.Context(), "rejected webhook with invalid signature", "error", err)
			respond.Error(w, http.StatusBadRequest, "invalid signature")
		case errors.Is(err, paymentsvc.ErrEventInFlight):
			respond.Error(w, http.StatusConflict, "event is being processed, retry later")
		default:
			respond.Internal(w, r, "failed to process webhook", err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, api.WebhookAck{
		Success: true,
		Status:  api.WebhookAckStatus(res.Status),
		Issued:  res.Issued,
	})
}

// CreateCheckout starts a hosted checkout for one of the catalog plans.
func (h *PaymentsHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req api.CheckoutRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	sess, err := h.Checkout.CreateCheckout(r.Context(), principal.Owner(), req.PlanId)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrUnknownPlan) {
			respond.Error(w, http.StatusBadRequest, "unknown plan")
			return
		}
		respond.Internal(w, r, "failed to create checkout", err)
		return
	}

	respond.JSON(w, http.StatusCreated, api.Checkout{SessionId: sess.SessionID, Url: sess.URL})
}
