package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// ErrUnknownPlan is returned when a checkout names a plan that is not in the catalog.
var ErrUnknownPlan = errors.New("unknown plan")

// CheckoutSession is the hosted payment page a partner is redirected to.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// CheckoutCreator starts a purchase of a plan for an owner.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, owner models.Owner, planID string) (*CheckoutSession, error)
}

// SessionCreator is satisfied by the stripe-go checkout session client.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeCheckout creates Stripe Checkout sessions in payment mode.
type StripeCheckout struct {
	Sessions   SessionCreator
	Plans      *Catalog
	SuccessURL string
	CancelURL  string
}

// NewStripeCheckout creates a StripeCheckout backed by the Stripe API.
func NewStripeCheckout(secretKey string, plans *Catalog, successURL, cancelURL string) *StripeCheckout {
	return &StripeCheckout{
		Sessions:   &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		Plans:      plans,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

var _ CheckoutCreator = (*StripeCheckout)(nil)

func (c *StripeCheckout) CreateCheckout(ctx context.Context, owner models.Owner, planID string) (*CheckoutSession, error) {
	plan, ok := c.Plans.Get(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, planID)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(c.SuccessURL),
		CancelURL:         stripe.String(c.CancelURL),
		ClientReferenceID: stripe.String(owner.ID()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(plan.Currency),
					UnitAmount: stripe.Int64(plan.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(plan.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("owner_id", owner.ID())
	params.AddMetadata("plan_id", plan.ID)
	params.AddMetadata("quantity", strconv.Itoa(plan.Quantity))

	s, err := c.Sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}
