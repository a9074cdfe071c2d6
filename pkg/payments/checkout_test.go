package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

type fakeSessions struct {
	params *stripe.CheckoutSessionParams
	err    error
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func TestCreateCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		fake := &fakeSessions{}
		c := &StripeCheckout{Sessions: fake, Plans: DefaultCatalog(), SuccessURL: "https://app/success", CancelURL: "https://app/cancel"}

		s, err := c.CreateCheckout(ctx, models.PartnerOwner("P-1"), "links-50")
		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", s.SessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", s.URL)

		p := fake.params
		assert.Equal(t, "P-1", *p.ClientReferenceID)
		assert.Equal(t, "payment", *p.Mode)
		assert.Equal(t, "P-1", p.Metadata["owner_id"])
		assert.Equal(t, "links-50", p.Metadata["plan_id"])
		assert.Equal(t, "50", p.Metadata["quantity"])
		assert.Equal(t, int64(19900), *p.LineItems[0].PriceData.UnitAmount)
	})

	t.Run("Unknown Plan", func(t *testing.T) {
		c := &StripeCheckout{Sessions: &fakeSessions{}, Plans: DefaultCatalog()}
		_, err := c.CreateCheckout(ctx, models.PartnerOwner("P-1"), "nope")
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})

	t.Run("Stripe Error", func(t *testing.T) {
		c := &StripeCheckout{Sessions: &fakeSessions{err: errors.New("card declined")}, Plans: DefaultCatalog()}
		_, err := c.CreateCheckout(ctx, models.PartnerOwner("P-1"), "links-10")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create checkout session")
	})
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`
plans:
  - id: clinic-small
    name: Clinic Small
    quantity: 20
    amount: 9900
  - id: clinic-large
    name: Clinic Large
    quantity: 200
    amount: 59900
    currency: eur
`))
	require.NoError(t, err)

	p, ok := c.Get("clinic-small")
	require.True(t, ok)
	assert.Equal(t, 20, p.Quantity)
	assert.Equal(t, "usd", p.Currency)

	p, ok = c.Get("clinic-large")
	require.True(t, ok)
	assert.Equal(t, "eur", p.Currency)

	_, err = ParseCatalog([]byte("plans:\n  - id: a\n    quantity: 0\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("plans:\n  - id: a\n    quantity: 1\n  - id: a\n    quantity: 2\n"))
	assert.Error(t, err)
}
