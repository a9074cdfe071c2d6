package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/auth"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/ledger"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/partners"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/handlers/payments"
	linksvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/notifier"
	partnersvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
	paymentsvc "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/payments"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/memory"
)

const testWebhookSecret = "whsec_handlers_test"

type fakeCheckout struct{}

func (fakeCheckout) CreateCheckout(_ context.Context, owner models.Owner, planID string) (*paymentsvc.CheckoutSession, error) {
	if planID != "links-10" {
		return nil, fmt.Errorf("%w: %s", paymentsvc.ErrUnknownPlan, planID)
	}
	return &paymentsvc.CheckoutSession{SessionID: "cs_test_" + owner.ID(), URL: "https://checkout.stripe.test/pay"}, nil
}

type testServer struct {
	router http.Handler
	store  *memory.Store
	tokens *auth.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	k1, err := fieldcipher.ParseKeyPair(strings.Repeat("1f", 32), strings.Repeat("2e", 16))
	require.NoError(t, err)
	k2, err := fieldcipher.ParseKeyPair(strings.Repeat("3d", 32), strings.Repeat("4c", 16))
	require.NoError(t, err)
	cipher, err := fieldcipher.New(k1, k2)
	require.NoError(t, err)

	store := memory.New()
	tokens := auth.NewTokenIssuer("handlers-test-secret", time.Hour)
	issuer := linksvc.NewIssuer(store)
	directory := partnersvc.NewDirectory(store, cipher, issuer, tokens, partnersvc.DefaultStarterLinkCount)
	webhookHandler := paymentsvc.NewStripeWebhook(testWebhookSecret, paymentsvc.NewReconciler(store, cipher), paymentsvc.DefaultCatalog())

	h := NewApiHandler(
		links.NewLinksHandler(issuer, linksvc.NewValidator(store, directory), linksvc.NewUsageTracker(store, store, cipher, notifier.NoOpNotifier{}), linksvc.NewInventory(store)),
		ledger.NewLedgerHandler(store),
		payments.NewPaymentsHandler(webhookHandler, fakeCheckout{}),
		partners.NewPartnersHandler(directory),
	)

	return &testServer{
		router: NewRouter(h, tokens, slog.New(slog.NewTextHandler(io.Discard, nil))),
		store:  store,
		tokens: tokens,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (s *testServer) signup(t *testing.T, email string) (api.Partner, string) {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/partners", api.NewPartner{
		Email:        email,
		Password:     "correct horse",
		Name:         "Jane Roe",
		BusinessName: "Acme Clinic",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	partner := decode[api.Partner](t, rr)

	rr = s.do(t, http.MethodPost, "/auth/login", api.LoginRequest{Email: email, Password: "correct horse"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return partner, decode[api.Login](t, rr).Token
}

func TestPartnerLinkLifecycle(t *testing.T) {
	s := newTestServer(t)
	partner, token := s.signup(t, "owner@acme.test")
	assert.Equal(t, "owner@acme.test", partner.Email)
	assert.Equal(t, api.PartnerRolePartner, partner.Role)

	// Starter batch from signup.
	rr := s.do(t, http.MethodGet, "/links", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[api.LinkPage](t, rr)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.Counts.Unused)

	expiry := 24
	rr = s.do(t, http.MethodPost, "/links/batch", api.NewLinkBatch{Count: 2, ExpiryHours: &expiry}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	batch := decode[api.LinkBatch](t, rr)
	require.Len(t, batch.Links, 2)
	assert.NotNil(t, batch.Links[0].ExpiresAt)
	assert.Equal(t, partner.PartnerId, batch.Links[0].OwnerId)
	linkToken := batch.Links[0].Token

	rr = s.do(t, http.MethodPost, "/links/validate", api.TokenRequest{Token: linkToken}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	validation := decode[api.Validation](t, rr)
	assert.Equal(t, batch.Links[0].SessionId, validation.SessionId)
	require.NotNil(t, validation.Branding)
	assert.Equal(t, "Acme Clinic", validation.Branding.BusinessName)

	for i := 0; i < 2; i++ {
		rr = s.do(t, http.MethodPost, "/links/mark-used", api.TokenRequest{Token: linkToken}, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[api.Success](t, rr).Success)
	}

	email := "buyer@example.com"
	amount := int64(2500)
	rr = s.do(t, http.MethodPost, "/links/mark-sold", api.MarkSoldRequest{Token: linkToken, CustomerEmail: &email, Amount: &amount}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/links?status=used", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decode[api.LinkPage](t, rr)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, api.LinkCounts{Total: 5, Used: 1, Unused: 4, Sold: 1, Unsold: 4}, page.Counts)

	rr = s.do(t, http.MethodGet, "/ledger", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decode[[]api.LedgerEntry](t, rr)
	require.Len(t, entries, 1)
	assert.Equal(t, api.Sale, entries[0].Type)
	assert.Equal(t, int64(2500), entries[0].Amount)

	rr = s.do(t, http.MethodGet, "/partners/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Jane Roe", decode[api.Partner](t, rr).Name)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "owner@acme.test")

	t.Run("Missing Token", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/links", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/partners/me", nil, token+"x")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/auth/login", api.LoginRequest{Email: "owner@acme.test", Password: "wrong password"}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Duplicate Signup", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/partners", api.NewPartner{
			Email: "OWNER@acme.test", Password: "another pass", Name: "Other", BusinessName: "Other Co",
		}, "")
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Weak Password", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/partners", api.NewPartner{
			Email: "new@acme.test", Password: "short", Name: "New", BusinessName: "New Co",
		}, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Other Owner Forbidden", func(t *testing.T) {
		other := "someone-else"
		rr := s.do(t, http.MethodPost, "/links/batch", api.NewLinkBatch{Count: 1, OwnerId: &other}, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = s.do(t, http.MethodGet, "/links?ownerId=someone-else", nil, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Admin Issues For Starter Owner", func(t *testing.T) {
		adminToken, _, err := s.tokens.Issue("admin-1", models.RoleAdmin)
		require.NoError(t, err)

		starter := models.StarterOwnerID
		rr := s.do(t, http.MethodPost, "/links/batch", api.NewLinkBatch{Count: 4, OwnerId: &starter}, adminToken)
		require.Equal(t, http.StatusCreated, rr.Code)

		n, err := s.store.CountLinks(context.Background(), models.StarterOwnerID, models.LinkStatusUnused)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}

func TestLinkErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "owner@acme.test")
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	require.NoError(t, s.store.CreateLinks(ctx, []models.SecureLink{
		{Token: "expired-partner", OwnerID: "P-1", SessionID: "s1", ExpiresAt: &past, CreatedAt: past.Add(-24 * time.Hour)},
		{Token: "expired-starter", OwnerID: models.StarterOwnerID, SessionID: "s2", ExpiresAt: &past, CreatedAt: past.Add(-24 * time.Hour)},
	}))

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Unknown Token", "/links/validate", api.TokenRequest{Token: "nope"}, http.StatusNotFound},
		{"Empty Token", "/links/validate", api.TokenRequest{}, http.StatusBadRequest},
		{"Expired Partner Link", "/links/validate", api.TokenRequest{Token: "expired-partner"}, http.StatusGone},
		{"Starter Link Never Expires", "/links/validate", api.TokenRequest{Token: "expired-starter"}, http.StatusOK},
		{"Mark Unknown Used", "/links/mark-used", api.TokenRequest{Token: "nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}

	t.Run("Malformed Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/links/validate", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		s.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Invalid Count", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/links/batch", api.NewLinkBatch{Count: 0}, token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Expiry Out Of Range", func(t *testing.T) {
		for _, hours := range []int{0, 87601, 3000000} {
			expiry := hours
			rr := s.do(t, http.MethodPost, "/links/batch", api.NewLinkBatch{Count: 1, ExpiryHours: &expiry}, token)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "expiryHours=%d", hours)
		}
	})

	t.Run("Unknown Status Filter", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/links?status=archived", nil, token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Sell Foreign Link", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/links/mark-sold", api.MarkSoldRequest{Token: "expired-partner"}, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func signedWebhook(t *testing.T, object string) ([]byte, string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{"id":"evt_%d","object":"event","type":"checkout.session.completed","data":{"object":%s}}`,
		time.Now().UnixNano(), object))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestPaymentWebhook(t *testing.T) {
	s := newTestServer(t)
	object := `{"id":"cs_test_web","payment_status":"paid","amount_total":4900,"currency":"usd","client_reference_id":"P-9","metadata":{"quantity":"5"}}`

	post := func(payload []byte, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
		if header != "" {
			req.Header.Set("Stripe-Signature", header)
		}
		rr := httptest.NewRecorder()
		s.router.ServeHTTP(rr, req)
		return rr
	}

	payload, header := signedWebhook(t, object)
	rr := post(payload, header)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ack := decode[api.WebhookAck](t, rr)
	assert.Equal(t, api.Processed, ack.Status)
	assert.Equal(t, 5, ack.Issued)

	payload, header = signedWebhook(t, object)
	rr = post(payload, header)
	require.Equal(t, http.StatusOK, rr.Code)
	ack = decode[api.WebhookAck](t, rr)
	assert.Equal(t, api.Duplicate, ack.Status)
	assert.Equal(t, 0, ack.Issued)

	n, err := s.store.CountLinks(context.Background(), "P-9", models.LinkStatusAll)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	t.Run("Bad Signature", func(t *testing.T) {
		payload, _ := signedWebhook(t, object)
		rr := post(payload, "t=1,v1=deadbeef")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing Signature", func(t *testing.T) {
		payload, _ := signedWebhook(t, object)
		rr := post(payload, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Oversized Quantity Acknowledged", func(t *testing.T) {
		payload, header := signedWebhook(t, `{"id":"cs_test_big","payment_status":"paid","client_reference_id":"P-9","metadata":{"quantity":"5000"}}`)
		rr := post(payload, header)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, api.Ignored, decode[api.WebhookAck](t, rr).Status)

		n, err := s.store.CountLinks(context.Background(), "P-9", models.LinkStatusAll)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})
}

func TestCheckout(t *testing.T) {
	s := newTestServer(t)
	partner, token := s.signup(t, "owner@acme.test")

	rr := s.do(t, http.MethodPost, "/payments/checkout", api.CheckoutRequest{PlanId: "links-10"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "cs_test_"+partner.PartnerId, decode[api.Checkout](t, rr).SessionId)

	rr = s.do(t, http.MethodPost, "/payments/checkout", api.CheckoutRequest{PlanId: "gold"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/payments/checkout", api.CheckoutRequest{PlanId: "links-10"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
