package links

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/notifier/mocks"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func hours(n int) *time.Duration {
	d := time.Duration(n) * time.Hour
	return &d
}

func newCipher(t *testing.T) *fieldcipher.Cipher {
	t.Helper()
	k1, err := fieldcipher.ParseKeyPair(strings.Repeat("0a", 32), strings.Repeat("0b", 16))
	require.NoError(t, err)
	k2, err := fieldcipher.ParseKeyPair(strings.Repeat("0c", 32), strings.Repeat("0d", 16))
	require.NoError(t, err)
	c, err := fieldcipher.New(k1, k2)
	require.NoError(t, err)
	return c
}

type failingWriter struct {
	storage.LinkWriter
}

func (failingWriter) CreateLinks(context.Context, []models.SecureLink) error {
	return errors.New("write capacity exceeded")
}

func TestIssueBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Unique Tokens And Sessions", func(t *testing.T) {
		issuer := NewIssuer(memory.New())
		links, err := issuer.IssueBatch(ctx, models.PartnerOwner("P-1"), 50, IssueOptions{SessionIDPrefix: "chat-"})
		require.NoError(t, err)
		require.Len(t, links, 50)

		tokens := map[string]bool{}
		sessions := map[string]bool{}
		for _, l := range links {
			assert.Len(t, l.Token, 32)
			assert.True(t, strings.HasPrefix(l.SessionID, "chat-"))
			assert.Nil(t, l.ExpiresAt)
			assert.Equal(t, "P-1", l.OwnerID)
			tokens[l.Token] = true
			sessions[l.SessionID] = true
		}
		assert.Len(t, tokens, 50)
		assert.Len(t, sessions, 50)
	})

	t.Run("Expiry", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		issuer := NewIssuer(memory.New())
		issuer.Now = fixedClock(now)

		links, err := issuer.IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{Expiry: hours(24)})
		require.NoError(t, err)
		require.NotNil(t, links[0].ExpiresAt)
		assert.Equal(t, now.Add(24*time.Hour), *links[0].ExpiresAt)
	})

	t.Run("Invalid Count", func(t *testing.T) {
		issuer := NewIssuer(memory.New())
		for _, n := range []int{0, -1, MaxBatchSize + 1} {
			_, err := issuer.IssueBatch(ctx, models.PartnerOwner("P-1"), n, IssueOptions{})
			assert.ErrorIs(t, err, ErrInvalidCount)
		}
	})

	t.Run("Invalid Expiry", func(t *testing.T) {
		issuer := NewIssuer(memory.New())
		for _, d := range []time.Duration{0, -time.Hour, 30 * time.Minute, (MaxExpiryHours + 1) * time.Hour} {
			_, err := issuer.IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{Expiry: &d})
			assert.ErrorIs(t, err, ErrInvalidExpiry)
		}
	})

	t.Run("Storage Error", func(t *testing.T) {
		issuer := NewIssuer(failingWriter{})
		_, err := issuer.IssueBatch(ctx, models.StarterOwner(), 3, IssueOptions{})

		var issuanceErr *IssuanceError
		require.ErrorAs(t, err, &issuanceErr)
		assert.Equal(t, models.StarterOwnerID, issuanceErr.Owner)
		assert.Equal(t, 3, issuanceErr.Requested)
	})
}

func TestExpiryFromHours(t *testing.T) {
	d, err := ExpiryFromHours(MaxExpiryHours)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(MaxExpiryHours)*time.Hour, *d)

	for _, h := range []int{0, -5, MaxExpiryHours + 1, 3000000} {
		_, err := ExpiryFromHours(h)
		assert.ErrorIs(t, err, ErrInvalidExpiry, "hours=%d", h)
	}
}

func TestIssueHundredThenCount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 100, IssueOptions{})
	require.NoError(t, err)

	n, err := NewInventory(store).Count(ctx, models.PartnerOwner("P-1"), models.LinkStatusUnused)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
}

type staticBranding struct {
	branding *models.Branding
	err      error
}

func (s staticBranding) Branding(context.Context, models.Owner) (*models.Branding, error) {
	return s.branding, s.err
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	issue := func(store *memory.Store, owner models.Owner, expiry *time.Duration) models.SecureLink {
		issuer := NewIssuer(store)
		issuer.Now = fixedClock(t0)
		links, err := issuer.IssueBatch(ctx, owner, 1, IssueOptions{Expiry: expiry})
		require.NoError(t, err)
		return links[0]
	}

	t.Run("No Expiry Never Expires", func(t *testing.T) {
		store := memory.New()
		link := issue(store, models.PartnerOwner("P-1"), nil)

		v := NewValidator(store, nil)
		v.Now = fixedClock(t0.AddDate(10, 0, 0))
		res, err := v.Validate(ctx, link.Token)
		require.NoError(t, err)
		assert.Equal(t, link.SessionID, res.SessionID)
		assert.Nil(t, res.ExpiresAt)
	})

	t.Run("Partner Link Expires", func(t *testing.T) {
		store := memory.New()
		link := issue(store, models.PartnerOwner("P-1"), hours(24))

		v := NewValidator(store, nil)
		v.Now = fixedClock(t0.Add(25 * time.Hour))
		_, err := v.Validate(ctx, link.Token)
		assert.ErrorIs(t, err, ErrExpired)

		v.Now = fixedClock(t0.Add(23 * time.Hour))
		_, err = v.Validate(ctx, link.Token)
		assert.NoError(t, err)
	})

	t.Run("Starter Link Never Expires", func(t *testing.T) {
		store := memory.New()
		link := issue(store, models.StarterOwner(), hours(24))

		v := NewValidator(store, nil)
		v.Now = fixedClock(t0.Add(24 * 365 * time.Hour))
		res, err := v.Validate(ctx, link.Token)
		require.NoError(t, err)
		assert.Equal(t, models.OwnerStarter, res.Owner.Kind)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := NewValidator(memory.New(), nil).Validate(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Missing Token", func(t *testing.T) {
		_, err := NewValidator(memory.New(), nil).Validate(ctx, "")
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("Branding Is Best Effort", func(t *testing.T) {
		store := memory.New()
		link := issue(store, models.PartnerOwner("P-1"), nil)

		res, err := NewValidator(store, staticBranding{err: errors.New("partners unavailable")}).Validate(ctx, link.Token)
		require.NoError(t, err)
		assert.Nil(t, res.Branding)

		res, err = NewValidator(store, staticBranding{branding: &models.Branding{BusinessName: "Acme"}}).Validate(ctx, link.Token)
		require.NoError(t, err)
		assert.Equal(t, "Acme", res.Branding.BusinessName)
	})

	t.Run("Does Not Mutate", func(t *testing.T) {
		store := memory.New()
		link := issue(store, models.PartnerOwner("P-1"), nil)

		v := NewValidator(store, nil)
		for i := 0; i < 3; i++ {
			_, err := v.Validate(ctx, link.Token)
			require.NoError(t, err)
		}
		got, _ := store.GetLink(ctx, link.Token)
		assert.False(t, got.IsUsed)
	})
}

func TestMarkUsed(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Idempotent", func(t *testing.T) {
		store := memory.New()
		links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
		require.NoError(t, err)
		token := links[0].Token

		n := mocks.NewNotifier(t)
		n.On("Notify", mock.Anything, mock.MatchedBy(func(msg *models.Notification) bool {
			return msg.Type == models.NotificationLinkUsed && msg.OwnerID == "P-1" && msg.Token == token
		})).Return(nil).Once()

		tracker := NewUsageTracker(store, store, newCipher(t), n)
		tracker.Now = fixedClock(t0)
		require.NoError(t, tracker.MarkUsed(ctx, token))

		tracker.Now = fixedClock(t0.Add(time.Hour))
		require.NoError(t, tracker.MarkUsed(ctx, token))

		got, err := store.GetLink(ctx, token)
		require.NoError(t, err)
		assert.True(t, got.IsUsed)
		require.NotNil(t, got.UsedAt)
		assert.Equal(t, t0, *got.UsedAt)
	})

	t.Run("Notification Failure Is Swallowed", func(t *testing.T) {
		store := memory.New()
		links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
		require.NoError(t, err)

		n := mocks.NewNotifier(t)
		n.On("Notify", mock.Anything, mock.Anything).Return(errors.New("queue down")).Once()

		tracker := NewUsageTracker(store, store, newCipher(t), n)
		assert.NoError(t, tracker.MarkUsed(ctx, links[0].Token))

		got, _ := store.GetLink(ctx, links[0].Token)
		assert.True(t, got.IsUsed)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := memory.New()
		tracker := NewUsageTracker(store, store, newCipher(t), mocks.NewNotifier(t))
		assert.ErrorIs(t, tracker.MarkUsed(ctx, "missing"), ErrNotFound)
	})
}

func TestMarkSold(t *testing.T) {
	ctx := context.Background()
	cipher := newCipher(t)

	store := memory.New()
	links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
	require.NoError(t, err)
	token := links[0].Token

	n := mocks.NewNotifier(t)
	n.On("Notify", mock.Anything, mock.MatchedBy(func(msg *models.Notification) bool {
		return msg.Type == models.NotificationLinkSold && msg.Plan == "premium" && msg.CustomerEmail == cipher.Encrypt("buyer@example.com")
	})).Return(nil).Once()

	tracker := NewUsageTracker(store, store, cipher, n)
	sale := SaleDetails{CustomerEmail: "buyer@example.com", Plan: "premium", Amount: 2500, Currency: "eur"}
	require.NoError(t, tracker.MarkSold(ctx, token, sale))
	require.NoError(t, tracker.MarkSold(ctx, token, sale))

	got, err := store.GetLink(ctx, token)
	require.NoError(t, err)
	assert.True(t, got.Metadata.Sold)
	assert.False(t, got.IsUsed)
	assert.Equal(t, "buyer@example.com", cipher.DecryptOrRaw(got.Metadata.CustomerEmail))
	assert.NotEqual(t, "buyer@example.com", got.Metadata.CustomerEmail)

	txs, err := store.ListTransactionsByOwner(ctx, "P-1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "sale-"+token, txs[0].TransactionID)
	assert.Equal(t, models.TransactionSale, txs[0].Type)
	assert.Equal(t, int64(2500), txs[0].Amount)
	assert.Equal(t, "eur", txs[0].Currency)
}

func TestMarkSoldAgain(t *testing.T) {
	ctx := context.Background()
	cipher := newCipher(t)

	t.Run("Different Sale Is Ignored", func(t *testing.T) {
		store := memory.New()
		links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
		require.NoError(t, err)
		token := links[0].Token
		tracker := NewUsageTracker(store, store, cipher, nil)

		require.NoError(t, tracker.MarkSold(ctx, token, SaleDetails{Plan: "basic"}))
		require.NoError(t, tracker.MarkSold(ctx, token, SaleDetails{Plan: "other", Amount: 9999}))

		txs, err := store.ListTransactionsByOwner(ctx, "P-1", 10)
		require.NoError(t, err)
		assert.Empty(t, txs)

		got, err := store.GetLink(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "basic", got.Metadata.Plan)
		assert.Zero(t, got.Metadata.Amount)
	})

	t.Run("Retry Repairs Missing Ledger Entry", func(t *testing.T) {
		store := memory.New()
		links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
		require.NoError(t, err)
		token := links[0].Token

		// Sold in storage, but the ledger write never happened.
		changed, err := store.MarkLinkSold(ctx, token, models.LinkMetadata{
			CustomerEmail: cipher.Encrypt("buyer@example.com"),
			Plan:          "premium",
			Amount:        2500,
		})
		require.NoError(t, err)
		require.True(t, changed)

		tracker := NewUsageTracker(store, store, cipher, nil)
		sale := SaleDetails{CustomerEmail: "buyer@example.com", Plan: "premium", Amount: 2500}
		require.NoError(t, tracker.MarkSold(ctx, token, sale))

		txs, err := store.ListTransactionsByOwner(ctx, "P-1", 10)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "sale-"+token, txs[0].TransactionID)
		assert.Equal(t, int64(2500), txs[0].Amount)
	})
}

func TestMarkSoldBySeller(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	links, err := NewIssuer(store).IssueBatch(ctx, models.PartnerOwner("P-1"), 1, IssueOptions{})
	require.NoError(t, err)
	tracker := NewUsageTracker(store, store, newCipher(t), nil)

	other := models.PartnerOwner("P-2")
	err = tracker.MarkSold(ctx, links[0].Token, SaleDetails{Seller: &other})
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := store.GetLink(ctx, links[0].Token)
	require.NoError(t, err)
	assert.False(t, got.Metadata.Sold)

	owner := models.PartnerOwner("P-1")
	require.NoError(t, tracker.MarkSold(ctx, links[0].Token, SaleDetails{Seller: &owner}))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	owner := models.PartnerOwner("P-1")

	issuer := NewIssuer(store)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		issuer.Now = fixedClock(t0.Add(time.Duration(i) * time.Minute))
		_, err := issuer.IssueBatch(ctx, owner, 5, IssueOptions{})
		require.NoError(t, err)
	}
	_, err := issuer.IssueBatch(ctx, models.PartnerOwner("P-2"), 3, IssueOptions{})
	require.NoError(t, err)

	all, _ := store.ListLinksByOwner(ctx, "P-1")
	tracker := NewUsageTracker(store, store, newCipher(t), nil)
	for _, l := range all[:4] {
		require.NoError(t, tracker.MarkUsed(ctx, l.Token))
	}
	require.NoError(t, tracker.MarkSold(ctx, all[0].Token, SaleDetails{}))

	inv := NewInventory(store)

	page, err := inv.List(ctx, owner, ListOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Links, 10)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, models.LinkCounts{Total: 25, Used: 4, Unused: 21, Sold: 1, Unsold: 24}, page.Counts)

	page, err = inv.List(ctx, owner, ListOptions{Status: models.LinkStatusUsed})
	require.NoError(t, err)
	assert.Len(t, page.Links, 4)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 25, page.Counts.Total)

	page, err = inv.List(ctx, owner, ListOptions{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Links)

	page, err = inv.List(ctx, owner, ListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)
}
