package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/links"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/partners"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/memory"
)

func newTestEnv(t *testing.T) *env {
	t.Helper()
	k1, err := fieldcipher.ParseKeyPair(strings.Repeat("a1", 32), strings.Repeat("b2", 16))
	require.NoError(t, err)
	k2, err := fieldcipher.ParseKeyPair(strings.Repeat("c3", 32), strings.Repeat("d4", 16))
	require.NoError(t, err)
	cipher, err := fieldcipher.New(k1, k2)
	require.NoError(t, err)
	return &env{Store: memory.New(), Cipher: cipher}
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, e, "", args...)
}

func runWithInput(t *testing.T, e *env, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(context.Context) (*env, error) { return e, nil })
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIssueAndCount(t *testing.T) {
	e := newTestEnv(t)

	out, err := run(t, e, "issue", "--owner", "P-1", "--count", "4", "--expiry-hours", "24")
	require.NoError(t, err)
	tokens := strings.Fields(out)
	assert.Len(t, tokens, 4)

	out, err = run(t, e, "count", "--owner", "P-1", "--status", "unused")
	require.NoError(t, err)
	assert.Equal(t, "4", strings.TrimSpace(out))

	out, err = run(t, e, "validate", tokens[0])
	require.NoError(t, err)
	assert.Contains(t, out, "owner:   P-1")

	_, err = run(t, e, "count", "--owner", "P-1", "--status", "archived")
	assert.Error(t, err)
}

func TestIssueExpiryOutOfRange(t *testing.T) {
	e := newTestEnv(t)

	for _, hours := range []string{"-1", "87601", "3000000"} {
		_, err := run(t, e, "issue", "--owner", "P-1", "--expiry-hours="+hours)
		assert.ErrorIs(t, err, links.ErrInvalidExpiry, "expiry-hours=%s", hours)
	}

	all, err := e.Store.ListLinksByOwner(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIssueStarterLinks(t *testing.T) {
	e := newTestEnv(t)

	_, err := run(t, e, "issue", "--owner", models.StarterOwnerID, "--count", "2", "--expiry-hours", "1")
	require.NoError(t, err)

	starter, err := e.Store.ListLinksByOwner(context.Background(), models.StarterOwnerID)
	require.NoError(t, err)
	require.Len(t, starter, 2)

	out, err := run(t, e, "validate", starter[0].Token)
	require.NoError(t, err)
	assert.Contains(t, out, "owner:   starter-user")
}

func TestValidateUnknown(t *testing.T) {
	_, err := run(t, newTestEnv(t), "validate", "missing")
	assert.Error(t, err)
}

func TestReleaseClaim(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.Store.ClaimEvent(ctx, &models.IdempotencyRecord{
		TransactionID: "cs_stuck",
		Status:        models.IdempotencyPending,
		OwnerID:       "P-1",
	}))

	out, err := run(t, e, "release-claim", "cs_stuck")
	require.NoError(t, err)
	assert.Contains(t, out, "released cs_stuck")

	_, err = e.Store.GetIdempotencyRecord(ctx, "cs_stuck")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDecrypt(t *testing.T) {
	e := newTestEnv(t)

	out, err := run(t, e, "decrypt", e.Cipher.Encrypt("partner@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "partner@example.com", strings.TrimSpace(out))

	out, err = run(t, e, "decrypt", "legacy plaintext")
	require.NoError(t, err)
	assert.Equal(t, "legacy plaintext", strings.TrimSpace(out))
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Password Flag", func(t *testing.T) {
		e := newTestEnv(t)

		out, err := run(t, e, "create-admin", "--email", "Ops@Example.com", "--name", "Ops", "--business-name", "Back Office", "--password", "s3cret-pass")
		require.NoError(t, err)
		assert.Contains(t, out, "created admin ")

		admin, err := e.Store.GetPartnerByEmail(ctx, e.Cipher.Encrypt("ops@example.com"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")))

		issued, err := e.Store.ListLinksByOwner(ctx, admin.PartnerID)
		require.NoError(t, err)
		assert.Empty(t, issued)
	})

	t.Run("Password From Stdin", func(t *testing.T) {
		e := newTestEnv(t)

		_, err := runWithInput(t, e, "from-stdin-pass\n", "create-admin", "--email", "ops@example.com", "--name", "Ops", "--business-name", "Back Office")
		require.NoError(t, err)

		admin, err := e.Store.GetPartnerByEmail(ctx, e.Cipher.Encrypt("ops@example.com"))
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("from-stdin-pass")))
	})

	t.Run("No Password", func(t *testing.T) {
		_, err := run(t, newTestEnv(t), "create-admin", "--email", "ops@example.com", "--name", "Ops", "--business-name", "Back Office")
		assert.Error(t, err)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		e := newTestEnv(t)
		args := []string{"create-admin", "--email", "ops@example.com", "--name", "Ops", "--business-name", "Back Office", "--password", "s3cret-pass"}
		_, err := run(t, e, args...)
		require.NoError(t, err)

		_, err = run(t, e, args...)
		assert.ErrorIs(t, err, partners.ErrEmailTaken)
	})
}
