// handlers/webhooks_test.go
package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitwork/db"
	"gitwork/models"
	"gitwork/services"
	"gitwork/testutil"
)

const testWebhookSecret = "test-webhook-secret"

type nullWallets struct{ created int }

func (n *nullWallets) CreateWallet(ctx context.Context) (services.EscrowWallet, error) {
	n.created++
	return services.EscrowWallet{
		ProviderID: fmt.Sprintf("wallet-%d", n.created),
		Address:    solana.NewWallet().PublicKey().String(),
	}, nil
}

func (n *nullWallets) Transfer(ctx context.Context, from services.EscrowWallet, toAddress string, amount decimal.Decimal, currency models.Currency) (string, error) {
	return "sig-test", nil
}

type nullOracle struct{}

func (nullOracle) GetBalance(ctx context.Context, address string, currency models.Currency) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type nullNotifier struct{ posted int }

func (n *nullNotifier) PostIssueComment(ctx context.Context, installationID int64, owner, repo string, issueNumber int, body string) error {
	n.posted++
	return nil
}

type webhookFixture struct {
	app   *fiber.App
	store *db.Store
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gdb := testutil.NewTestDB(t, &models.Bounty{}, &models.Installation{}, &models.ActivityLog{})
	store := db.NewStore(gdb)
	svc := services.NewBountyService(store, &nullWallets{}, nullOracle{}, &nullNotifier{},
		"https://gitwork.dev", "")

	app := fiber.New()
	SetupWebhookRoutes(app, NewWebhookHandler(svc, testWebhookSecret))
	return &webhookFixture{app: app, store: store}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func deliver(t *testing.T, app *fiber.App, event string, body []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-GitHub-Delivery", "delivery-1")
	req.Header.Set("X-Hub-Signature-256", signature)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func labeledPayload(labelName string) []byte {
	return []byte(fmt.Sprintf(`{
		"action": "labeled",
		"label": {"name": %q},
		"issue": {"id": 9001, "number": 42, "labels": [{"name": %q}]},
		"repository": {"name": "hello-world", "owner": {"login": "octocat"}},
		"installation": {"id": 77}
	}`, labelName, labelName))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := labeledPayload("gitwork:USDC:50")

	t.Run("wrong secret", func(t *testing.T) {
		resp := deliver(t, f.app, "issues", body, sign("wrong-secret", body))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing signature", func(t *testing.T) {
		resp := deliver(t, f.app, "issues", body, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	// Authentication failures must have no side effects.
	b, err := f.store.FindBountyByIssue("octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	f := newWebhookFixture(t)
	body := []byte(`{"zen": "Keep it logically awesome."}`)

	resp := deliver(t, f.app, "ping", body, sign(testWebhookSecret, body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = deliver(t, f.app, "star", []byte(`{"action":"created"}`), sign(testWebhookSecret, []byte(`{"action":"created"}`)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookLabeledCreatesBounty(t *testing.T) {
	f := newWebhookFixture(t)
	body := labeledPayload("gitwork:USDC:50")

	resp := deliver(t, f.app, "issues", body, sign(testWebhookSecret, body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := f.store.FindBountyByIssue("octocat", "hello-world", 42)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, models.StatusPendingDeposit, b.Status)
	assert.True(t, b.BountyAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(77), b.GithubInstallationID)
}

func TestWebhookNonBountyLabelIsNoOp(t *testing.T) {
	f := newWebhookFixture(t)
	body := labeledPayload("help wanted")

	resp := deliver(t, f.app, "issues", body, sign(testWebhookSecret, body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := f.store.FindBountyByIssue("octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestWebhookInstallationLifecycle(t *testing.T) {
	f := newWebhookFixture(t)

	created := []byte(`{
		"action": "created",
		"installation": {"id": 55, "account": {"login": "octocat", "type": "User"}}
	}`)
	resp := deliver(t, f.app, "installation", created, sign(testWebhookSecret, created))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var inst models.Installation
	require.NoError(t, f.store.DB.First(&inst, "github_installation_id = ?", 55).Error)
	assert.Equal(t, "octocat", inst.GithubAccountLogin)
	assert.Nil(t, inst.UninstalledAt)

	deleted := []byte(`{
		"action": "deleted",
		"installation": {"id": 55, "account": {"login": "octocat", "type": "User"}}
	}`)
	resp = deliver(t, f.app, "installation", deleted, sign(testWebhookSecret, deleted))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, f.store.DB.First(&inst, "github_installation_id = ?", 55).Error)
	assert.NotNil(t, inst.UninstalledAt)
}

func TestWebhookHealth(t *testing.T) {
	f := newWebhookFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/health", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
