// db/store_test.go
package db

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gitwork/models"
	"gitwork/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb := testutil.NewTestDB(t, &models.Bounty{}, &models.Installation{}, &models.ActivityLog{})
	return NewStore(gdb)
}

func seedBounty(t *testing.T, s *Store, status models.BountyStatus) *models.Bounty {
	t.Helper()
	b := &models.Bounty{
		GithubIssueID:        1001,
		GithubRepoOwner:      "octocat",
		GithubRepoName:       "hello-world",
		GithubIssueNumber:    42,
		BountyAmount:         decimal.NewFromInt(50),
		Currency:             models.CurrencyUSDC,
		EscrowWalletAddress:  "EscrowAddr111111111111111111111111111111111",
		EscrowWalletID:       "wallet-1",
		GithubInstallationID: 77,
		Status:               status,
	}
	require.NoError(t, s.CreateBounty(b))
	return b
}

func TestCreateBountyUniqueness(t *testing.T) {
	s := newTestStore(t)

	seedBounty(t, s, models.StatusPendingDeposit)

	dup := &models.Bounty{
		GithubIssueID:       1001,
		GithubRepoOwner:     "octocat",
		GithubRepoName:      "hello-world",
		GithubIssueNumber:   42,
		BountyAmount:        decimal.NewFromInt(10),
		Currency:            models.CurrencySOL,
		EscrowWalletAddress: "EscrowAddr222222222222222222222222222222222",
		Status:              models.StatusPendingDeposit,
	}
	err := s.CreateBounty(dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateBountyAllowedAfterCancellation(t *testing.T) {
	s := newTestStore(t)

	first := seedBounty(t, s, models.StatusPendingDeposit)
	ok, err := s.CancelFrom(first.ID, models.StatusPendingDeposit)
	require.NoError(t, err)
	require.True(t, ok)

	// The cancelled row stays for audit but no longer blocks the triple.
	second := &models.Bounty{
		GithubIssueID:       1001,
		GithubRepoOwner:     "octocat",
		GithubRepoName:      "hello-world",
		GithubIssueNumber:   42,
		BountyAmount:        decimal.NewFromInt(75),
		Currency:            models.CurrencyUSDC,
		EscrowWalletAddress: "EscrowAddr333333333333333333333333333333333",
		Status:              models.StatusPendingDeposit,
	}
	require.NoError(t, s.CreateBounty(second))

	found, err := s.FindBountyByIssue("octocat", "hello-world", 42)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, second.ID, found.ID)
}

func TestFindBountyByIssueSkipsCancelled(t *testing.T) {
	s := newTestStore(t)

	b := seedBounty(t, s, models.StatusPendingDeposit)
	ok, err := s.CancelFrom(b.ID, models.StatusPendingDeposit)
	require.NoError(t, err)
	require.True(t, ok)

	found, err := s.FindBountyByIssue("octocat", "hello-world", 42)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGuardedTransitions(t *testing.T) {
	s := newTestStore(t)
	b := seedBounty(t, s, models.StatusPendingDeposit)

	t.Run("confirm deposit succeeds once", func(t *testing.T) {
		ok, err := s.ConfirmDeposit(b.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.ConfirmDeposit(b.ID)
		require.NoError(t, err)
		assert.False(t, ok, "a second confirmation must lose the guard")

		got, err := s.FindBountyByID(b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDepositConfirmed, got.Status)
		assert.NotNil(t, got.DepositConfirmedAt)
	})

	t.Run("ready to claim requires deposit_confirmed", func(t *testing.T) {
		ok, err := s.MarkReadyToClaim(b.ID, "alice", 7)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.MarkReadyToClaim(b.ID, "mallory", 8)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := s.FindBountyByID(b.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.ContributorGithubUsername)
		assert.Equal(t, 7, got.PullRequestNumber)
	})

	t.Run("cancel from stale observed status loses", func(t *testing.T) {
		ok, err := s.CancelFrom(b.ID, models.StatusDepositConfirmed)
		require.NoError(t, err)
		assert.False(t, ok, "bounty already moved to ready_to_claim")
	})
}

func TestClaimReservation(t *testing.T) {
	s := newTestStore(t)
	b := seedBounty(t, s, models.StatusReadyToClaim)

	ok, err := s.ReserveClaim(b.ID, "Dest1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second reservation attempt sees the stamped wallet and loses.
	ok, err = s.ReserveClaim(b.ID, "Dest2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.False(t, ok)

	// A failed transfer releases the reservation, reopening the claim.
	require.NoError(t, s.ReleaseClaim(b.ID))
	ok, err = s.ReserveClaim(b.ID, "Dest2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.FinalizeClaim(b.ID, "sig-abc")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.FindBountyByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClaimed, got.Status)
	assert.Equal(t, "sig-abc", got.TransactionSignature)
	assert.NotNil(t, got.ClaimedAt)

	// Terminal states never move again.
	ok, err = s.FinalizeClaim(b.ID, "sig-other")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.CancelFrom(b.ID, models.StatusReadyToClaim)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePendingBountyOnlyWhilePending(t *testing.T) {
	s := newTestStore(t)
	b := seedBounty(t, s, models.StatusPendingDeposit)

	ok, err := s.UpdatePendingBounty(b.ID, decimal.NewFromInt(100), models.CurrencySOL)
	require.NoError(t, err)
	assert.True(t, ok)

	okConfirm, err := s.ConfirmDeposit(b.ID)
	require.NoError(t, err)
	require.True(t, okConfirm)

	ok, err = s.UpdatePendingBounty(b.ID, decimal.NewFromInt(1), models.CurrencyUSDC)
	require.NoError(t, err)
	assert.False(t, ok, "funded bounties are immutable")
}

func TestInstallationUpsert(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveInstallation(55, "octocat", "User"))
	require.NoError(t, s.MarkUninstalled(55))

	var inst models.Installation
	require.NoError(t, s.DB.First(&inst, "github_installation_id = ?", 55).Error)
	require.NotNil(t, inst.UninstalledAt)

	// Re-install reopens the same row.
	require.NoError(t, s.SaveInstallation(55, "octocat", "User"))
	require.NoError(t, s.DB.First(&inst, "github_installation_id = ?", 55).Error)
	assert.Nil(t, inst.UninstalledAt)

	var count int64
	require.NoError(t, s.DB.Model(&models.Installation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestActivityLog(t *testing.T) {
	s := newTestStore(t)
	b := seedBounty(t, s, models.StatusPendingDeposit)

	require.NoError(t, s.AppendActivity(&b.ID, "bounty_created", map[string]any{"amount": "50"}))
	require.NoError(t, s.AppendActivity(nil, "installation_created", map[string]any{"login": "octocat"}))

	var entries []models.ActivityLog
	require.NoError(t, s.DB.Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, "bounty_created", entries[0].EventType)
	assert.NotEmpty(t, entries[0].EventID)
	assert.JSONEq(t, `{"amount":"50"}`, entries[0].EventData)
	assert.Nil(t, entries[1].BountyID)
}
