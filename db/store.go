// db/store.go
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitwork/models"
)

// Store is the ledger: the only mutable shared resource in the system. Every
// lifecycle transition goes through a guarded UPDATE whose WHERE clause
// re-checks the from-state, so a caller that lost a race sees zero rows
// affected instead of clobbering a newer status.
type Store struct {
	DB *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{DB: gdb}
}

// --- Bounties ---

// CreateBounty inserts a new bounty row. A second non-cancelled bounty for the
// same (owner, repo, issue) triple fails with gorm.ErrDuplicatedKey; the engine
// resolves that conflict by re-reading the now-existing row.
func (s *Store) CreateBounty(b *models.Bounty) error {
	return s.DB.Create(b).Error
}

// FindBountyByIssue returns the latest non-cancelled bounty for an issue, or
// nil when there is none.
func (s *Store) FindBountyByIssue(owner, repo string, issueNumber int) (*models.Bounty, error) {
	var b models.Bounty
	err := s.DB.
		Where("github_repo_owner = ? AND github_repo_name = ? AND github_issue_number = ? AND status <> ?",
			owner, repo, issueNumber, models.StatusCancelled).
		Order("id DESC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) FindBountyByID(id uint) (*models.Bounty, error) {
	var b models.Bounty
	err := s.DB.First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBountiesByStatus(status models.BountyStatus) ([]models.Bounty, error) {
	var bounties []models.Bounty
	if err := s.DB.Where("status = ?", status).Order("id ASC").Find(&bounties).Error; err != nil {
		return nil, err
	}
	return bounties, nil
}

// ConfirmDeposit moves pending_deposit -> deposit_confirmed. Returns false when
// the bounty was no longer pending (a concurrent trigger got there first).
func (s *Store) ConfirmDeposit(id uint) (bool, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, models.StatusPendingDeposit).
		Updates(map[string]any{
			"status":               models.StatusDepositConfirmed,
			"deposit_confirmed_at": now,
		})
	return res.RowsAffected == 1, res.Error
}

// MarkReadyToClaim moves deposit_confirmed -> ready_to_claim and records the
// contributor identity and pull request.
func (s *Store) MarkReadyToClaim(id uint, contributor string, prNumber int) (bool, error) {
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, models.StatusDepositConfirmed).
		Updates(map[string]any{
			"status":                      models.StatusReadyToClaim,
			"contributor_github_username": contributor,
			"pull_request_number":         prNumber,
		})
	return res.RowsAffected == 1, res.Error
}

// ReserveClaim is the claim race-breaker: it stamps the destination wallet on a
// ready_to_claim bounty only while no destination is recorded yet. At most one
// concurrent claimer wins; everyone else gets false and must not transfer.
func (s *Store) ReserveClaim(id uint, walletAddress string) (bool, error) {
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ? AND claim_wallet_address IS NULL", id, models.StatusReadyToClaim).
		Update("claim_wallet_address", walletAddress)
	return res.RowsAffected == 1, res.Error
}

// ReleaseClaim clears a reservation after a failed transfer so the claim can be
// retried. Only applies while the bounty is still ready_to_claim.
func (s *Store) ReleaseClaim(id uint) error {
	return s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, models.StatusReadyToClaim).
		Update("claim_wallet_address", nil).Error
}

// FinalizeClaim moves ready_to_claim -> claimed with a confirmed signature.
func (s *Store) FinalizeClaim(id uint, signature string) (bool, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, models.StatusReadyToClaim).
		Updates(map[string]any{
			"status":                models.StatusClaimed,
			"claimed_at":            now,
			"transaction_signature": signature,
		})
	return res.RowsAffected == 1, res.Error
}

// CancelFrom moves the bounty to cancelled only if it is still in the observed
// from-state. The caller uses the observed state to decide whether a refund is
// owed, so the guard doubles as the exactly-one-refund-attempt gate.
func (s *Store) CancelFrom(id uint, from models.BountyStatus) (bool, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *Store) RecordRefund(id uint, signature string) error {
	return s.DB.Model(&models.Bounty{}).
		Where("id = ?", id).
		Update("refund_transaction", signature).Error
}

// UpdatePendingBounty corrects amount/currency of a bounty that has not been
// funded yet (label edited before deposit). Funded bounties are immutable.
func (s *Store) UpdatePendingBounty(id uint, amount decimal.Decimal, currency models.Currency) (bool, error) {
	res := s.DB.Model(&models.Bounty{}).
		Where("id = ? AND status = ?", id, models.StatusPendingDeposit).
		Updates(map[string]any{
			"bounty_amount": amount,
			"currency":      currency,
		})
	return res.RowsAffected == 1, res.Error
}

// --- Activity log ---

// AppendActivity writes one audit row. Entries are write-once; nothing in the
// engine ever reads them back.
func (s *Store) AppendActivity(bountyID *uint, eventType string, eventData any) error {
	payload, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to serialize activity payload: %w", err)
	}
	entry := models.ActivityLog{
		EventID:   uuid.NewString(),
		BountyID:  bountyID,
		EventType: eventType,
		EventData: string(payload),
	}
	return s.DB.Create(&entry).Error
}

// ActivityBetween lists audit rows in [start, end), oldest first.
func (s *Store) ActivityBetween(start, end time.Time) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := s.DB.
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// --- Installations ---

// SaveInstallation upserts an installation record. A re-install after an
// uninstall reopens the same row.
func (s *Store) SaveInstallation(installationID int64, login, accountType string) error {
	inst := models.Installation{
		GithubInstallationID: installationID,
		GithubAccountLogin:   login,
		GithubAccountType:    accountType,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "github_installation_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"github_account_login": login,
			"github_account_type":  accountType,
			"uninstalled_at":       nil,
		}),
	}).Create(&inst).Error
}

func (s *Store) MarkUninstalled(installationID int64) error {
	now := time.Now().UTC()
	return s.DB.Model(&models.Installation{}).
		Where("github_installation_id = ?", installationID).
		Update("uninstalled_at", now).Error
}

// --- Read surface for the HTTP API ---

// SearchBounties returns visible bounties (funded or later), newest first,
// optionally filtered by repo owner/name substring.
func (s *Store) SearchBounties(query string, limit int) ([]models.Bounty, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	q := s.DB.
		Where("status IN ?", []models.BountyStatus{
			models.StatusDepositConfirmed,
			models.StatusReadyToClaim,
			models.StatusClaimed,
		})

	if query != "" {
		term := "%" + query + "%"
		q = q.Where("LOWER(github_repo_name) LIKE LOWER(?) OR LOWER(github_repo_owner) LIKE LOWER(?)", term, term)
	}

	var bounties []models.Bounty
	if err := q.Order("created_at DESC").Limit(limit).Find(&bounties).Error; err != nil {
		return nil, err
	}
	return bounties, nil
}

// BountyStats is the aggregate view shown on the public stats endpoint.
type BountyStats struct {
	TotalBounties int64           `json:"total_bounties"`
	ClaimedCount  int64           `json:"claimed_count"`
	ActiveCount   int64           `json:"active_count"`
	TotalUSDCPaid decimal.Decimal `json:"total_usdc_paid"`
	TotalSOLPaid  decimal.Decimal `json:"total_sol_paid"`
}

func (s *Store) GetBountyStats() (*BountyStats, error) {
	var stats BountyStats
	err := s.DB.Raw(`
		SELECT
			COUNT(*) AS total_bounties,
			SUM(CASE WHEN status = 'claimed' THEN 1 ELSE 0 END) AS claimed_count,
			SUM(CASE WHEN status IN ('deposit_confirmed', 'ready_to_claim') THEN 1 ELSE 0 END) AS active_count,
			COALESCE(SUM(CASE WHEN currency = 'USDC' AND status = 'claimed' THEN bounty_amount ELSE 0 END), 0) AS total_usdc_paid,
			COALESCE(SUM(CASE WHEN currency = 'SOL' AND status = 'claimed' THEN bounty_amount ELSE 0 END), 0) AS total_sol_paid
		FROM bounties
	`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ClaimedByContributor lists a contributor's claimed bounties, newest first.
func (s *Store) ClaimedByContributor(username string) ([]models.Bounty, error) {
	var bounties []models.Bounty
	err := s.DB.
		Where("contributor_github_username = ? AND status = ?", username, models.StatusClaimed).
		Order("claimed_at DESC").
		Find(&bounties).Error
	if err != nil {
		return nil, err
	}
	return bounties, nil
}
