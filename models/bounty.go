package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSDC Currency = "USDC"
	CurrencySOL  Currency = "SOL"
)

type BountyStatus string

const (
	StatusPendingDeposit   BountyStatus = "pending_deposit"
	StatusDepositConfirmed BountyStatus = "deposit_confirmed"
	StatusReadyToClaim     BountyStatus = "ready_to_claim"
	StatusClaimed          BountyStatus = "claimed"
	StatusCancelled        BountyStatus = "cancelled"
)

// Bounty = one monetary commitment attached to one GitHub issue.
// The partial unique index keeps at most one non-cancelled bounty per
// (owner, repo, issue) triple while letting cancelled rows stay around for audit.
type Bounty struct {
	ID                        uint            `gorm:"primaryKey" json:"id"`
	GithubIssueID             int64           `gorm:"not null" json:"github_issue_id"`
	GithubRepoOwner           string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_bounties_issue,where:status <> 'cancelled'" json:"github_repo_owner"`
	GithubRepoName            string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_bounties_issue" json:"github_repo_name"`
	GithubIssueNumber         int             `gorm:"not null;uniqueIndex:idx_bounties_issue" json:"github_issue_number"`
	BountyAmount              decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"bounty_amount"`
	Currency                  Currency        `gorm:"type:varchar(8);not null;default:'USDC'" json:"currency"`
	EscrowWalletAddress       string          `gorm:"type:varchar(64);not null;index" json:"escrow_wallet_address"`
	EscrowWalletID            string          `gorm:"type:varchar(64)" json:"escrow_wallet_id"` // provider-side wallet id (Privy manages the key, we never store it)
	GithubInstallationID      int64           `gorm:"index" json:"github_installation_id"`
	Status                    BountyStatus    `gorm:"type:varchar(32);not null;default:'pending_deposit';index" json:"status"`
	ContributorGithubUsername string          `gorm:"type:varchar(255)" json:"contributor_github_username"`
	PullRequestNumber         int             `json:"pull_request_number"`
	ClaimWalletAddress        *string         `gorm:"type:varchar(64)" json:"claim_wallet_address"`
	TransactionSignature      string          `gorm:"type:varchar(128)" json:"transaction_signature"`
	RefundTransaction         string          `gorm:"type:varchar(128)" json:"refund_transaction"`
	CreatedAt                 time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt                 time.Time       `gorm:"not null" json:"updated_at"`
	DepositConfirmedAt        *time.Time      `json:"deposit_confirmed_at"`
	ClaimedAt                 *time.Time      `json:"claimed_at"`
	CancelledAt               *time.Time      `json:"cancelled_at"`
}

func (Bounty) TableName() string { return "bounties" }

// IsTerminal reports whether the bounty can never change status again.
func (b *Bounty) IsTerminal() bool {
	return b.Status == StatusClaimed || b.Status == StatusCancelled
}

// Funded reports whether escrow has held funds at some point of the lifecycle,
// which is what decides whether cancellation owes a refund.
func (b *Bounty) Funded() bool {
	return b.Status == StatusDepositConfirmed || b.Status == StatusReadyToClaim
}
