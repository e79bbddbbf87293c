// services/bounty_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gitwork/models"
	"gitwork/utils"
)

// LedgerStore is the durable-state contract the engine depends on. All race
// coordination lives behind it: every transition method re-checks its guard
// against the stored row and reports whether this caller won.
type LedgerStore interface {
	CreateBounty(b *models.Bounty) error
	FindBountyByIssue(owner, repo string, issueNumber int) (*models.Bounty, error)
	FindBountyByID(id uint) (*models.Bounty, error)
	ListBountiesByStatus(status models.BountyStatus) ([]models.Bounty, error)
	ConfirmDeposit(id uint) (bool, error)
	MarkReadyToClaim(id uint, contributor string, prNumber int) (bool, error)
	ReserveClaim(id uint, walletAddress string) (bool, error)
	ReleaseClaim(id uint) error
	FinalizeClaim(id uint, signature string) (bool, error)
	CancelFrom(id uint, from models.BountyStatus) (bool, error)
	RecordRefund(id uint, signature string) error
	UpdatePendingBounty(id uint, amount decimal.Decimal, currency models.Currency) (bool, error)
	AppendActivity(bountyID *uint, eventType string, eventData any) error
	SaveInstallation(installationID int64, login, accountType string) error
	MarkUninstalled(installationID int64) error
}

// Typed claim failures, mapped to HTTP codes by the claim handler.
var (
	ErrBountyNotFound       = errors.New("bounty not found")
	ErrWrongContributor     = errors.New("bounty belongs to a different contributor")
	ErrNotReadyToClaim      = errors.New("bounty is not ready to claim")
	ErrAlreadyClaimed       = errors.New("bounty already claimed")
	ErrInvalidWalletAddress = errors.New("invalid Solana wallet address")
)

// BountyService owns the bounty lifecycle state machine. It holds no state of
// its own: every guard is re-validated against the store immediately before
// each write, so it is safe to call from webhooks, the deposit monitor, and
// claim requests concurrently.
type BountyService struct {
	Store    LedgerStore
	Wallets  WalletProvisioner
	Oracle   BalanceOracle
	Notifier Notifier

	ClaimBaseURL  string
	RefundAddress string
}

func NewBountyService(store LedgerStore, wallets WalletProvisioner, oracle BalanceOracle, notifier Notifier, claimBaseURL, refundAddress string) *BountyService {
	return &BountyService{
		Store:         store,
		Wallets:       wallets,
		Oracle:        oracle,
		Notifier:      notifier,
		ClaimBaseURL:  claimBaseURL,
		RefundAddress: refundAddress,
	}
}

// LabeledIssue is the engine's view of an issues.labeled delivery.
type LabeledIssue struct {
	IssueID        int64
	Owner          string
	Repo           string
	IssueNumber    int
	Labels         []string
	InstallationID int64
}

// UnlabeledIssue is the engine's view of an issues.unlabeled delivery.
type UnlabeledIssue struct {
	Owner          string
	Repo           string
	IssueNumber    int
	InstallationID int64
}

// ClosedIssue is the engine's view of an issues.closed delivery.
type ClosedIssue struct {
	Owner          string
	Repo           string
	IssueNumber    int
	InstallationID int64
}

// MergedPullRequest is the engine's view of a merged pull_request.closed delivery.
type MergedPullRequest struct {
	Owner          string
	Repo           string
	Number         int
	Title          string
	Body           string
	AuthorLogin    string
	InstallationID int64
}

// OpenedPullRequest is the engine's view of a pull_request.opened delivery.
type OpenedPullRequest struct {
	Owner          string
	Repo           string
	Number         int
	Title          string
	Body           string
	InstallationID int64
}

// --- Installations ---

func (s *BountyService) ProcessInstallation(ctx context.Context, installationID int64, login, accountType string) error {
	log.Printf("📦 GitHub App installed by %s", login)
	if err := s.Store.SaveInstallation(installationID, login, accountType); err != nil {
		return fmt.Errorf("failed to record installation %d: %w", installationID, err)
	}
	s.logActivity(nil, "app_installed", map[string]any{"installation_id": installationID, "account": login})
	return nil
}

func (s *BountyService) ProcessUninstallation(ctx context.Context, installationID int64, login string) error {
	log.Printf("❌ GitHub App uninstalled by %s", login)
	if err := s.Store.MarkUninstalled(installationID); err != nil {
		return fmt.Errorf("failed to record uninstall %d: %w", installationID, err)
	}
	s.logActivity(nil, "app_uninstalled", map[string]any{"installation_id": installationID, "account": login})
	return nil
}

// --- Creation ---

// ProcessLabeledIssue is the entry transition: first recognized bounty label on
// an issue creates a pending_deposit bounty with a freshly provisioned escrow
// wallet. Validation problems post feedback and create nothing. Duplicate
// deliveries and label edits resolve against the existing bounty.
func (s *BountyService) ProcessLabeledIssue(ctx context.Context, evt LabeledIssue) (*models.Bounty, error) {
	parsed, parseErr := utils.FindBountyLabel(evt.Labels)
	if parseErr != nil {
		log.Printf("❌ Rejected bounty label set on %s/%s#%d: %v", evt.Owner, evt.Repo, evt.IssueNumber, parseErr)
		s.logActivity(nil, "label_rejected", map[string]any{
			"owner": evt.Owner, "repo": evt.Repo, "issue": evt.IssueNumber, "reason": parseErr.Error(),
		})
		s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.IssueNumber, labelErrorComment(parseErr))
		return nil, nil
	}
	if parsed == nil {
		return nil, nil
	}

	existing, err := s.Store.FindBountyByIssue(evt.Owner, evt.Repo, evt.IssueNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up bounty for %s/%s#%d: %w", evt.Owner, evt.Repo, evt.IssueNumber, err)
	}
	if existing != nil {
		return s.reconcileExisting(ctx, evt, existing, parsed)
	}

	// Wallet first: a provisioning failure must fail the whole operation so we
	// never persist a wallet-less bounty.
	wallet, err := s.Wallets.CreateWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to provision escrow wallet: %w", err)
	}
	log.Printf("📬 Escrow wallet created: %s", wallet.Address)

	bounty := &models.Bounty{
		GithubIssueID:        evt.IssueID,
		GithubRepoOwner:      evt.Owner,
		GithubRepoName:       evt.Repo,
		GithubIssueNumber:    evt.IssueNumber,
		BountyAmount:         parsed.Amount,
		Currency:             parsed.Currency,
		EscrowWalletAddress:  wallet.Address,
		EscrowWalletID:       wallet.ProviderID,
		GithubInstallationID: evt.InstallationID,
		Status:               models.StatusPendingDeposit,
	}

	if err := s.Store.CreateBounty(bounty); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent delivery won the insert race; the uniqueness
			// constraint is the final race-breaker and this is a no-op.
			log.Printf("Bounty already exists for issue #%d", evt.IssueNumber)
			return s.Store.FindBountyByIssue(evt.Owner, evt.Repo, evt.IssueNumber)
		}
		return nil, fmt.Errorf("failed to persist bounty: %w", err)
	}

	s.logActivity(&bounty.ID, "bounty_created", map[string]any{
		"amount": parsed.Amount, "currency": parsed.Currency, "wallet_address": wallet.Address,
	})

	s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.IssueNumber,
		depositRequestComment(parsed.Amount, parsed.Currency, wallet.Address))
	s.logActivity(&bounty.ID, "deposit_requested", map[string]any{"installation_id": evt.InstallationID})

	log.Printf("✅ Bounty %d created for issue #%d (%s %s)", bounty.ID, evt.IssueNumber, parsed.Amount, parsed.Currency)
	return bounty, nil
}

// reconcileExisting handles a labeled event for an issue that already has a
// bounty: a pre-funding label edit updates amount/currency in place, anything
// else is an idempotent no-op returning the existing row.
func (s *BountyService) reconcileExisting(ctx context.Context, evt LabeledIssue, existing *models.Bounty, parsed *utils.BountyLabel) (*models.Bounty, error) {
	changed := !existing.BountyAmount.Equal(parsed.Amount) || existing.Currency != parsed.Currency
	if existing.Status != models.StatusPendingDeposit || !changed {
		log.Printf("Bounty already exists for issue #%d", evt.IssueNumber)
		return existing, nil
	}

	ok, err := s.Store.UpdatePendingBounty(existing.ID, parsed.Amount, parsed.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to update pending bounty %d: %w", existing.ID, err)
	}
	if !ok {
		// Funded (or cancelled) between read and write; terms are immutable now.
		return s.Store.FindBountyByID(existing.ID)
	}

	s.logActivity(&existing.ID, "bounty_updated", map[string]any{
		"previous_amount": existing.BountyAmount, "previous_currency": existing.Currency,
		"amount": parsed.Amount, "currency": parsed.Currency,
	})
	s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.IssueNumber,
		bountyUpdatedComment(parsed.Amount, parsed.Currency, existing.EscrowWalletAddress))

	log.Printf("✏️ Bounty %d updated to %s %s", existing.ID, parsed.Amount, parsed.Currency)
	return s.Store.FindBountyByID(existing.ID)
}

// --- Deposits ---

// DepositCheck is the outcome of comparing escrow balances to the bounty terms.
type DepositCheck struct {
	Satisfied   bool
	Reason      string
	USDCBalance decimal.Decimal
	SOLBalance  decimal.Decimal
}

// WrongAssetBalance reports whether the escrow wallet holds funds in a currency
// other than the bounty's, the user-actionable "wrong asset" condition.
func (c DepositCheck) WrongAssetBalance(required models.Currency) bool {
	if c.Satisfied {
		return false
	}
	if required == models.CurrencyUSDC {
		return c.SOLBalance.IsPositive()
	}
	return c.USDCBalance.IsPositive()
}

// VerifyDeposit queries the oracle for both supported currencies and applies
// the deposit guard: only a balance in the bounty's own currency that covers
// the amount satisfies it. A wrong-asset balance never does.
func (s *BountyService) VerifyDeposit(ctx context.Context, b *models.Bounty) (DepositCheck, error) {
	usdc, err := s.Oracle.GetBalance(ctx, b.EscrowWalletAddress, models.CurrencyUSDC)
	if err != nil {
		return DepositCheck{}, fmt.Errorf("failed to read USDC balance of %s: %w", b.EscrowWalletAddress, err)
	}
	sol, err := s.Oracle.GetBalance(ctx, b.EscrowWalletAddress, models.CurrencySOL)
	if err != nil {
		return DepositCheck{}, fmt.Errorf("failed to read SOL balance of %s: %w", b.EscrowWalletAddress, err)
	}

	check := DepositCheck{USDCBalance: usdc, SOLBalance: sol}

	required := b.BountyAmount
	balance := usdc
	if b.Currency == models.CurrencySOL {
		balance = sol
	}

	switch {
	case balance.GreaterThanOrEqual(required):
		check.Satisfied = true
		if balance.GreaterThan(required) {
			s.logActivity(&b.ID, "deposit_overfunded", map[string]any{
				"required": required, "balance": balance, "currency": b.Currency,
			})
		}
	case check.WrongAssetBalance(b.Currency):
		check.Reason = fmt.Sprintf("the wallet holds funds, but not %s %s", required, b.Currency)
	default:
		check.Reason = fmt.Sprintf("balance %s %s is below the required %s %s", balance, b.Currency, required, b.Currency)
	}

	return check, nil
}

// ConfirmDeposit transitions pending_deposit -> deposit_confirmed. Safe under
// concurrent delivery: only the caller whose guarded update lands posts the
// confirmation comment.
func (s *BountyService) ConfirmDeposit(ctx context.Context, bountyID uint) (bool, error) {
	b, err := s.Store.FindBountyByID(bountyID)
	if err != nil {
		return false, err
	}
	if b == nil || b.Status != models.StatusPendingDeposit {
		return false, nil
	}

	ok, err := s.Store.ConfirmDeposit(b.ID)
	if err != nil {
		return false, fmt.Errorf("failed to confirm deposit for bounty %d: %w", b.ID, err)
	}
	if !ok {
		return false, nil
	}

	log.Printf("✅ Deposit confirmed for bounty %d (issue #%d)", b.ID, b.GithubIssueNumber)
	s.logActivity(&b.ID, "status_changed", map[string]any{"status": models.StatusDepositConfirmed})
	s.notifyIssue(ctx, b.GithubInstallationID, b.GithubRepoOwner, b.GithubRepoName, b.GithubIssueNumber,
		depositConfirmedComment(b.BountyAmount, b.Currency))
	return true, nil
}

// ReportDepositMismatch posts the wrong-asset diagnostic without touching
// state, so a depositor who sent the wrong token isn't left waiting forever.
func (s *BountyService) ReportDepositMismatch(ctx context.Context, b *models.Bounty, check DepositCheck) {
	log.Printf("❌ Deposit validation failed for bounty %d: %s", b.ID, check.Reason)
	s.logActivity(&b.ID, "deposit_mismatch", map[string]any{
		"reason": check.Reason, "usdc_balance": check.USDCBalance, "sol_balance": check.SOLBalance,
	})
	s.notifyIssue(ctx, b.GithubInstallationID, b.GithubRepoOwner, b.GithubRepoName, b.GithubIssueNumber,
		depositMismatchComment(b, check.Reason, check.USDCBalance, check.SOLBalance))
}

// PendingDeposits lists the bounties the deposit monitor must poll.
func (s *BountyService) PendingDeposits() ([]models.Bounty, error) {
	return s.Store.ListBountiesByStatus(models.StatusPendingDeposit)
}

// --- Merge ---

// ProcessMergedPullRequest moves every deposit_confirmed bounty whose issue the
// PR references to ready_to_claim, recording the PR author as the contributor.
func (s *BountyService) ProcessMergedPullRequest(ctx context.Context, evt MergedPullRequest) error {
	refs := utils.ExtractIssueReferences(evt.Title, evt.Body)
	if len(refs) == 0 {
		log.Printf("ℹ️  No issue references found in PR #%d", evt.Number)
		return nil
	}

	for _, issueNumber := range refs {
		b, err := s.Store.FindBountyByIssue(evt.Owner, evt.Repo, issueNumber)
		if err != nil {
			return fmt.Errorf("failed to look up bounty for issue #%d: %w", issueNumber, err)
		}
		if b == nil {
			continue
		}
		if b.Status != models.StatusDepositConfirmed {
			log.Printf("⚠️  Bounty for issue #%d not in deposit_confirmed status (is %s)", issueNumber, b.Status)
			continue
		}

		ok, err := s.Store.MarkReadyToClaim(b.ID, evt.AuthorLogin, evt.Number)
		if err != nil {
			return fmt.Errorf("failed to mark bounty %d ready to claim: %w", b.ID, err)
		}
		if !ok {
			continue
		}

		log.Printf("🎉 Bounty %d ready to claim by @%s (PR #%d)", b.ID, evt.AuthorLogin, evt.Number)
		s.logActivity(&b.ID, "status_changed", map[string]any{
			"status": models.StatusReadyToClaim, "contributor": evt.AuthorLogin, "pull_request": evt.Number,
		})

		claimURL := fmt.Sprintf("%s/claim/%d", s.ClaimBaseURL, b.ID)
		s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, issueNumber,
			claimNotificationComment(evt.AuthorLogin, b.BountyAmount, b.Currency, claimURL))
		s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.Number,
			pullRequestMergedComment(evt.AuthorLogin, issueNumber, b.BountyAmount, b.Currency, claimURL))
	}

	return nil
}

// ProcessOpenedPullRequest posts a heads-up on PRs that reference an actively
// funded bounty issue. Observation only, never a transition.
func (s *BountyService) ProcessOpenedPullRequest(ctx context.Context, evt OpenedPullRequest) error {
	for _, issueNumber := range utils.ExtractIssueReferences(evt.Title, evt.Body) {
		b, err := s.Store.FindBountyByIssue(evt.Owner, evt.Repo, issueNumber)
		if err != nil {
			return fmt.Errorf("failed to look up bounty for issue #%d: %w", issueNumber, err)
		}
		if b == nil || b.Status != models.StatusDepositConfirmed {
			continue
		}
		s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.Number,
			pullRequestOpenedComment(issueNumber, b.BountyAmount, b.Currency))
	}
	return nil
}

// --- Claim ---

// ClaimResult is what a successful claim returns to the HTTP surface.
type ClaimResult struct {
	TransactionSignature string
	Amount               decimal.Decimal
	Currency             models.Currency
}

// ClaimBounty pays out a ready_to_claim bounty to its recorded contributor.
// The claim reservation (a guarded update on claim_wallet_address) guarantees
// at most one transfer; a failed transfer releases the reservation and leaves
// the bounty ready_to_claim so the claim can be retried.
func (s *BountyService) ClaimBounty(ctx context.Context, bountyID uint, requester, destination string) (*ClaimResult, error) {
	b, err := s.Store.FindBountyByID(bountyID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBountyNotFound
	}
	if b.Status == models.StatusClaimed {
		return nil, ErrAlreadyClaimed
	}
	if b.Status != models.StatusReadyToClaim {
		return nil, fmt.Errorf("%w: current status is %s", ErrNotReadyToClaim, b.Status)
	}
	if b.ContributorGithubUsername != requester {
		return nil, fmt.Errorf("%w: @%s", ErrWrongContributor, b.ContributorGithubUsername)
	}
	if _, err := solana.PublicKeyFromBase58(destination); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWalletAddress, destination)
	}

	ok, err := s.Store.ReserveClaim(b.ID, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve claim for bounty %d: %w", b.ID, err)
	}
	if !ok {
		// Lost the race: another claim reserved or completed first.
		return nil, ErrAlreadyClaimed
	}

	log.Printf("💰 Processing claim for bounty %d by @%s", b.ID, requester)
	log.Printf("   Transferring %s %s to %s", b.BountyAmount, b.Currency, destination)

	escrow := EscrowWallet{ProviderID: b.EscrowWalletID, Address: b.EscrowWalletAddress}
	signature, err := s.Wallets.Transfer(ctx, escrow, destination, b.BountyAmount, b.Currency)
	if err != nil {
		if releaseErr := s.Store.ReleaseClaim(b.ID); releaseErr != nil {
			log.Printf("❌ Failed to release claim reservation for bounty %d: %v", b.ID, releaseErr)
		}
		s.logActivity(&b.ID, "claim_transfer_failed", map[string]any{"contributor": requester, "error": err.Error()})
		return nil, fmt.Errorf("failed to transfer funds: %w", err)
	}

	if ok, err := s.Store.FinalizeClaim(b.ID, signature); err != nil || !ok {
		// The transfer is on chain; the reservation we hold makes a competing
		// finalize impossible, so a miss here is a store failure worth surfacing.
		return nil, fmt.Errorf("transfer %s sent but failed to finalize claim for bounty %d: %v", signature, b.ID, err)
	}

	log.Printf("✅ Transfer successful: %s", signature)
	s.logActivity(&b.ID, "bounty_claimed", map[string]any{
		"contributor": requester, "wallet": destination, "transaction_signature": signature,
	})
	s.notifyIssue(ctx, b.GithubInstallationID, b.GithubRepoOwner, b.GithubRepoName, b.GithubIssueNumber,
		claimConfirmedComment(requester, b.BountyAmount, b.Currency, destination, signature))

	return &ClaimResult{TransactionSignature: signature, Amount: b.BountyAmount, Currency: b.Currency}, nil
}

// --- Cancellation ---

// CancelBounty handles a removed bounty label: any non-terminal bounty becomes
// cancelled, and escrowed funds (deposit_confirmed or later) are refunded to
// the configured refund destination with exactly one transfer attempt.
func (s *BountyService) CancelBounty(ctx context.Context, evt UnlabeledIssue) error {
	b, err := s.Store.FindBountyByIssue(evt.Owner, evt.Repo, evt.IssueNumber)
	if err != nil {
		return fmt.Errorf("failed to look up bounty for %s/%s#%d: %w", evt.Owner, evt.Repo, evt.IssueNumber, err)
	}
	if b == nil || b.IsTerminal() {
		return nil
	}

	from := b.Status
	ok, err := s.Store.CancelFrom(b.ID, from)
	if err != nil {
		return fmt.Errorf("failed to cancel bounty %d: %w", b.ID, err)
	}
	if !ok {
		// Status moved under us (e.g. claimed concurrently); nothing to do.
		return nil
	}

	log.Printf("🗑️  Bounty %d cancelled for issue #%d (was %s)", b.ID, evt.IssueNumber, from)
	s.logActivity(&b.ID, "bounty_cancelled", map[string]any{"previous_status": from})

	var refundSignature string
	var refundErr error
	if from == models.StatusDepositConfirmed || from == models.StatusReadyToClaim {
		refundSignature, refundErr = s.refundEscrow(ctx, b)
	}

	s.notifyIssue(ctx, b.GithubInstallationID, evt.Owner, evt.Repo, evt.IssueNumber,
		cancellationComment(b, refundSignature, refundErr))
	return nil
}

func (s *BountyService) refundEscrow(ctx context.Context, b *models.Bounty) (string, error) {
	if s.RefundAddress == "" {
		err := errors.New("no refund destination configured")
		log.Printf("❌ Cannot refund bounty %d: %v", b.ID, err)
		s.logActivity(&b.ID, "refund_failed", map[string]any{"error": err.Error()})
		return "", err
	}

	escrow := EscrowWallet{ProviderID: b.EscrowWalletID, Address: b.EscrowWalletAddress}
	signature, err := s.Wallets.Transfer(ctx, escrow, s.RefundAddress, b.BountyAmount, b.Currency)
	if err != nil {
		log.Printf("❌ Refund transfer failed for bounty %d: %v", b.ID, err)
		s.logActivity(&b.ID, "refund_failed", map[string]any{"error": err.Error()})
		return "", err
	}

	if err := s.Store.RecordRefund(b.ID, signature); err != nil {
		log.Printf("❌ Refund %s sent but not recorded for bounty %d: %v", signature, b.ID, err)
	}
	log.Printf("↩️  Refunded bounty %d: %s", b.ID, signature)
	s.logActivity(&b.ID, "bounty_refunded", map[string]any{"transaction_signature": signature, "destination": s.RefundAddress})
	return signature, nil
}

// --- Issue close ---

// HandleIssueClosed is an observation, not a state trigger: it only selects
// which comment to post. Closed while ready_to_claim is deliberately silent so
// the claim-link comment stays the latest word on the thread.
func (s *BountyService) HandleIssueClosed(ctx context.Context, evt ClosedIssue) error {
	b, err := s.Store.FindBountyByIssue(evt.Owner, evt.Repo, evt.IssueNumber)
	if err != nil {
		return fmt.Errorf("failed to look up bounty for %s/%s#%d: %w", evt.Owner, evt.Repo, evt.IssueNumber, err)
	}
	if b == nil {
		return nil
	}
	if b.Status == models.StatusReadyToClaim {
		return nil
	}

	log.Printf("🔒 Issue #%d closed with bounty %d in status %s", evt.IssueNumber, b.ID, b.Status)
	s.notifyIssue(ctx, evt.InstallationID, evt.Owner, evt.Repo, evt.IssueNumber, issueClosedComment(b))
	return nil
}

// --- Helpers ---

// notifyIssue posts a comment best-effort. Notification failures never affect
// a transition; the stored status is the source of truth.
func (s *BountyService) notifyIssue(ctx context.Context, installationID int64, owner, repo string, issueNumber int, body string) {
	if err := s.Notifier.PostIssueComment(ctx, installationID, owner, repo, issueNumber, body); err != nil {
		log.Printf("❌ Error posting comment on %s/%s#%d: %v", owner, repo, issueNumber, err)
		return
	}
	log.Printf("💬 Posted comment on %s/%s#%d", owner, repo, issueNumber)
}

func (s *BountyService) logActivity(bountyID *uint, eventType string, data map[string]any) {
	if err := s.Store.AppendActivity(bountyID, eventType, data); err != nil {
		log.Printf("❌ Failed to append activity %q: %v", eventType, err)
	}
}
