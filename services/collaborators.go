// services/collaborators.go
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"gitwork/models"
)

// ErrInsufficientFunds is returned by a WalletProvisioner when the escrow
// wallet cannot cover the requested transfer. It is distinct from transport or
// signing failures so callers can word feedback accordingly.
var ErrInsufficientFunds = errors.New("insufficient escrow funds")

// EscrowWallet identifies a custodial wallet: the on-chain address plus the
// provider-side id needed to authorize transfers from it.
type EscrowWallet struct {
	ProviderID string
	Address    string
}

// BalanceOracle reads on-chain balances. Consumed by the engine and the
// deposit monitor, implemented against Solana RPC.
type BalanceOracle interface {
	GetBalance(ctx context.Context, address string, currency models.Currency) (decimal.Decimal, error)
}

// WalletProvisioner creates custodial wallets and executes transfers from
// them. Whether the concrete implementation is the live custody provider or a
// simulator is an explicit startup choice, never a runtime fallback.
type WalletProvisioner interface {
	CreateWallet(ctx context.Context) (EscrowWallet, error)
	Transfer(ctx context.Context, from EscrowWallet, toAddress string, amount decimal.Decimal, currency models.Currency) (string, error)
}

// Notifier posts comments back to GitHub. Best-effort at every call site: the
// ledger, not the comment thread, is the source of truth.
type Notifier interface {
	PostIssueComment(ctx context.Context, installationID int64, owner, repo string, issueNumber int, body string) error
}
