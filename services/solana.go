// services/solana.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"gitwork/models"
)

const (
	defaultSolanaRPCURL = "https://api.devnet.solana.com"
	// Devnet USDC mint.
	defaultUSDCMint = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"

	lamportsPerSOLExp = 9
	usdcDecimals      = 6
)

// SolanaOracle implements BalanceOracle against Solana JSON-RPC: native
// lamports for SOL, the associated token account for USDC.
type SolanaOracle struct {
	client   *rpc.Client
	usdcMint solana.PublicKey
}

func NewSolanaOracle() *SolanaOracle {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = defaultSolanaRPCURL
	}
	mintStr := os.Getenv("USDC_MINT_ADDRESS")
	if mintStr == "" {
		mintStr = defaultUSDCMint
	}
	log.Printf("✅ Solana RPC: %s", rpcURL)
	return &SolanaOracle{
		client:   rpc.New(rpcURL),
		usdcMint: solana.MustPublicKeyFromBase58(mintStr),
	}
}

func (o *SolanaOracle) GetBalance(ctx context.Context, address string, currency models.Currency) (decimal.Decimal, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid wallet address %q: %w", address, err)
	}

	switch currency {
	case models.CurrencySOL:
		return o.solBalance(ctx, pubkey)
	case models.CurrencyUSDC:
		return o.usdcBalance(ctx, pubkey)
	default:
		return decimal.Zero, fmt.Errorf("unsupported currency %q", currency)
	}
}

func (o *SolanaOracle) solBalance(ctx context.Context, pubkey solana.PublicKey) (decimal.Decimal, error) {
	out, err := o.client.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return decimal.New(int64(out.Value), -lamportsPerSOLExp), nil
}

func (o *SolanaOracle) usdcBalance(ctx context.Context, pubkey solana.PublicKey) (decimal.Decimal, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(pubkey, o.usdcMint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to derive token account: %w", err)
	}

	out, err := o.client.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		// No token account yet means no deposit yet.
		if errors.Is(err, rpc.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get USDC balance: %w", err)
	}

	raw, err := decimal.NewFromString(out.Value.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable token amount %q: %w", out.Value.Amount, err)
	}
	return raw.Shift(-int32(out.Value.Decimals)), nil
}
