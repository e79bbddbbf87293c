// services/wallet_sim.go
package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gitwork/models"
)

// SimulatedProvisioner is the WalletProvisioner used when WALLET_PROVIDER is
// set to "simulator": real keypair addresses, fabricated signatures, no chain.
// It is an explicit startup choice so a simulated payout can never be mistaken
// for a live one.
type SimulatedProvisioner struct {
	mu      sync.Mutex
	wallets map[string]string // address -> provider id
}

func NewSimulatedProvisioner() *SimulatedProvisioner {
	log.Println("⚠️  Wallet provider is SIMULATED, no funds will move on chain")
	return &SimulatedProvisioner{wallets: make(map[string]string)}
}

func (p *SimulatedProvisioner) CreateWallet(ctx context.Context) (EscrowWallet, error) {
	wallet := solana.NewWallet()
	id := "sim-" + uuid.NewString()

	p.mu.Lock()
	p.wallets[wallet.PublicKey().String()] = id
	p.mu.Unlock()

	return EscrowWallet{ProviderID: id, Address: wallet.PublicKey().String()}, nil
}

func (p *SimulatedProvisioner) Transfer(ctx context.Context, from EscrowWallet, toAddress string, amount decimal.Decimal, currency models.Currency) (string, error) {
	if _, err := solana.PublicKeyFromBase58(toAddress); err != nil {
		return "", fmt.Errorf("invalid destination address %q: %w", toAddress, err)
	}

	var raw [64]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("failed to fabricate signature: %w", err)
	}
	signature := solana.SignatureFromBytes(raw[:]).String()

	log.Printf("⚠️  SIMULATED transfer of %s %s from %s to %s: %s", amount, currency, from.Address, toAddress, signature)
	return signature, nil
}
