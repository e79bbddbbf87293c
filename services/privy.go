// services/privy.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"gitwork/models"
	"gitwork/utils"
)

const (
	privyBaseURL = "https://api.privy.io"
	// CAIP-2 id of Solana devnet; Privy needs it to route sign-and-send.
	defaultSolanaCAIP2 = "solana:EtWTRABZaYq6iMfeYKouRu166VU2xqa1"
)

// PrivyProvisioner implements WalletProvisioner against the Privy custody API.
// Privy holds the keys; this client only decides when to create wallets and
// which transactions to ask it to sign and broadcast.
type PrivyProvisioner struct {
	appID      string
	appSecret  string
	baseURL    string
	caip2      string
	httpClient *http.Client

	rpcClient *rpc.Client
	usdcMint  solana.PublicKey
}

// NewPrivyProvisioner fails when PRIVY_APP_ID / PRIVY_APP_SECRET are missing:
// a custody provider that silently can't move funds must never look healthy.
func NewPrivyProvisioner() (*PrivyProvisioner, error) {
	appID := os.Getenv("PRIVY_APP_ID")
	appSecret := os.Getenv("PRIVY_APP_SECRET")
	if appID == "" || appSecret == "" {
		return nil, fmt.Errorf("Privy credentials not configured (PRIVY_APP_ID, PRIVY_APP_SECRET)")
	}

	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = defaultSolanaRPCURL
	}
	mintStr := os.Getenv("USDC_MINT_ADDRESS")
	if mintStr == "" {
		mintStr = defaultUSDCMint
	}
	caip2 := os.Getenv("SOLANA_CAIP2")
	if caip2 == "" {
		caip2 = defaultSolanaCAIP2
	}

	log.Println("✅ Privy client initialized")
	return &PrivyProvisioner{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    privyBaseURL,
		caip2:      caip2,
		httpClient: utils.HTTPClient,
		rpcClient:  rpc.New(rpcURL),
		usdcMint:   solana.MustPublicKeyFromBase58(mintStr),
	}, nil
}

type privyWalletResponse struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	ChainType string `json:"chain_type"`
}

// CreateWallet creates a server-controlled Solana wallet (no owner specified
// means the server controls it).
func (p *PrivyProvisioner) CreateWallet(ctx context.Context) (EscrowWallet, error) {
	var wallet privyWalletResponse
	err := p.doRequest(ctx, http.MethodPost, "/v1/wallets",
		map[string]any{"chain_type": "solana"}, &wallet)
	if err != nil {
		return EscrowWallet{}, fmt.Errorf("failed to create Privy wallet: %w", err)
	}

	log.Printf("🔑 Privy Solana wallet created: %s (id %s)", wallet.Address, wallet.ID)
	return EscrowWallet{ProviderID: wallet.ID, Address: wallet.Address}, nil
}

type privyRPCResponse struct {
	Method string `json:"method"`
	Data   struct {
		Hash string `json:"hash"`
	} `json:"data"`
}

// Transfer builds the unsigned transaction locally and asks Privy to sign and
// broadcast it from the escrow wallet.
func (p *PrivyProvisioner) Transfer(ctx context.Context, from EscrowWallet, toAddress string, amount decimal.Decimal, currency models.Currency) (string, error) {
	if from.ProviderID == "" {
		return "", fmt.Errorf("escrow wallet %s has no Privy wallet id", from.Address)
	}

	txBase64, err := p.buildTransaction(ctx, from.Address, toAddress, amount, currency)
	if err != nil {
		return "", err
	}

	var out privyRPCResponse
	err = p.doRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/wallets/%s/rpc", from.ProviderID),
		map[string]any{
			"method": "signAndSendTransaction",
			"caip2":  p.caip2,
			"params": map[string]any{
				"transaction": txBase64,
				"encoding":    "base64",
			},
		}, &out)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "insufficient") {
			return "", fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
		}
		return "", fmt.Errorf("failed to sign and send transfer: %w", err)
	}
	if out.Data.Hash == "" {
		return "", fmt.Errorf("Privy returned no transaction hash")
	}
	return out.Data.Hash, nil
}

func (p *PrivyProvisioner) buildTransaction(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal, currency models.Currency) (string, error) {
	from, err := solana.PublicKeyFromBase58(fromAddress)
	if err != nil {
		return "", fmt.Errorf("invalid source address %q: %w", fromAddress, err)
	}
	to, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", fmt.Errorf("invalid destination address %q: %w", toAddress, err)
	}

	var instructions []solana.Instruction
	switch currency {
	case models.CurrencySOL:
		lamports := amount.Shift(lamportsPerSOLExp).IntPart()
		instructions = append(instructions,
			system.NewTransferInstruction(uint64(lamports), from, to).Build())

	case models.CurrencyUSDC:
		sourceATA, _, err := solana.FindAssociatedTokenAddress(from, p.usdcMint)
		if err != nil {
			return "", fmt.Errorf("failed to derive source token account: %w", err)
		}
		destATA, _, err := solana.FindAssociatedTokenAddress(to, p.usdcMint)
		if err != nil {
			return "", fmt.Errorf("failed to derive destination token account: %w", err)
		}

		if _, err := p.rpcClient.GetAccountInfo(ctx, destATA); err != nil {
			// Recipient has no USDC account yet; escrow pays to create it.
			instructions = append(instructions,
				ata.NewCreateInstruction(from, to, p.usdcMint).Build())
		}

		raw := amount.Shift(usdcDecimals).IntPart()
		instructions = append(instructions,
			token.NewTransferCheckedInstruction(
				uint64(raw), usdcDecimals, sourceATA, p.usdcMint, destATA, from, nil,
			).Build())

	default:
		return "", fmt.Errorf("unsupported currency %q", currency)
	}

	recent, err := p.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to fetch recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(from))
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx.ToBase64()
}

func (p *PrivyProvisioner) doRequest(ctx context.Context, method, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.appID, p.appSecret)
	req.Header.Set("privy-app-id", p.appID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Privy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("Privy returned status %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode Privy response: %w", err)
		}
	}
	return nil
}
