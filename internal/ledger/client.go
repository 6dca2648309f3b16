// Package ledger adapts the solana-go RPC and pubsub clients to the
// operations the screener needs.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/domain"
)

// Every call is a single attempt; retries are left to the caller.
type Client struct {
	rpc        *rpc.Client
	wsURL      string
	commitment rpc.CommitmentType
	logger     *zap.Logger
}

func NewClient(httpURL, wsURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:        rpc.New(httpURL),
		wsURL:      wsURL,
		commitment: rpc.CommitmentConfirmed,
		logger:     logger.Named("ledger"),
	}
}

// SubscribeLogs opens a pubsub connection and subscribes to logs mentioning account.
// The connection is owned by the returned subscription.
func (c *Client) SubscribeLogs(ctx context.Context, account solana.PublicKey) (domain.LogSubscription, error) {
	conn, err := ws.Connect(ctx, c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.wsURL, err)
	}

	sub, err := conn.LogsSubscribeMentions(account, c.commitment)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to logs of %s: %w", account, err)
	}

	c.logger.Info("Subscribed to logs",
		zap.Stringer("account", account),
		zap.String("commitment", string(c.commitment)))

	return &logSubscription{
		account: account,
		sub:     sub,
		conn:    conn,
	}, nil
}

func (c *Client) GetParsedTransaction(ctx context.Context, signature solana.Signature) (*domain.ParsedTransaction, error) {
	maxVersion := uint64(0)
	result, err := c.rpc.GetParsedTransaction(ctx, signature, &rpc.GetParsedTransactionOpts{
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", signature, err)
	}
	if result == nil {
		return nil, nil
	}

	return convertParsedTransaction(result), nil
}

// AccountExists reports whether the account holds any state at the configured commitment.
func (c *Client) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info %s: %w", address, err)
	}

	return result != nil && result.Value != nil, nil
}

// GetTokenBalance returns the UI amount of a token account. A nil amount
// means the node reported no UI amount.
func (c *Client) GetTokenBalance(ctx context.Context, address solana.PublicKey) (*float64, error) {
	result, err := c.rpc.GetTokenAccountBalance(ctx, address, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance %s: %w", address, err)
	}
	if result == nil || result.Value == nil {
		return nil, nil
	}

	return result.Value.UiAmount, nil
}

// FindProgramAccounts lists the program accounts whose data is exactly dataSize bytes.
func (c *Client) FindProgramAccounts(ctx context.Context, programID solana.PublicKey, dataSize uint64) ([]solana.PublicKey, error) {
	result, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Commitment: c.commitment,
		Filters: []rpc.RPCFilter{
			{DataSize: dataSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts of %s: %w", programID, err)
	}

	accounts := make([]solana.PublicKey, 0, len(result))
	for _, keyed := range result {
		if keyed == nil {
			continue
		}
		accounts = append(accounts, keyed.Pubkey)
	}

	return accounts, nil
}

func convertParsedTransaction(result *rpc.GetParsedTransactionResult) *domain.ParsedTransaction {
	tx := &domain.ParsedTransaction{}

	if result.Transaction != nil {
		for _, key := range result.Transaction.Message.AccountKeys {
			if key.Signer {
				tx.SignerAccounts = append(tx.SignerAccounts, key.PublicKey)
			}
		}
	}

	if result.Meta != nil {
		tx.Meta = &domain.TransactionMeta{
			Err:               result.Meta.Err,
			PostTokenBalances: convertTokenBalances(result.Meta.PostTokenBalances),
		}
	}

	return tx
}

func convertTokenBalances(balances []rpc.TokenBalance) []domain.TokenBalance {
	out := make([]domain.TokenBalance, 0, len(balances))
	for _, b := range balances {
		balance := domain.TokenBalance{
			Mint: b.Mint,
		}
		if b.Owner != nil {
			balance.Owner = *b.Owner
		}
		if b.UiTokenAmount != nil {
			balance.Decimals = b.UiTokenAmount.Decimals
			balance.UIAmount = b.UiTokenAmount.UiAmount
		}
		out = append(out, balance)
	}
	return out
}
