package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// LogEvent is a single logs notification pushed by the ledger subscription.
type LogEvent struct {
	Account   solana.PublicKey
	Signature solana.Signature
	Logs      []string
	Err       any
	Slot      uint64
}

type ParsedTransaction struct {
	SignerAccounts []solana.PublicKey
	Meta           *TransactionMeta
}

type TransactionMeta struct {
	Err               any
	PostTokenBalances []TokenBalance
}

type TokenBalance struct {
	Owner    solana.PublicKey `json:"owner"`
	Mint     solana.PublicKey `json:"mint"`
	Decimals uint8            `json:"decimals"`
	UIAmount *float64         `json:"ui_amount,omitempty"`
}

// Amount returns the UI amount, treating an absent value as zero.
func (b TokenBalance) Amount() float64 {
	if b.UIAmount == nil {
		return 0
	}
	return *b.UIAmount
}

// LogSubscription is a live log stream. Recv blocks until the next event,
// the context is cancelled or the stream is torn down.
type LogSubscription interface {
	Recv(ctx context.Context) (*LogEvent, error)
	Unsubscribe()
}
