package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// TokenPairEvent is a pool creation detected from a fee-account log event.
type TokenPairEvent struct {
	Creator       solana.PublicKey `json:"creator"`
	BaseMint      solana.PublicKey `json:"base_mint"`
	BaseDecimals  uint8            `json:"base_decimals"`
	BaseLpAmount  float64          `json:"base_lp_amount"`
	QuoteMint     solana.PublicKey `json:"quote_mint"`
	QuoteDecimals uint8            `json:"quote_decimals"`
	QuoteLpAmount float64          `json:"quote_lp_amount"`
	Signature     solana.Signature `json:"signature"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Usable reports whether both sides of the pair were found.
func (e TokenPairEvent) Usable() bool {
	return !e.BaseMint.IsZero() && !e.QuoteMint.IsZero()
}

type DerivedAddresses struct {
	PoolState solana.PublicKey `json:"pool_state"`
	Vault0    solana.PublicKey `json:"vault0"`
	Vault1    solana.PublicKey `json:"vault1"`
}

// PriceSample holds the vault balances of a pool and the price derived from them.
// Absent values are nil.
type PriceSample struct {
	BaseBalance  *float64 `json:"base_balance,omitempty"`
	QuoteBalance *float64 `json:"quote_balance,omitempty"`
	Price        *float64 `json:"price,omitempty"`
}

// NewPriceSample computes price = base / quote when both balances are present
// and the quote balance is non-zero.
func NewPriceSample(base, quote *float64) PriceSample {
	sample := PriceSample{
		BaseBalance:  base,
		QuoteBalance: quote,
	}

	if base != nil && quote != nil && *quote != 0 {
		price := *base / *quote
		sample.Price = &price
	}

	return sample
}

func (s PriceSample) HasPrice() bool {
	return s.Price != nil
}
