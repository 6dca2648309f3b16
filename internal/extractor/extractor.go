// Package extractor reads the token pair of a pool creation out of a parsed transaction.
package extractor

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/igefined/cpmm-listing-screener/internal/domain"
)

// Extractor is stateless and safe for concurrent use.
type Extractor struct {
	poolOwner  solana.PublicKey
	nativeMint solana.PublicKey
	now        func() time.Time
}

func New(poolOwner, nativeMint solana.PublicKey) *Extractor {
	return &Extractor{
		poolOwner:  poolOwner,
		nativeMint: nativeMint,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Extract returns false when the transaction failed or carries no meta.
// A missing base or quote balance leaves that side zero-valued; check
// TokenPairEvent.Usable before deriving anything from the result.
func (e *Extractor) Extract(signature solana.Signature, tx *domain.ParsedTransaction) (domain.TokenPairEvent, bool) {
	if tx == nil || tx.Meta == nil || tx.Meta.Err != nil {
		return domain.TokenPairEvent{}, false
	}

	event := domain.TokenPairEvent{
		Signature: signature,
		Timestamp: e.now(),
	}
	if len(tx.SignerAccounts) > 0 {
		event.Creator = tx.SignerAccounts[0]
	}

	if base, ok := e.find(tx.Meta.PostTokenBalances, false); ok {
		event.BaseMint = base.Mint
		event.BaseDecimals = base.Decimals
		event.BaseLpAmount = base.Amount()
	}

	if quote, ok := e.find(tx.Meta.PostTokenBalances, true); ok {
		event.QuoteMint = quote.Mint
		event.QuoteDecimals = quote.Decimals
		event.QuoteLpAmount = quote.Amount()
	}

	return event, true
}

func (e *Extractor) find(balances []domain.TokenBalance, native bool) (domain.TokenBalance, bool) {
	for _, b := range balances {
		if !b.Owner.Equals(e.poolOwner) {
			continue
		}
		if b.Mint.Equals(e.nativeMint) == native {
			return b, true
		}
	}
	return domain.TokenBalance{}, false
}
