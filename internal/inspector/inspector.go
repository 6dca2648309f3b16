// Package inspector verifies a detected pool on-chain and prices it from its vault balances.
package inspector

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/derive"
	"github.com/igefined/cpmm-listing-screener/internal/domain"
)

type AccountReader interface {
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)
	GetTokenBalance(ctx context.Context, address solana.PublicKey) (*float64, error)
}

// Inspector makes a single attempt per ledger query; there are no retries.
type Inspector struct {
	reader    AccountReader
	programID solana.PublicKey
	seeds     derive.Seeds
	logger    *zap.Logger
}

func New(reader AccountReader, programID solana.PublicKey, seeds derive.Seeds, logger *zap.Logger) *Inspector {
	return &Inspector{
		reader:    reader,
		programID: programID,
		seeds:     seeds,
		logger:    logger.Named("inspector"),
	}
}

// Inspect derives the pool accounts for the pair (base as token 0, quote as
// token 1) and prices the pool as base vault balance over quote vault balance.
// Ledger failures yield an empty sample; only derivation failures are returned.
func (i *Inspector) Inspect(ctx context.Context, configAccount, quoteMint, baseMint solana.PublicKey) (domain.PriceSample, error) {
	addrs, err := derive.Derive(i.programID, configAccount, baseMint, quoteMint, i.seeds)
	if err != nil {
		return domain.PriceSample{}, err
	}

	logger := i.logger.With(
		zap.Stringer("pool_state", addrs.PoolState),
		zap.Stringer("base_mint", baseMint),
		zap.Stringer("quote_mint", quoteMint))

	logger.Info("Derived pool accounts",
		zap.Stringer("vault0", addrs.Vault0),
		zap.Stringer("vault1", addrs.Vault1))

	poolExists, err := i.reader.AccountExists(ctx, addrs.PoolState)
	switch {
	case err != nil:
		logger.Warn("Failed to check pool state account", zap.Error(err))
	case poolExists:
		logger.Info("Pool exists on-chain")
	default:
		logger.Info("Pool does not exist on-chain")
	}

	vaultExists, err := i.reader.AccountExists(ctx, addrs.Vault1)
	if err != nil {
		logger.Error("Failed to check quote vault account",
			zap.Stringer("vault1", addrs.Vault1),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrBalanceQuery, err)))
		return domain.PriceSample{}, nil
	}
	if !vaultExists {
		logger.Info("Token vault account does not exist", zap.Stringer("vault1", addrs.Vault1))
		return domain.PriceSample{}, nil
	}

	baseBalance, err := i.reader.GetTokenBalance(ctx, addrs.Vault0)
	if err != nil {
		logger.Error("Error fetching token account balance",
			zap.Stringer("vault0", addrs.Vault0),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrBalanceQuery, err)))
		return domain.PriceSample{}, nil
	}

	quoteBalance, err := i.reader.GetTokenBalance(ctx, addrs.Vault1)
	if err != nil {
		logger.Error("Error fetching token account balance",
			zap.Stringer("vault1", addrs.Vault1),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrBalanceQuery, err)))
		return domain.PriceSample{}, nil
	}

	sample := domain.NewPriceSample(baseBalance, quoteBalance)
	if sample.HasPrice() {
		logger.Info("Computed pool price",
			zap.Float64p("base_balance", sample.BaseBalance),
			zap.Float64p("quote_balance", sample.QuoteBalance),
			zap.Float64("price", *sample.Price))
	} else {
		logger.Info("Unable to calculate price due to missing balances",
			zap.Float64p("base_balance", sample.BaseBalance),
			zap.Float64p("quote_balance", sample.QuoteBalance))
	}

	return sample, nil
}
