package screener

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/domain"
	"github.com/igefined/cpmm-listing-screener/internal/monitor"
)

type ConfigAccountFinder interface {
	FindProgramAccounts(ctx context.Context, programID solana.PublicKey, dataSize uint64) ([]solana.PublicKey, error)
}

type PairMonitor interface {
	Start(ctx context.Context, onPair monitor.PairHandler) error
	Stop() error
}

type PoolInspector interface {
	Inspect(ctx context.Context, configAccount, quoteMint, baseMint solana.PublicKey) (domain.PriceSample, error)
}

// Service wires the monitor to the inspector for the configured program.
type Service struct {
	protocol  config.Protocol
	finder    ConfigAccountFinder
	monitor   PairMonitor
	inspector PoolInspector
	logger    *zap.Logger

	mu            sync.RWMutex
	configAccount solana.PublicKey
	cancel        context.CancelFunc
}

func NewService(protocol config.Protocol, finder ConfigAccountFinder, monitor PairMonitor, inspector PoolInspector, logger *zap.Logger) *Service {
	return &Service{
		protocol:  protocol,
		finder:    finder,
		monitor:   monitor,
		inspector: inspector,
		logger:    logger.Named("screener"),
	}
}

// Start resolves the amm config account and starts monitoring. The startup
// context only bounds the setup calls; monitoring runs until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting screener service",
		zap.Stringer("program_id", s.protocol.ProgramID),
		zap.Stringer("fee_account", s.protocol.FeeAccount))

	configAccount, err := s.resolveConfigAccount(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.configAccount = configAccount
	s.mu.Unlock()

	s.logger.Info("Using amm config account", zap.Stringer("amm_config", configAccount))

	runCtx, cancel := context.WithCancel(context.Background())
	if err := s.monitor.Start(runCtx, s.onPair); err != nil {
		cancel()
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	return nil
}

func (s *Service) Stop() error {
	s.logger.Info("Stopping screener service")

	err := s.monitor.Stop()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	return err
}

func (s *Service) resolveConfigAccount(ctx context.Context) (solana.PublicKey, error) {
	if !s.protocol.AmmConfig.IsZero() {
		return s.protocol.AmmConfig, nil
	}

	accounts, err := s.finder.FindProgramAccounts(ctx, s.protocol.ProgramID, s.protocol.AmmConfigDataSize)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to discover amm config account: %w", err)
	}
	if len(accounts) == 0 {
		return solana.PublicKey{}, fmt.Errorf("%w: program %s, data size %d",
			domain.ErrConfigAccountNotFound, s.protocol.ProgramID, s.protocol.AmmConfigDataSize)
	}

	return accounts[0], nil
}

func (s *Service) onPair(ctx context.Context, pair domain.TokenPairEvent) error {
	s.mu.RLock()
	configAccount := s.configAccount
	s.mu.RUnlock()

	sample, err := s.inspector.Inspect(ctx, configAccount, pair.QuoteMint, pair.BaseMint)
	if err != nil {
		return fmt.Errorf("failed to inspect pool for %s: %w", pair.BaseMint, err)
	}

	s.processSample(pair, sample)
	return nil
}

func (s *Service) processSample(pair domain.TokenPairEvent, sample domain.PriceSample) {
	fields := []zap.Field{
		zap.Stringer("signature", pair.Signature),
		zap.Stringer("creator", pair.Creator),
		zap.Stringer("base_mint", pair.BaseMint),
		zap.Stringer("quote_mint", pair.QuoteMint),
		zap.Time("detected_at", pair.Timestamp),
	}
	if !sample.HasPrice() {
		s.logger.Info("New pool detected without price", fields...)
		return
	}

	s.logger.Info("New pool detected", append(fields, zap.Float64("price", *sample.Price))...)
}
