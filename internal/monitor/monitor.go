// Package monitor follows the fee account's log stream and turns pool
// creations into TokenPairEvents.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/domain"
	"github.com/igefined/cpmm-listing-screener/internal/extractor"
)

type Ledger interface {
	SubscribeLogs(ctx context.Context, account solana.PublicKey) (domain.LogSubscription, error)
	GetParsedTransaction(ctx context.Context, signature solana.Signature) (*domain.ParsedTransaction, error)
}

type FailureRecorder interface {
	Record(msg string, fields ...zap.Field)
}

// PairHandler receives every usable pair. A returned error is recorded as
// a failure of that event only.
type PairHandler func(ctx context.Context, pair domain.TokenPairEvent) error

type Monitor struct {
	ledger    Ledger
	extractor *extractor.Extractor
	failures  FailureRecorder
	observer  solana.PublicKey
	logger    *zap.Logger

	mu     sync.Mutex
	sub    domain.LogSubscription
	cancel context.CancelFunc
	loop   sync.WaitGroup
	events sync.WaitGroup
}

func New(ledger Ledger, extractor *extractor.Extractor, failures FailureRecorder, observer solana.PublicKey, logger *zap.Logger) *Monitor {
	return &Monitor{
		ledger:    ledger,
		extractor: extractor,
		failures:  failures,
		observer:  observer,
		logger:    logger.Named("monitor"),
	}
}

// Start subscribes to the observer's logs and returns once the subscription
// is established. Events are handled in the background until Stop is called
// or the stream ends.
func (m *Monitor) Start(ctx context.Context, onPair PairHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub != nil {
		return fmt.Errorf("monitor already started")
	}

	m.logger.Info("Monitoring new pools", zap.Stringer("observer", m.observer))

	runCtx, cancel := context.WithCancel(ctx)
	sub, err := m.ledger.SubscribeLogs(runCtx, m.observer)
	if err != nil {
		cancel()
		return fmt.Errorf("%w: %w", domain.ErrSubscriptionSetup, err)
	}

	m.sub = sub
	m.cancel = cancel

	m.loop.Add(1)
	go m.receiveLoop(runCtx, sub, onPair)

	return nil
}

func (m *Monitor) Stop() error {
	m.mu.Lock()
	sub, cancel := m.sub, m.cancel
	m.sub, m.cancel = nil, nil
	m.mu.Unlock()

	if sub == nil {
		return nil
	}

	m.logger.Info("Stopping monitor")

	cancel()
	sub.Unsubscribe()
	m.loop.Wait()
	m.events.Wait()

	return nil
}

func (m *Monitor) receiveLoop(ctx context.Context, sub domain.LogSubscription, onPair PairHandler) {
	defer m.loop.Done()

	for {
		event, err := sub.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				m.logger.Info("Context cancelled, stopping receive loop")
				return
			}
			m.logger.Error("Log subscription ended", zap.Error(err))
			return
		}
		if event == nil {
			continue
		}

		m.events.Add(1)
		go func(ev domain.LogEvent) {
			defer m.events.Done()
			m.handle(ctx, ev, onPair)
		}(*event)
	}
}

// handle is the per-event failure boundary: errors and panics are logged and
// recorded, never propagated.
func (m *Monitor) handle(ctx context.Context, event domain.LogEvent, onPair PairHandler) {
	eventID := uuid.NewString()
	logger := m.logger.With(
		zap.String("event_id", eventID),
		zap.Stringer("signature", event.Signature))

	defer func() {
		if r := recover(); r != nil {
			m.fail(logger, eventID, event.Signature, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := m.process(ctx, logger, event, onPair); err != nil {
		m.fail(logger, eventID, event.Signature, err)
	}
}

func (m *Monitor) process(ctx context.Context, logger *zap.Logger, event domain.LogEvent, onPair PairHandler) error {
	if event.Err != nil {
		logger.Warn("Log event contains error", zap.Any("error", event.Err))
		return nil
	}

	logger.Info("Found new pool signature", zap.Uint64("slot", event.Slot))

	tx, err := m.ledger.GetParsedTransaction(ctx, event.Signature)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEventFetch, err)
	}

	pair, ok := m.extractor.Extract(event.Signature, tx)
	if !ok {
		logger.Info("Transaction is not a successful pool creation")
		return nil
	}

	logger.Info("Parsed pool creation",
		zap.Stringer("creator", pair.Creator),
		zap.Stringer("base_mint", pair.BaseMint),
		zap.Stringer("quote_mint", pair.QuoteMint),
		zap.Float64("base_lp_amount", pair.BaseLpAmount),
		zap.Float64("quote_lp_amount", pair.QuoteLpAmount))
	logger.Debug("Post token balances", zap.Any("balances", tx.Meta.PostTokenBalances))

	if !pair.Usable() {
		logger.Info("Skipping event without a usable token pair")
		return nil
	}

	return onPair(ctx, pair)
}

func (m *Monitor) fail(logger *zap.Logger, eventID string, signature solana.Signature, err error) {
	logger.Error("Error occurred in new pool log callback", zap.Error(err))
	m.failures.Record("Error occurred in new pool log callback",
		zap.String("event_id", eventID),
		zap.Stringer("signature", signature),
		zap.Error(err))
}
