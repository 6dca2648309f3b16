package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"github.com/igefined/cpmm-listing-screener/internal/domain"
)

type logSubscription struct {
	account solana.PublicKey
	sub     *ws.LogSubscription
	conn    *ws.Client
}

func (s *logSubscription) Recv(ctx context.Context) (*domain.LogEvent, error) {
	result, err := s.sub.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to receive log notification: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("log subscription closed")
	}

	return &domain.LogEvent{
		Account:   s.account,
		Signature: result.Value.Signature,
		Logs:      result.Value.Logs,
		Err:       result.Value.Err,
		Slot:      result.Context.Slot,
	}, nil
}

func (s *logSubscription) Unsubscribe() {
	s.sub.Unsubscribe()
	s.conn.Close()
}
