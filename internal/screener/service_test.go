package screener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/derive"
	"github.com/igefined/cpmm-listing-screener/internal/domain"
	"github.com/igefined/cpmm-listing-screener/internal/extractor"
	"github.com/igefined/cpmm-listing-screener/internal/inspector"
	"github.com/igefined/cpmm-listing-screener/internal/monitor"
)

var (
	programID  = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	feeAccount = solana.MustPublicKeyFromBase58("DNXgeM9EiiaAbaWvwjHj9fQQLAX5ZsfHyvmYUNRAdNC8")
	poolOwner  = solana.MustPublicKeyFromBase58("GpMZbSM2GgvTKHJirzeGfMFoaZ8UR2X7F4v8vHTvxFbL")
	ammConfig  = solana.MustPublicKeyFromBase58("D4FPEruKEHrG5TenZ2mpDGEfu1iUvTiqBxvpU8HLBvC2")
	tokenMint  = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func testProtocol() config.Protocol {
	return config.Protocol{
		ProgramID:         programID,
		FeeAccount:        feeAccount,
		PoolOwner:         poolOwner,
		NativeMint:        solana.SolMint,
		AmmConfigDataSize: 236,
		PoolSeed:          []byte("pool"),
		VaultSeed:         []byte("pool_vault"),
	}
}

type logStream struct {
	events chan *domain.LogEvent
	done   chan struct{}
	once   sync.Once
}

func (s *logStream) Recv(ctx context.Context) (*domain.LogEvent, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.done:
		return nil, errors.New("subscription closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *logStream) Unsubscribe() {
	s.once.Do(func() { close(s.done) })
}

// testLedger is an in-memory ledger with no accounts.
type testLedger struct {
	stream      *logStream
	txs         map[solana.Signature]*domain.ParsedTransaction
	configs     []solana.PublicKey
	findErr     error
	findCalls   int
	existsCalls int
	mu          sync.Mutex
}

func newTestLedger() *testLedger {
	return &testLedger{
		stream: &logStream{
			events: make(chan *domain.LogEvent, 4),
			done:   make(chan struct{}),
		},
		txs: make(map[solana.Signature]*domain.ParsedTransaction),
	}
}

func (l *testLedger) SubscribeLogs(ctx context.Context, account solana.PublicKey) (domain.LogSubscription, error) {
	return l.stream, nil
}

func (l *testLedger) GetParsedTransaction(ctx context.Context, signature solana.Signature) (*domain.ParsedTransaction, error) {
	return l.txs[signature], nil
}

func (l *testLedger) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.existsCalls++
	return false, nil
}

func (l *testLedger) GetTokenBalance(ctx context.Context, address solana.PublicKey) (*float64, error) {
	return nil, errors.New("unexpected balance query")
}

func (l *testLedger) FindProgramAccounts(ctx context.Context, program solana.PublicKey, dataSize uint64) ([]solana.PublicKey, error) {
	l.findCalls++
	return l.configs, l.findErr
}

type inspection struct {
	configAccount, quoteMint, baseMint solana.PublicKey
	sample                             domain.PriceSample
}

type recordingInspector struct {
	next        PoolInspector
	inspections chan inspection
}

func (r *recordingInspector) Inspect(ctx context.Context, configAccount, quoteMint, baseMint solana.PublicKey) (domain.PriceSample, error) {
	sample, err := r.next.Inspect(ctx, configAccount, quoteMint, baseMint)
	r.inspections <- inspection{configAccount, quoteMint, baseMint, sample}
	return sample, err
}

type nopRecorder struct{}

func (nopRecorder) Record(string, ...zap.Field) {}

func TestServiceEndToEnd(t *testing.T) {
	ledger := newTestLedger()
	ledger.configs = []solana.PublicKey{ammConfig}

	sig := solana.Signature{0x51, 0x47, 0x31}
	quoteAmount, baseAmount := 10.0, 1000.0
	ledger.txs[sig] = &domain.ParsedTransaction{
		SignerAccounts: []solana.PublicKey{feeAccount},
		Meta: &domain.TransactionMeta{
			PostTokenBalances: []domain.TokenBalance{
				{Owner: poolOwner, Mint: solana.SolMint, Decimals: 9, UIAmount: &quoteAmount},
				{Owner: poolOwner, Mint: tokenMint, Decimals: 6, UIAmount: &baseAmount},
			},
		},
	}

	protocol := testProtocol()
	logger := zap.NewNop()
	m := monitor.New(ledger, extractor.New(protocol.PoolOwner, protocol.NativeMint), nopRecorder{}, protocol.FeeAccount, logger)
	recorder := &recordingInspector{
		next:        inspector.New(ledger, protocol.ProgramID, derive.DefaultSeeds(), logger),
		inspections: make(chan inspection, 1),
	}

	service := NewService(protocol, ledger, m, recorder, logger)
	require.NoError(t, service.Start(context.Background()))

	ledger.stream.events <- &domain.LogEvent{Account: feeAccount, Signature: sig}

	var got inspection
	select {
	case got = <-recorder.inspections:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inspection")
	}
	require.NoError(t, service.Stop())

	assert.Equal(t, ammConfig, got.configAccount)
	assert.Equal(t, solana.SolMint, got.quoteMint)
	assert.Equal(t, tokenMint, got.baseMint)
	assert.Equal(t, domain.PriceSample{}, got.sample)
	assert.Equal(t, 1, ledger.findCalls)
	assert.Equal(t, 2, ledger.existsCalls)
}

func TestServiceConfiguredAmmConfig(t *testing.T) {
	ledger := newTestLedger()
	protocol := testProtocol()
	protocol.AmmConfig = ammConfig

	service := NewService(protocol, ledger, &stubMonitor{}, &recordingInspector{}, zap.NewNop())

	account, err := service.resolveConfigAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ammConfig, account)
	assert.Zero(t, ledger.findCalls)
}

func TestServiceConfigAccountNotFound(t *testing.T) {
	ledger := newTestLedger()
	m := &stubMonitor{}

	service := NewService(testProtocol(), ledger, m, &recordingInspector{}, zap.NewNop())

	err := service.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigAccountNotFound))
	assert.False(t, m.started)
}

func TestServiceConfigDiscoveryFailure(t *testing.T) {
	ledger := newTestLedger()
	ledger.findErr = errors.New("method disabled")

	service := NewService(testProtocol(), ledger, &stubMonitor{}, &recordingInspector{}, zap.NewNop())

	err := service.Start(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConfigAccountNotFound))
}

func TestServiceMonitorStartFailure(t *testing.T) {
	ledger := newTestLedger()
	ledger.configs = []solana.PublicKey{ammConfig}
	m := &stubMonitor{startErr: domain.ErrSubscriptionSetup}

	service := NewService(testProtocol(), ledger, m, &recordingInspector{}, zap.NewNop())

	err := service.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSubscriptionSetup))
}

type stubMonitor struct {
	startErr error
	started  bool
}

func (m *stubMonitor) Start(ctx context.Context, onPair monitor.PairHandler) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	return nil
}

func (m *stubMonitor) Stop() error {
	return nil
}
