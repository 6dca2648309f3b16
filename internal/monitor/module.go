package monitor

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/extractor"
	"github.com/igefined/cpmm-listing-screener/internal/ledger"
	"github.com/igefined/cpmm-listing-screener/pkg/logger"
)

const moduleName = "monitor"

var Module = fx.Module(moduleName,
	fx.Provide(
		func(cfg *config.Config, client *ledger.Client, failures *logger.FailureLog, log *zap.Logger) *Monitor {
			ex := extractor.New(cfg.Protocol.PoolOwner, cfg.Protocol.NativeMint)
			return New(client, ex, failures, cfg.Protocol.FeeAccount, log)
		},
	),
)
