package ledger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
)

const moduleName = "ledger"

var Module = fx.Module(moduleName,
	fx.Provide(
		func(cfg *config.Config, logger *zap.Logger) *Client {
			return NewClient(cfg.RPC.HTTPURL, cfg.RPC.WsURL, logger)
		},
	),
)
