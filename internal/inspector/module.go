package inspector

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/derive"
	"github.com/igefined/cpmm-listing-screener/internal/ledger"
)

const moduleName = "inspector"

var Module = fx.Module(moduleName,
	fx.Provide(
		func(cfg *config.Config, client *ledger.Client, logger *zap.Logger) *Inspector {
			seeds := derive.Seeds{
				Pool:  cfg.Protocol.PoolSeed,
				Vault: cfg.Protocol.VaultSeed,
			}
			return New(client, cfg.Protocol.ProgramID, seeds, logger)
		},
	),
)
