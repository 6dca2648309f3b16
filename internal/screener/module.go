package screener

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/inspector"
	"github.com/igefined/cpmm-listing-screener/internal/ledger"
	"github.com/igefined/cpmm-listing-screener/internal/monitor"
)

const moduleName = "screener"

var Module = fx.Module(moduleName,
	fx.Provide(
		func(cfg *config.Config, client *ledger.Client, m *monitor.Monitor, i *inspector.Inspector, logger *zap.Logger) *Service {
			return NewService(cfg.Protocol, client, m, i, logger)
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, service *Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return service.Start(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return service.Stop()
			},
		})
	}),
)
