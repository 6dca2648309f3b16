package main

import (
	"go.uber.org/fx"

	"github.com/igefined/cpmm-listing-screener/pkg/logger"

	"github.com/igefined/cpmm-listing-screener/internal/config"
	"github.com/igefined/cpmm-listing-screener/internal/inspector"
	"github.com/igefined/cpmm-listing-screener/internal/ledger"
	"github.com/igefined/cpmm-listing-screener/internal/monitor"
	"github.com/igefined/cpmm-listing-screener/internal/screener"
)

func modules() fx.Option {
	return fx.Options(
		config.Module,
		logger.Module,
		// Ledger access
		ledger.Module,
		// Business logic modules
		monitor.Module,
		inspector.Module,
		screener.Module,
	)
}

func main() {
	fx.New(
		modules(),
		fx.WithLogger(logger.FxLogger),
	).Run()
}
