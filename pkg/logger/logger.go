package logger

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/igefined/cpmm-listing-screener/internal/config"
)

var Module = fx.Module("logger",
	fx.Provide(
		func(cfg *config.Config) (*zap.Logger, error) {
			return NewLogger(cfg.Log.Level)
		},
		func(cfg *config.Config) (*FailureLog, error) {
			return NewFailureLog(cfg.Log.FailureFile)
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger, failures *FailureLog) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = logger.Sync()
				return failures.Close()
			},
		})
	}),
)

// FxLogger routes fx lifecycle events through zap.
func FxLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}

func NewLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
