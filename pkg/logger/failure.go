package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FailureLog appends event-handling failures to a file, one JSON record per line.
type FailureLog struct {
	logger *zap.Logger
	writer *lumberjack.Logger
}

func NewFailureLog(path string) (*FailureLog, error) {
	if path == "" {
		return nil, fmt.Errorf("failure log path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create failure log directory: %w", err)
		}
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(writer),
		zapcore.ErrorLevel,
	)

	return &FailureLog{
		logger: zap.New(core),
		writer: writer,
	}, nil
}

func (f *FailureLog) Record(msg string, fields ...zap.Field) {
	f.logger.Error(msg, fields...)
}

func (f *FailureLog) Close() error {
	_ = f.logger.Sync()
	return f.writer.Close()
}
