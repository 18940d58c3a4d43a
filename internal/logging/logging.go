// Package logging builds the zap loggers used by the CLI and server and
// bridges canvas notifications into them.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
)

// New returns a logger at level ("debug", "info", "warn", "error"). Format
// "json" uses the production encoder; anything else writes console lines.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var cfg zap.Config
	if strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Notifier logs every board notification. Success and info map to Info,
// warnings to Warn and errors to Error.
func Notifier(logger *zap.Logger, fields ...zap.Field) canvas.Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(fields...)
	return canvas.NotifierFunc(func(n canvas.Notification) {
		attrs := []zap.Field{
			zap.String("level", string(n.Level)),
			zap.Strings("elements", n.Elements),
		}
		switch n.Level {
		case canvas.LevelError:
			logger.Error(n.Message, attrs...)
		case canvas.LevelWarning:
			logger.Warn(n.Message, attrs...)
		default:
			logger.Info(n.Message, attrs...)
		}
	})
}

// Fanout delivers each notification to every non-nil notifier in order.
func Fanout(notifiers ...canvas.Notifier) canvas.Notifier {
	return canvas.NotifierFunc(func(n canvas.Notification) {
		for _, notifier := range notifiers {
			if notifier != nil {
				notifier.Notify(n)
			}
		}
	})
}
