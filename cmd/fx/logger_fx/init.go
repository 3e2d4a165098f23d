package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripnotes/internal/config"
	"tripnotes/pkg/utils"
)

var Module = fx.Provide(provideLogger)

func provideLogger(lc fx.Lifecycle, cfg *config.AppConfig) (*zap.Logger, error) {
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.Production)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
