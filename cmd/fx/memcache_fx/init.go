package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripnotes/internal/models/response_models"
	mem "tripnotes/pkg/memcache"
)

const purgeInterval = time.Minute

var Module = fx.Provide(provideCompareCache)

// provideCompareCache also runs a janitor that drops expired comparisons.
func provideCompareCache(lc fx.Lifecycle, logger *zap.Logger) mem.Store[response_models.ComparisonResult] {
	cache := mem.NewTTLCache[response_models.ComparisonResult]()
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(purgeInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := cache.Purge(); n > 0 {
							logger.Debug("purged expired comparisons", zap.Int("count", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
	return cache
}
