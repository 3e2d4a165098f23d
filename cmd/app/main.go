package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripnotes/cmd/fx/completion_fx"
	"tripnotes/cmd/fx/config_fx"
	"tripnotes/cmd/fx/controllers_fx"
	"tripnotes/cmd/fx/db_fx"
	"tripnotes/cmd/fx/logger_fx"
	"tripnotes/cmd/fx/memcache_fx"
	"tripnotes/cmd/fx/metrics_fx"
	"tripnotes/cmd/fx/notes_fx"
	"tripnotes/cmd/fx/plans_fx"
	"tripnotes/internal/config"
	"tripnotes/internal/infra"
	"tripnotes/pkg/utils"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "tripnotes",
		Short: "Trip plan generation and versioning service",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			newApp(configPath).Run()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(configPath)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newApp(configPath string) *fx.App {
	return fx.New(
		config_fx.Module(configPath),
		logger_fx.Module,
		db_fx.Module,
		metrics_fx.Module,
		memcache_fx.Module,
		completion_fx.Module,
		notes_fx.Module,
		plans_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)
}

func runMigrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.Production)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := infra.NewDBEngine(cfg, logger)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return err
	}
	defer infra.CloseDatabase(db, logger)

	if err := infra.Migrate(db); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return err
	}
	logger.Info("migration finished")
	return nil
}

func StartServer(lc fx.Lifecycle, cfg *config.AppConfig, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.Server.HttpPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
