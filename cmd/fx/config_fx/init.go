package config_fx

import (
	"go.uber.org/fx"

	"tripnotes/internal/config"
)

// Module loads the configuration file at path once for the whole app.
func Module(path string) fx.Option {
	return fx.Provide(func() (*config.AppConfig, error) {
		return config.Load(path)
	})
}
