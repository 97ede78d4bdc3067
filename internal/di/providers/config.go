// Package providers contains dependency injection providers for the
// Off The Record server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/offtherecordapp/otr-server/internal/config"
	"github.com/offtherecordapp/otr-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Off The Record server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"music_path", cfg.Library.MusicPath,
	)

	return log, nil
}
