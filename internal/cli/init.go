// Package cli consolidates the initialization shared by cmd/radnja and
// cmd/radnja-worker.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/Adnan1921/radnja-tracker/internal/config"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

// Bootstrap loads the optional .env file, installs the default logger for
// the given component, and returns the validated configuration.
func Bootstrap(component string) (*config.Config, *applog.Logger, error) {
	// .env is for local development; absence is fine in production
	_ = godotenv.Load()

	logger := applog.New(component, slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, logger, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, logger, nil
}
