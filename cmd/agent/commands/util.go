package commands

import (
	"fmt"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/config"
)

// InitLogger initializes the structured logger from configuration, mirroring
// cmd/hub/commands.InitLogger.
func InitLogger(cfg config.LoggingConfig) error {
	if err := logger.Init(logger.Config{Level: cfg.Level, Format: cfg.Format, Output: cfg.Output}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
