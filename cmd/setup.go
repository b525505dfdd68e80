package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/phototag/internal/repositories"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing and initializes the configured storage.
//
// With --reset, stored tags and history are discarded first.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	shared.ApplyEnv(config)
	if err := config.Validate(); err != nil {
		return err
	}

	if config.Storage.DataDir != "" {
		if err := os.MkdirAll(config.Storage.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	r.logger.Info("initializing storage", "driver", config.Storage.Driver)

	if config.Storage.Driver == shared.DriverSQLite {
		db, err := repositories.OpenSQLite(config.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if cmd.Bool("reset") {
			if err := shared.ResetMigrations(db); err != nil {
				return fmt.Errorf("failed to reset database: %w", err)
			}
			r.logger.Warn("database reset", "path", config.Database.Path)
		}

		version, err := shared.CurrentVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		r.logger.Infof("setup complete for database: %v (schema version %d)", config.Database.Path, version)
		r.writePlain("✓ Database ready at %s\n", config.Database.Path)
		return nil
	}

	backend, err := repositories.Open(config)
	if err != nil {
		return err
	}
	defer backend.Close()

	if cmd.Bool("reset") {
		if err := backend.Tags.Save(nil); err != nil {
			return fmt.Errorf("failed to reset tags: %w", err)
		}
		if err := backend.History.Save(nil); err != nil {
			return fmt.Errorf("failed to reset history: %w", err)
		}
		r.logger.Warn("storage reset", "driver", backend.Driver)
	}

	r.logger.Info("setup complete", "driver", backend.Driver)
	r.writePlain("✓ Storage ready (%s) in %s\n", backend.Driver, config.Storage.DataDir)
	return nil
}
