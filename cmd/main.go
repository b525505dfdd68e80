package main

import (
	"context"
	"os"

	"github.com/desertthunder/phototag/internal/catalog"
	"github.com/desertthunder/phototag/internal/repositories"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/desertthunder/phototag/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath := shared.ConfigPath("config.toml")
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.ApplyEnv(config)
	if err := config.Validate(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	logger.SetLevel(shared.ParseLogLevel(config.Log.Level))

	backend, err := repositories.Open(config)
	if err != nil {
		logger.Fatalf("failed to open storage: %v", err)
	}

	tags, err := catalog.NewTagStore(backend.Tags, logger)
	if err != nil {
		backend.Close()
		logger.Fatalf("%v", err)
	}
	history, err := catalog.NewHistoryStore(backend.History, logger)
	if err != nil {
		backend.Close()
		logger.Fatalf("%v", err)
	}

	renameLog, err := tasks.OpenRenameLog(config.Log.RenamePath)
	if err != nil {
		backend.Close()
		logger.Fatalf("%v", err)
	}

	engine := tasks.NewRenameEngine(tasks.RenameOpts{
		Logger:    logger,
		Observers: []tasks.Observer{renameLog, history},
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Tags:       tags,
		History:    history,
		Engine:     engine,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "phototag",
		Usage:    "Tag photos by renaming them, and revert to any past name",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	renameLog.Close()
	backend.Close()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
