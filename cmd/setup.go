package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/taskport/internal/ledger"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup scaffolds the configuration file and, for the sqlite ledger
// backend, initializes the checkpoint schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("Created %s – fill in the portal credentials.\n", configPath)
	}

	if config.Ledger.Backend != "sqlite" {
		r.writePlain("Ledger backend: %s (no database setup needed)\n", config.Ledger.Backend)
		return nil
	}

	r.logger.Info("initializing ledger database", "path", config.Ledger.Database)

	db, err := shared.NewDatabase(config.Ledger.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	led, err := ledger.OpenSQLiteLedger(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	defer led.Close()

	r.writePlain("Ledger database ready: %s (%d records)\n", config.Ledger.Database, led.Size())
	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the ledger store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
