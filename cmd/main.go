package main

import (
	"context"
	"os"
	"time"

	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	interval := time.Duration(config.Client.RequestIntervalMS) * time.Millisecond
	timeout := time.Duration(config.Client.TimeoutSeconds) * time.Second
	limiter := bitrix.NewLimiter(interval)

	var source, dest *bitrix.Client
	if c, err := bitrix.NewClient(bitrix.ClientOpts{
		Domain:       config.Portal.Source.Domain,
		UserID:       config.Portal.Source.UserID,
		WebhookToken: config.Portal.Source.WebhookToken,
		AccessToken:  config.Portal.Source.AccessToken,
		Timeout:      timeout,
		Limiter:      limiter,
	}); err == nil {
		source = c
	} else {
		logger.Warn("source portal client not configured", "error", err)
	}

	if c, err := bitrix.NewClient(bitrix.ClientOpts{
		Domain:       config.Portal.Dest.Domain,
		UserID:       config.Portal.Dest.UserID,
		WebhookToken: config.Portal.Dest.WebhookToken,
		AccessToken:  config.Portal.Dest.AccessToken,
		Timeout:      timeout,
		Limiter:      limiter,
	}); err == nil {
		dest = c
	} else {
		logger.Warn("destination portal client not configured", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Source: source,
		Dest:   dest,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "taskport",
		Usage:    "Migrate tasks, comments, tags & attachments between portal groups",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
