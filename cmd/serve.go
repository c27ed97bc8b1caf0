package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/desertthunder/taskport/internal/server"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP front door that triggers migration runs.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil || r.dest == nil {
		return fmt.Errorf("%w: both portal clients required", shared.ErrMissingConfig)
	}

	taskFile := cmd.String("file")
	if taskFile == "" {
		taskFile = r.config.Migration.TaskFile
	}

	led, err := r.openLedger()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer led.Close()

	engine := r.buildEngine(led)

	handler := server.NewMigrationHandler(taskFile, engine.Migrate, r.logger)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	host := r.config.Server.Host
	port := int(cmd.Int("port"))
	if port == 0 {
		port = r.config.Server.Port
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	r.logger.Info("front door listening", "addr", addr)
	r.writePlain("→ http://%s\n   /migrate/sample or /migrate/all\n", addr)

	srv := &http.Server{Addr: addr, Handler: router}
	return srv.ListenAndServe()
}

// serveCommand starts the migration trigger server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP trigger routes for migration runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to server.port)",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Exported task file (defaults to migration.task_file)",
			},
		},
		Action: r.Serve,
	}
}
