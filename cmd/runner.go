package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskport/internal/bitrix"
	"github.com/desertthunder/taskport/internal/ledger"
	"github.com/desertthunder/taskport/internal/migrate"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	source *bitrix.Client
	dest   *bitrix.Client
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source *bitrix.Client
	Dest   *bitrix.Client
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		dest:   opts.Dest,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger swaps the Runner's logger (used when the watcher owns the terminal).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, exportCommand, migrateCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openLedger opens the checkpoint ledger selected by configuration.
func (r *Runner) openLedger() (ledger.Ledger, error) {
	cfg := r.config.Ledger
	switch cfg.Backend {
	case "", "file":
		return ledger.OpenFileLedger(cfg.DoneFile, cfg.MapFile), nil
	case "sqlite":
		db, err := shared.NewDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, 2, 1)
		return ledger.OpenSQLiteLedger(db)
	default:
		return nil, fmt.Errorf("%w: unknown ledger backend '%s'", shared.ErrInvalidConfig, cfg.Backend)
	}
}

// buildEngine wires the migration engine for the configured group pair.
func (r *Runner) buildEngine(led ledger.Ledger) *migrate.Engine {
	mig := r.config.Migration
	return migrate.NewEngine(migrate.EngineOpts{
		Source:          r.source,
		Dest:            r.dest,
		Ledger:          led,
		Stages:          migrate.StageMap{Mapping: r.config.Stages.StageMap(), Default: r.config.Stages.Default},
		Identity:        migrate.Identity{OperatorID: mig.OperatorID},
		DestGroupID:     mig.DestGroupID,
		FolderID:        mig.FolderID,
		CopyTags:        mig.CopyTags,
		CopyAttachments: mig.CopyAttachments,
		Logger:          r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
