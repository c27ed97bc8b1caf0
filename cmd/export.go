package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/taskport/internal/migrate"
	"github.com/desertthunder/taskport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export downloads every task in the source group and writes the exported
// JSON file that migration runs consume.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil {
		return fmt.Errorf("%w: source portal not configured", shared.ErrMissingConfig)
	}

	groupID := int(cmd.Int("group"))
	if groupID == 0 {
		groupID = r.config.Migration.SourceGroupID
	}

	outPath := cmd.String("out")
	if outPath == "" {
		outPath = fmt.Sprintf("tasks_%d.json", groupID)
	}

	r.logger.Info("exporting group", "group", groupID, "out", outPath)

	count, err := migrate.Export(ctx, r.source, groupID, outPath)
	if err != nil {
		return err
	}

	r.writePlain("Exported %d tasks to %s\n", count, outPath)
	return nil
}

// exportCommand dumps a source group to a flat JSON file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all tasks in the source group to a JSON file",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   "Source group id (defaults to migration.source_group_id)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file path (defaults to tasks_<group>.json)",
			},
		},
		Action: r.Export,
	}
}
