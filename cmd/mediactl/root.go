package main

import (
	"fmt"
	"io"
	"log/slog"
	"media-pipeline/internal/app"
	"media-pipeline/internal/config"
	"os"

	"github.com/spf13/cobra"
)

// commandContext builds the app on first use so offline commands never dial anything
type commandContext struct {
	actorID int64
	verbose bool
	app     *app.App
}

func (c *commandContext) logger() *slog.Logger {
	if !c.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *commandContext) ensureApp(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if c.actorID <= 0 {
		return nil, fmt.Errorf("--actor is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	built, err := app.Build(cmd.Context(), cfg, c.logger())
	if err != nil {
		return nil, err
	}
	c.app = built
	return built, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "mediactl",
		Short:         "Operate the media artifact pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.app == nil {
				return nil
			}
			return ctx.app.Close()
		},
	}
	root.PersistentFlags().Int64Var(&ctx.actorID, "actor", 0, "Actor id the operation runs as")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(newKeyCommand())
	root.AddCommand(newPurgeCommand(ctx))
	root.AddCommand(newDeleteCommand(ctx))
	root.AddCommand(newBackfillCommand(ctx))

	return root
}
