package main

import (
	"fmt"
	"media-pipeline/internal/core/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "backfill <type>",
		Short: "Queue generation of an artifact type for every asset missing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			report, err := a.Artifacts.Backfill(cmd.Context(), ctx.actorID, domain.ArtifactType(args[0]), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Type:     %s\n", report.Type)
			fmt.Fprintf(out, "Scanned:  %s\n", humanize.Comma(int64(report.Scanned)))
			fmt.Fprintf(out, "Ready:    %s\n", humanize.Comma(int64(report.Ready)))
			fmt.Fprintf(out, "Enqueued: %s\n", humanize.Comma(int64(report.Enqueued)))
			fmt.Fprintf(out, "Pending:  %s\n", humanize.Comma(int64(report.Pending)))
			fmt.Fprintf(out, "Failed:   %s\n", humanize.Comma(int64(report.Failed)))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many assets (0 means all)")
	return cmd
}
