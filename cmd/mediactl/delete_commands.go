package main

import (
	"errors"
	"fmt"
	"io"
	"media-pipeline/internal/core/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <assetID>",
		Short: "Delete the source object and tombstone the asset, keeping derived artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			report, err := a.Deletion.PurgeSource(cmd.Context(), ctx.actorID, assetID)
			return printDeletion(cmd.OutOrStdout(), report, err)
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <assetID>",
		Short: "Delete every object of an asset and its row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			report, err := a.Deletion.DeleteAsset(cmd.Context(), ctx.actorID, assetID)
			return printDeletion(cmd.OutOrStdout(), report, err)
		},
	}
}

// printDeletion prints the report, including partial ones, and returns err
func printDeletion(out io.Writer, report *domain.DeletionReport, err error) error {
	if report == nil {
		return err
	}
	fmt.Fprintf(out, "Asset:      %d\n", report.AssetID)
	fmt.Fprintf(out, "Deleted:    %s objects\n", humanize.Comma(int64(report.Deleted)))
	for _, p := range report.Prefixes {
		fmt.Fprintf(out, "  %s/%s  %s objects in %d batches\n", p.Bucket, p.Prefix, humanize.Comma(int64(p.Deleted)), p.Batches)
	}
	if report.Tombstoned {
		fmt.Fprintln(out, "Tombstoned: yes")
	}
	if report.RowDeleted {
		fmt.Fprintln(out, "Row:        deleted")
	}
	for _, e := range report.Errors {
		fmt.Fprintf(out, "Error:      %s\n", e)
	}
	if errors.Is(err, domain.ErrPartialDeletion) {
		return fmt.Errorf("%d prefix errors, rerun to resume: %w", len(report.Errors), err)
	}
	return err
}
