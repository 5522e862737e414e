package main

import (
	"fmt"
	"media-pipeline/internal/core/artifactkey"
	"media-pipeline/internal/core/domain"
	"strconv"

	"github.com/spf13/cobra"
)

func newKeyCommand() *cobra.Command {
	var params domain.ArtifactParams

	cmd := &cobra.Command{
		Use:   "key <assetID> <type>",
		Short: "Print the storage key an artifact is derived to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			d, err := artifactkey.Derive(assetID, domain.ArtifactType(args[1]), params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Key)
			return nil
		},
	}
	cmd.Flags().IntVar(&params.LongEdgePx, "px", 0, "Long edge in pixels")
	cmd.Flags().Float64Var(&params.AtSeconds, "at", 0, "Offset in seconds")
	cmd.Flags().Float64Var(&params.IntervalSeconds, "interval", 0, "Sampling interval in seconds")
	return cmd
}

func parseAssetID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid asset id %q", raw)
	}
	return id, nil
}
