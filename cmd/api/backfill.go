package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"context-gateway/config"
	"context-gateway/internal/memory"
	sqliteRepo "context-gateway/internal/memory/repository/sqlite"
	"context-gateway/pkg/log"
)

// newBackfillCmd copies the sqlite memory store into qdrant, for moving a
// single-node deployment onto the vector backend.
func newBackfillCmd(configPath *string) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Copy sqlite memories into qdrant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := log.Init(log.ZapConfig{
				Level:        cfg.Logger.Level,
				Mode:         cfg.Logger.Mode,
				Encoding:     cfg.Logger.Encoding,
				ColorEnabled: cfg.Logger.ColorEnabled,
			})

			src, err := sqliteRepo.New(logger, cfg.SQLite.Path)
			if err != nil {
				return fmt.Errorf("sqlite: %w", err)
			}
			defer func() { _ = src.Close() }()

			dst, err := newQdrantMemory(ctx, cfg, logger)
			if err != nil {
				return err
			}

			logger.Infof(ctx, "Starting backfill from %s into %s", cfg.SQLite.Path, cfg.Qdrant.CollectionName)
			res, err := memory.Backfill(ctx, logger, src, dst, batch)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Backfill complete: %d/%d copied, %d failed\n", res.Copied, res.Read, res.Failed)
			return err
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 100, "records read per page")

	return cmd
}
