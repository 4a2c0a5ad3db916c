package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contestScope/internal/config"
	"contestScope/internal/gateway"
	"contestScope/internal/metrics"
	"contestScope/internal/model"
)

func runEvents(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	cursorBlock, _ := cmd.Flags().GetUint64("cursor-block")
	cursorIndex, _ := cmd.Flags().GetUint64("cursor-index")
	fromBlock, _ := cmd.Flags().GetUint64("from")
	toBlock, _ := cmd.Flags().GetUint64("to")
	limit, _ := cmd.Flags().GetInt("limit")

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	def, err := loadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	gw, err := gateway.New(gateway.Config{
		Provider: &gateway.StaticProvider{Definition: def},
		Logger:   logger,
		Metrics:  metrics.NewCollector(),
	})
	if err != nil {
		return err
	}

	query := gateway.EventQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Limit:     limit,
	}
	if cmd.Flags().Changed("cursor-block") || cmd.Flags().Changed("cursor-index") {
		query.Cursor = &model.EventCursor{BlockNumber: cursorBlock, LogIndex: cursorIndex}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batch, err := gw.PullContestEvents(ctx, def.Contest, query)
	if err != nil {
		return err
	}

	logger.Info("events page",
		zap.Int("events", len(batch.Events)),
		zap.Uint64("latest_block", batch.LatestBlock))
	return printJSON(batch)
}
