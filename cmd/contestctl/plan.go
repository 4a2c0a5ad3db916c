package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contestScope/internal/config"
	"contestScope/internal/gateway"
	"contestScope/internal/metrics"
	"contestScope/internal/model"
)

func runPlan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	participant, _ := cmd.Flags().GetString("participant")
	sellAsset, _ := cmd.Flags().GetString("sell")
	buyAsset, _ := cmd.Flags().GetString("buy")
	amount, _ := cmd.Flags().GetString("amount")

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if participant == "" {
		return fmt.Errorf("participant address is required")
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A sell/buy pair switches the preview to a portfolio rebalance.
	if sellAsset != "" || buyAsset != "" {
		intent := model.RebalanceIntent{SellAsset: sellAsset, BuyAsset: buyAsset, Amount: amount}
		plan, err := gw.PlanPortfolioRebalance(ctx, def.Contest, participant, intent, nil)
		if err != nil {
			return err
		}
		logger.Info("rebalance plan",
			zap.String("participant", participant),
			zap.String("status", string(plan.Status)))
		return printJSON(plan)
	}

	plan, err := gw.PlanParticipantRegistration(ctx, def.Contest, participant, nil)
	if err != nil {
		return err
	}
	logger.Info("registration plan",
		zap.String("participant", participant),
		zap.String("status", string(plan.Status)))
	return printJSON(plan)
}
