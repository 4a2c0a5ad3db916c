package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"contestScope/internal/model"
)

func main() {
	root := &cobra.Command{
		Use:          "contestctl",
		Short:        "Contest planning developer tool",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview a registration or rebalance against a snapshot fixture",
		RunE:  runPlan,
	}

	planCmd.Flags().String("snapshot", "", "contest snapshot JSON path")
	planCmd.Flags().String("participant", "", "participant address")
	planCmd.Flags().String("sell", "", "sell asset (rebalance)")
	planCmd.Flags().String("buy", "", "buy asset (rebalance)")
	planCmd.Flags().String("amount", "", "trade amount (rebalance)")
	planCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(planCmd)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Page through a snapshot's contest events",
		RunE:  runEvents,
	}

	eventsCmd.Flags().String("snapshot", "", "contest snapshot JSON path")
	eventsCmd.Flags().Uint64("cursor-block", 0, "resume cursor block number")
	eventsCmd.Flags().Uint64("cursor-index", 0, "resume cursor log index")
	eventsCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	eventsCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means open-ended")
	eventsCmd.Flags().Int("limit", 100, "maximum events per page")
	eventsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(eventsCmd)

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank settled vault readings for a prize update",
		RunE:  runLeaderboard,
	}

	leaderboardCmd.Flags().String("in", "", "vault readings JSONL path")
	leaderboardCmd.Flags().Int("leaderboard-top", 10, "number of leaders to keep")
	leaderboardCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(leaderboardCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSnapshot reads a ContestDefinition fixture from disk.
func loadSnapshot(path string) (model.ContestDefinition, error) {
	if path == "" {
		return model.ContestDefinition{}, fmt.Errorf("snapshot path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ContestDefinition{}, fmt.Errorf("read snapshot: %w", err)
	}
	var def model.ContestDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return model.ContestDefinition{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return def, nil
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
