package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contestScope/internal/config"
	"contestScope/internal/deploy"
	"contestScope/internal/model"
)

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	inPath, _ := cmd.Flags().GetString("in")

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if inPath == "" {
		return fmt.Errorf("input path is required")
	}

	inputFile, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	var readings []model.VaultReading
	scanner := bufio.NewScanner(inputFile)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var reading model.VaultReading
		if err := json.Unmarshal(line, &reading); err != nil {
			return fmt.Errorf("parse reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	entries := deploy.ComputeLeaderboardUpdates(readings, cfg.LeaderboardTop)

	logger.Info("leaderboard computed",
		zap.Int("readings", len(readings)),
		zap.Int("leaders", len(entries)))
	return printJSON(entries)
}
