package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "raffle",
		Short:        "Token holder raffle",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch holder balances into the store",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("source", "covalent", "holder source (covalent, chain)")
	fetchCmd.Flags().String("api-key", "", "GoldRush API key")
	fetchCmd.Flags().String("api-url", "https://api.covalenthq.com", "GoldRush API base URL")
	fetchCmd.Flags().String("chain-name", "base-mainnet", "GoldRush chain name")
	fetchCmd.Flags().String("block", "latest", "snapshot block height (latest or a number)")
	fetchCmd.Flags().Int("page-size", 1000, "holders per API page")
	fetchCmd.Flags().String("rpc", "", "RPC URL (chain source)")
	fetchCmd.Flags().Uint64("from", 0, "first block to scan for transfers (chain source)")
	fetchCmd.Flags().Uint64("batch-size", 2000, "blocks per log query (chain source)")
	fetchCmd.Flags().StringSlice("token", nil, "tokens as symbol=address[:decimals] (comma-separated)")
	addStoreFlags(fetchCmd)
	fetchCmd.Flags().String("snapshot", "", "optional JSONL snapshot of fetched rows (.zst for zstd)")
	fetchCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	fetchCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	fetchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	fetchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchCmd)

	drawCmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw weighted winners from stored holders",
		RunE:  runDraw,
	}

	drawCmd.Flags().Int("winners", 100, "number of winners")
	drawCmd.Flags().StringSlice("exclude", nil, "addresses excluded from the draw (comma-separated)")
	drawCmd.Flags().Int64("seed", 0, "random seed for a reproducible draw, 0 uses crypto/rand")
	drawCmd.Flags().StringSlice("token", nil, "tokens as symbol=address[:decimals] (comma-separated)")
	addStoreFlags(drawCmd)
	drawCmd.Flags().Int("page-size", 1000, "holders read per store page")
	drawCmd.Flags().Uint8("decimals", 18, "decimals used to display totals")
	drawCmd.Flags().Int("precision", 0, "fraction digits in displayed amounts, 0 truncates")
	drawCmd.Flags().String("format", "table", "output format (table, csv, jsonl)")
	drawCmd.Flags().String("out", "", "output path, stdout when empty")
	drawCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(drawCmd)

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete stored holder balances and the fetch checkpoint",
		RunE:  runClean,
	}

	addStoreFlags(cleanCmd)
	cleanCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	cleanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(cleanCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "pebble", "holder store (pebble, postgres)")
	cmd.Flags().String("db-path", "./data/holders.db", "pebble database directory")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
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
