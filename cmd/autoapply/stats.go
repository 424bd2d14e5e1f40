package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/autoapply/internal/config"
	"github.com/jonathan/autoapply/internal/observability"
)

var (
	statsConfigPath string
	statsVisitDB    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show visit history totals",
	Long:  `Show how many applications the visit database records, broken down by outcome.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsConfigPath, "config", "", "Path to JSON configuration file")
	statsCmd.Flags().StringVar(&statsVisitDB, "visit-db", "", "Path to the SQLite visit database")
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if statsConfigPath != "" {
		loaded, err := config.LoadConfig(statsConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())
	if statsVisitDB != "" {
		cfg.VisitDB = statsVisitDB
	}

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintStats(stats)
	return nil
}
