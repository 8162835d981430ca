package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracker/internal/config"
	"tracker/internal/logging"
	"tracker/internal/storage"
	"tracker/internal/tasks"
	"tracker/internal/ui"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "tracker",
	Short:        "A categorized task list with progress tracking",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: $"+config.EnvConfigPath+" or the user config dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, cleanup, err := logging.Setup(cfg.LogPath, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			fmt.Fprintf(os.Stderr, "closing log file: %v\n", cerr)
		}
	}()
	logger.Info("starting tracker", "config", configPath, "first_launch", firstLaunch, "db", cfg.DBPath)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if saved, ok, err := store.UpdatedAt(cfg.StorageKey); err != nil {
		logger.Warn("reading snapshot timestamp", "key", cfg.StorageKey, "error", err)
	} else if ok {
		logger.Info("found snapshot", "key", cfg.StorageKey, "saved_at", saved)
	}

	snapshot := tasks.NewSnapshot(store, cfg.StorageKey, logger)
	if err := ui.Run(snapshot, cfg); err != nil {
		logger.Error("tracker stopped", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("tracker exited")
	return nil
}
