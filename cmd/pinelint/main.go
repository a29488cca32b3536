// Package main implements the pinelint CLI entry point and global state.
// Subcommands live in the other cmd_*.go files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pinelint/internal/config"
	"pinelint/internal/logging"
)

var (
	verbose    bool
	workspace  string
	format     string
	timeout    time.Duration
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pinelint",
	Short: "pinelint - static analysis for Pine Script v6",
	Long: `pinelint lexes, parses, and validates Pine Script v6 source against a
closed catalog of diagnostic rules, and serves a small reference lookup
index over the built-in function documentation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		} else if abs, err := filepath.Abs(ws); err == nil {
			ws = abs
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		path := configPath
		if path == "" {
			path = filepath.Join(ws, "pinelint.yaml")
		}
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		if !cmd.Flags().Changed("timeout") {
			timeout = cfg.WallClock()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace root (defaults to cwd)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "output format: json, markdown, or text")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Second, "wall-clock review budget")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to pinelint.yaml (defaults to <workspace>/pinelint.yaml if present)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
