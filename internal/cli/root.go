// Package cli provides the command-line interface for the wave analysis
// application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wavescan/internal/cache"
	"wavescan/internal/config"
	"wavescan/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-23"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Cache  *cache.AnalysisCache
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Cache:  cache.New(cfg.Cache.Capacity, cfg.Cache.TTL),
	}

	rootCmd := &cobra.Command{
		Use:   "wavescan",
		Short: "Elliott Wave analysis for OHLC price data",
		Long: `Wavescan detects Elliott Wave patterns in OHLC bar series.

It extracts significant swing pivots, labels the swings between them with
impulse (1-5) and corrective (A-B-C) wave counts, and projects Fibonacci
retracement and extension targets for the next move.

Bar data is read from CSV files with timestamp, open, high, low and close
columns.

Use 'wavescan help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/wavescan)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)

	return rootCmd
}

// Execute builds the root command and runs it.
func Execute(cfg *config.Config, logger zerolog.Logger) error {
	return NewRootCmd(cfg, logger).Execute()
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Wavescan v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Analysis Configuration")
	output.Printf("  Threshold:          %.1f%%\n", cfg.Analysis.Threshold*100)
	output.Printf("  Intraday Threshold: %.1f%%\n", cfg.Analysis.IntradayThreshold*100)
	output.Printf("  Sample Limit:       %d bars\n", cfg.Analysis.SampleLimit)
	output.Printf("  Progress Chunk:     %d bars\n", cfg.Analysis.ProgressChunk)
	output.Println()

	output.Bold("Cache Configuration")
	output.Printf("  Capacity:           %d entries\n", cfg.Cache.Capacity)
	output.Printf("  TTL:                %s\n", cfg.Cache.TTL)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:              %s\n", cfg.Logging.Level)
	output.Printf("  Console:            %v\n", cfg.Logging.Console)
	output.Printf("  File:               %v\n", cfg.Logging.File)

	return nil
}
