// Package cli provides the command-line interface for the wave analysis
// application.
package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wavescan/internal/analysis/elliott"
	"wavescan/internal/models"
)

// addAnalysisCommands adds wave analysis commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newPivotsCmd(app))
	rootCmd.AddCommand(newTargetsCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <csv-file>",
		Short: "Detect Elliott Wave patterns in a bar series",
		Long: `Run the full wave analysis pipeline over an OHLC CSV file:
- Swing pivot extraction
- Elliott Wave labeling (impulse 1-5, corrective A-B-C)
- Fibonacci retracement and extension targets
- Trend and pattern-completion summary`,
		Example: `  wavescan analyze nifty_daily.csv
  wavescan analyze btc_1h.csv --threshold 0.03
  wavescan analyze reliance_5min.csv --intraday --symbol RELIANCE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			threshold, _ := cmd.Flags().GetFloat64("threshold")
			intraday, _ := cmd.Flags().GetBool("intraday")
			symbol, _ := cmd.Flags().GetString("symbol")

			if !cmd.Flags().Changed("threshold") {
				threshold = app.Config.Analysis.Threshold
				if intraday {
					threshold = app.Config.Analysis.IntradayThreshold
				}
			}

			bars, err := LoadBars(args[0])
			if err != nil {
				output.Error("Failed to load bars: %v", err)
				return err
			}

			logger := app.Logger
			if symbol != "" {
				logger = logger.With().Str("symbol", symbol).Logger()
			}

			analyzer := elliott.NewAnalyzer(elliott.AnalyzerConfig{
				Threshold:     threshold,
				SampleLimit:   app.Config.Analysis.SampleLimit,
				ProgressChunk: app.Config.Analysis.ProgressChunk,
			}, app.Cache, logger)

			if !output.IsJSON() {
				analyzer.OnProgress(func(processed, total int, _ []models.Wave) {
					output.Progress(processed, total, "Analyzing")
				})
			}

			result, err := analyzer.Analyze(ctx, bars)
			if err != nil {
				output.Error("Analysis failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			name := symbol
			if name == "" {
				name = args[0]
			}
			color.Cyan("🌊 Elliott Wave Analysis - %s", name)
			renderAnalysis(output, app, result, len(bars), threshold)
			return nil
		},
	}

	cmd.Flags().Float64("threshold", 0.05, "swing threshold as a fraction (0.05 = 5%)")
	cmd.Flags().Bool("intraday", false, "use the more sensitive intraday threshold")
	cmd.Flags().String("symbol", "", "symbol name for display and logging")
	return cmd
}

func newPivotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivots <csv-file>",
		Short: "Show the swing pivots detected in a bar series",
		Example: `  wavescan pivots nifty_daily.csv
  wavescan pivots btc_1h.csv --threshold 0.03`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			threshold, _ := cmd.Flags().GetFloat64("threshold")
			if !cmd.Flags().Changed("threshold") {
				threshold = app.Config.Analysis.Threshold
			}

			bars, err := LoadBars(args[0])
			if err != nil {
				output.Error("Failed to load bars: %v", err)
				return err
			}

			pivots := elliott.FindPivots(bars, threshold)
			if output.IsJSON() {
				return output.JSON(pivots)
			}

			color.Cyan("📍 Swing Pivots - %s", args[0])
			renderPivots(output, app, pivots, len(bars), threshold)
			return nil
		},
	}

	cmd.Flags().Float64("threshold", 0.05, "swing threshold as a fraction (0.05 = 5%)")
	return cmd
}

func newTargetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "targets <start-price> <end-price>",
		Short: "Fibonacci retracement and extension targets for a swing",
		Long: `Project the standard Fibonacci price levels for a swing from
<start-price> to <end-price>: retracements back into the swing and
extensions beyond its endpoint.`,
		Example: `  wavescan targets 100 150
  wavescan targets 22500 21800`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			start, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				output.Error("Invalid start price: %v", err)
				return err
			}
			end, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				output.Error("Invalid end price: %v", err)
				return err
			}

			targets := append(elliott.Retracements(start, end), elliott.Extensions(start, end)...)
			if output.IsJSON() {
				return output.JSON(targets)
			}

			color.Cyan("🎯 Fibonacci Targets - swing %s → %s", args[0], args[1])
			renderTargets(output, targets)
			return nil
		},
	}
}
