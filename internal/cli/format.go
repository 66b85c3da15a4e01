// Package cli provides the command-line interface for the wave analysis
// application.
package cli

import (
	"fmt"

	"github.com/fatih/color"

	"wavescan/internal/models"
	"wavescan/pkg/utils"
)

// renderAnalysis prints the full analysis result: waves, patterns, current
// wave and Fibonacci targets.
func renderAnalysis(output *Output, app *App, result *models.AnalysisResult, barCount int, threshold float64) {
	output.Dim("%d bars, %.1f%% swing threshold", barCount, threshold*100)
	output.Println()

	output.Printf("Trend: %s\n", trendText(output, result.Trend))
	output.Println()

	if len(result.Waves) == 0 {
		output.Warning("No wave pattern detected")
		return
	}

	table := NewTable(output, "WAVE", "MODE", "START", "END", "CHANGE", "STATUS")
	for _, w := range result.Waves {
		table.AddRow(
			waveText(output, w),
			string(w.Mode),
			utils.FormatPrice(w.StartPrice),
			utils.FormatPrice(w.EndPrice),
			changeText(output, w),
			statusText(output, w),
		)
	}
	table.Render()
	output.Println()

	if result.CurrentWave != nil {
		output.Printf("Current wave: %s (%s, started %s)\n",
			waveText(output, *result.CurrentWave),
			result.CurrentWave.Mode,
			utils.FormatTimestamp(result.CurrentWave.StartTimestamp, app.Config.UI.TimeFormat))
	}
	if result.IsImpulsePattern {
		output.Success("✓ Completed impulse pattern (1-2-3-4-5)")
	}
	if result.IsCorrectivePattern {
		output.Success("✓ Completed corrective pattern (A-B-C)")
	}
	output.Println()

	if len(result.FibTargets) > 0 {
		color.Cyan("🎯 Fibonacci Targets")
		renderTargets(output, result.FibTargets)
	}
}

// renderPivots prints the detected pivot table.
func renderPivots(output *Output, app *App, pivots []models.Pivot, barCount int, threshold float64) {
	output.Dim("%d bars, %.1f%% swing threshold", barCount, threshold*100)
	output.Println()

	if len(pivots) == 0 {
		output.Warning("No pivots detected")
		return
	}

	table := NewTable(output, "#", "KIND", "PRICE", "BAR", "TIME")
	for i, p := range pivots {
		kind := output.Green("▲ PEAK")
		if p.Kind == models.PivotTrough {
			kind = output.Red("▼ TROUGH")
		}
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			kind,
			utils.FormatPrice(p.Price),
			fmt.Sprintf("%d", p.Index),
			utils.FormatTimestamp(p.Timestamp, app.Config.UI.TimeFormat),
		)
	}
	table.Render()
	output.Println()
	output.Printf("%d pivots detected\n", len(pivots))
}

// renderTargets prints the Fibonacci target table.
func renderTargets(output *Output, targets []models.FibTarget) {
	table := NewTable(output, "LEVEL", "TYPE", "PRICE")
	for _, t := range targets {
		kind := "Retracement"
		if t.IsExtension {
			kind = output.Yellow("Extension")
		}
		table.AddRow(t.Label, kind, utils.FormatPrice(t.Price))
	}
	table.Render()
}

func trendText(output *Output, trend models.Trend) string {
	switch trend {
	case models.TrendBullish:
		return output.Green("▲ BULLISH")
	case models.TrendBearish:
		return output.Red("▼ BEARISH")
	default:
		return output.Yellow("→ NEUTRAL")
	}
}

func waveText(output *Output, w models.Wave) string {
	label := "Wave " + w.Label.String()
	if w.Mode == models.ModeImpulse {
		return output.Green(label)
	}
	return output.Yellow(label)
}

func changeText(output *Output, w models.Wave) string {
	if w.StartPrice == 0 {
		return "-"
	}
	pct := (w.EndPrice - w.StartPrice) / w.StartPrice * 100
	text := utils.FormatPercent(pct)
	if pct > 0 {
		return output.Green(text)
	}
	if pct < 0 {
		return output.Red(text)
	}
	return text
}

func statusText(output *Output, w models.Wave) string {
	if w.IsComplete {
		return "complete"
	}
	return output.Yellow("forming")
}
