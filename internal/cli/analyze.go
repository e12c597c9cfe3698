package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// addAnalyzeCommand adds the performance analysis command.
func addAnalyzeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the performance analysis engine",
		Long: `Run the offline performance analysis engine over the journal.

Produces a letter grade, key metrics, tag attribution, and actionable
insights. When enrichment is configured, an external model contributes
narrative commentary; the numbers always come from the offline engine.`,
		Example: `  tradebook analyze
  tradebook analyze --pair EURUSD
  tradebook analyze --from 2024-01-01 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			pair, _ := cmd.Flags().GetString("pair")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{
				Pair:      pair,
				StartDate: from,
				EndDate:   to,
			})
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			start := time.Now()
			result, err := app.analyzer().Analyze(ctx, trades)
			if err != nil {
				if errors.Is(err, errors.ErrNotEnoughTrades) {
					output.Warning("Not enough trades to analyze (have %d, need %d). Log more trades and try again.",
						len(trades), app.Config.Analysis.MinTrades)
					return err
				}
				output.Error("Analysis failed: %v", err)
				return err
			}
			logging.LogAnalysis(app.Logger, len(trades), result.PerformanceGrade.Grade, time.Since(start))

			if output.IsJSON() {
				return output.JSON(result)
			}

			renderAnalysis(output, result)
			return nil
		},
	}

	cmd.Flags().String("pair", "", "Restrict analysis to one instrument")
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	rootCmd.AddCommand(cmd)
}

func renderAnalysis(output *Output, result *models.AnalysisResult) {
	m := result.KeyMetrics

	output.Println()
	output.Bold("═══ Performance Analysis ═══")
	output.Println()
	output.Printf("  Grade: %s — %s\n", gradeColored(output, result.PerformanceGrade.Grade),
		result.PerformanceGrade.Summary)
	output.Println()
	output.Printf("  %s\n", result.OverallSummary)
	output.Println()

	output.Bold("Key Metrics")
	output.Printf("  Trades:        %d\n", m.TradeCount)
	output.Printf("  Net P&L:       %s\n", output.FormatPnL(m.TotalPnL))
	output.Printf("  Win rate:      %.1f%%\n", m.WinRate)
	output.Printf("  Profit factor: %s\n", formatProfitFactor(m.ProfitFactor))
	output.Printf("  Avg win:       %s\n", output.FormatPnL(m.AvgWin))
	output.Printf("  Avg loss:      %s\n", output.FormatPnL(m.AvgLoss))
	output.Printf("  Consistency:   %d/10\n", m.ConsistencyScore)
	output.Println()

	if len(result.Strengths) > 0 {
		output.Bold("Strengths")
		for _, s := range result.Strengths {
			output.Printf("  %s %s\n", output.Green("+"), s)
		}
		output.Println()
	}
	if len(result.Weaknesses) > 0 {
		output.Bold("Weaknesses")
		for _, w := range result.Weaknesses {
			output.Printf("  %s %s\n", output.Red("-"), w)
		}
		output.Println()
	}

	renderTagPerformance(output, result.TagPerformance)

	if len(result.ActionableInsights) > 0 {
		output.Bold("Actionable Insights")
		for _, insight := range result.ActionableInsights {
			output.Printf("  [%s] %s\n", insight.Topic, insight.Pattern)
			output.Dim("         → %s", insight.Recommendation)
		}
		output.Println()
	}

	if len(result.KeyObservations) > 0 {
		output.Bold("Observations")
		for _, obs := range result.KeyObservations {
			output.Printf("  • %s\n", obs.Text)
		}
		output.Println()
	}
}

func renderTagPerformance(output *Output, perf models.TagPerformance) {
	if len(perf.Profitable) > 0 {
		output.Bold("Top Profitable Tags")
		table := NewTable(output, "Tag", "P&L", "Trades", "Win Rate")
		for _, stat := range perf.Profitable {
			table.AddRow(stat.Tag, output.FormatPnL(stat.TotalPnL),
				strconv.Itoa(stat.TradeCount), output.FormatPercent(stat.WinRate))
		}
		table.Render()
		output.Println()
	}
	if len(perf.Unprofitable) > 0 {
		output.Bold("Top Unprofitable Tags")
		table := NewTable(output, "Tag", "P&L", "Trades", "Win Rate")
		for _, stat := range perf.Unprofitable {
			table.AddRow(stat.Tag, output.FormatPnL(stat.TotalPnL),
				strconv.Itoa(stat.TradeCount), output.FormatPercent(stat.WinRate))
		}
		table.Render()
		output.Println()
	}
}

func gradeColored(output *Output, grade string) string {
	switch grade {
	case "A":
		return output.Green(grade)
	case "B":
		return output.ColoredString(ColorCyan, grade)
	case "C":
		return output.Yellow(grade)
	default:
		return output.Red(grade)
	}
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}

