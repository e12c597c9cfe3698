package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/analysis"
	"tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// addReportCommand adds the timing and streak report commands.
func addReportCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Timing and streak reports",
		Long:  "Report on streaks, hourly performance, named session windows, and the weekday grid.",
	}

	cmd.AddCommand(newReportStreakCmd(app))
	cmd.AddCommand(newReportHoursCmd(app))
	cmd.AddCommand(newReportWindowsCmd(app))
	cmd.AddCommand(newReportGridCmd(app))

	rootCmd.AddCommand(cmd)
}

// fetchTrades applies the shared report filter flags and loads trades.
func fetchTrades(ctx context.Context, cmd *cobra.Command, app *App) ([]models.Trade, error) {
	pair, _ := cmd.Flags().GetString("pair")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	return app.Store.GetTrades(ctx, store.TradeFilter{
		Pair:      pair,
		StartDate: from,
		EndDate:   to,
	})
}

func addReportFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("pair", "", "Restrict to one instrument")
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
}

func newReportStreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the current win or loss streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trades, err := fetchTrades(ctx, cmd, app)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			streak := analysis.DetectStreak(trades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"streak":     streak,
					"highImpact": analysis.HighImpact(streak),
				})
			}

			if streak == nil {
				output.Info("No active streak.")
				return nil
			}

			if streak.Type == models.StreakWin {
				output.Success("On a %d-trade winning streak.", streak.Length)
				if analysis.HighImpact(streak) {
					output.Warning("Long winning runs breed overconfidence. Keep position sizes where they were.")
				}
			} else {
				output.Error("On a %d-trade losing streak.", streak.Length)
				if analysis.HighImpact(streak) {
					output.Warning("This run is long enough to matter. Step back before the next trade.")
				}
			}
			return nil
		},
	}

	addReportFilterFlags(cmd)
	return cmd
}

func newReportHoursCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Hour-of-day performance and the golden hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trades, err := fetchTrades(ctx, cmd, app)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			buckets := analysis.HourlyBuckets(trades)
			golden := analysis.GoldenHour(trades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"hours":      buckets,
					"goldenHour": golden,
				})
			}

			if len(buckets) == 0 {
				output.Info("No timed trades to report on.")
				return nil
			}

			table := NewTable(output, "Hour", "Trades", "P&L", "Avg P&L")
			for _, b := range buckets {
				table.AddRow(
					fmt.Sprintf("%02d:00", b.Hour),
					strconv.Itoa(b.Count),
					output.FormatPnL(b.PnL),
					output.FormatPnL(b.AvgPnL()),
				)
			}
			table.Render()
			output.Println()

			if golden != nil {
				output.Success("Golden hour: %02d:00-%02d:00 averaging %s per trade over %d trades.",
					golden.Hour, golden.Hour+1, output.FormatPnL(golden.AvgPnL()), golden.Count)
			} else {
				output.Info("No golden hour yet; no hour has enough profitable history.")
			}
			return nil
		},
	}

	addReportFilterFlags(cmd)
	return cmd
}

func newReportWindowsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Named session window performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trades, err := fetchTrades(ctx, cmd, app)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			stats := analysis.WindowStats(trades, analysis.DefaultWindows)
			best := analysis.BestWindow(stats)
			worst := analysis.WorstWindow(stats, best)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"windows": stats,
					"best":    best,
					"worst":   worst,
				})
			}

			table := NewTable(output, "Window", "Hours", "Trades", "P&L", "Win Rate")
			for _, s := range stats {
				table.AddRow(
					s.Window.Name,
					s.Window.Start+"-"+s.Window.End,
					strconv.Itoa(s.Count),
					output.FormatPnL(s.PnL),
					output.FormatPercent(s.WinRate),
				)
			}
			table.Render()
			output.Println()

			if best != nil {
				output.Success("Best window: %s (%.0f%% win rate, %s).",
					best.Window.Name, best.WinRate, output.FormatPnL(best.PnL))
			}
			if worst != nil {
				output.Error("Worst window: %s (%.0f%% win rate, %s).",
					worst.Window.Name, worst.WinRate, output.FormatPnL(worst.PnL))
			}
			return nil
		},
	}

	addReportFilterFlags(cmd)
	return cmd
}

func newReportGridCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Weekday-by-hour performance grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trades, err := fetchTrades(ctx, cmd, app)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			cells := analysis.WeekdayHourGrid(trades,
				app.Config.Analysis.GridStartHour, app.Config.Analysis.GridEndHour)

			if output.IsJSON() {
				return output.JSON(cells)
			}

			if len(cells) == 0 {
				output.Info("No timed weekday trades within the grid hours.")
				return nil
			}

			table := NewTable(output, "Day", "Hour", "Trades", "P&L")
			for _, c := range cells {
				table.AddRow(
					c.Weekday.String()[:3],
					fmt.Sprintf("%02d:00", c.Hour),
					strconv.Itoa(c.Count),
					output.FormatPnL(c.PnL),
				)
			}
			table.Render()
			return nil
		},
	}

	addReportFilterFlags(cmd)
	return cmd
}
