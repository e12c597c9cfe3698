package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// addTradeCommands adds trade journal commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade journal management",
		Long:  "Log, list, update, and delete journaled trades.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeUpdateCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new trade",
		Long:  "Log a completed trade with P&L, tags, rating, and notes.",
		Example: `  tradebook trade add --pair EURUSD --pnl 125.50 --date 2024-03-15 --time 09:30
  tradebook trade add --pair BTCUSD --pnl -80 --type short --tag strategy:Breakout --tag emotions:FOMO`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trade, err := tradeFromFlags(cmd, &models.Trade{
				ID:   uuid.NewString(),
				Tags: models.TagSet{},
			})
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if trade.Pair == "" {
				err := errors.NewValidationError("pair", "", "an instrument symbol is required")
				output.Error("%v", err)
				return err
			}
			if trade.Date == "" {
				trade.Date = FormatDate(time.Now())
			}

			if err := app.Store.SaveTrade(ctx, trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			logging.LogTradeSaved(app.Logger, trade.ID, trade.Pair, trade.PnL)
			output.Success("✓ Trade %s logged: %s %s", trade.ID[:8], trade.Pair, output.FormatPnL(trade.PnL))
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades",
		Example: `  tradebook trade list --pair EURUSD
  tradebook trade list --from 2024-01-01 --to 2024-03-31
  tradebook trade list --tag strategy:Breakout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			pair, _ := cmd.Flags().GetString("pair")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			tag, _ := cmd.Flags().GetString("tag")
			limit, _ := cmd.Flags().GetInt("limit")

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{
				Pair:      pair,
				StartDate: from,
				EndDate:   to,
				Tag:       tag,
				Limit:     limit,
			})
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			var totalPnL float64
			table := NewTable(output, "ID", "Date", "Time", "Pair", "Type", "P&L", "Rating", "Tags")
			for _, t := range trades {
				totalPnL += t.PnL
				table.AddRow(
					t.ID[:8],
					t.Date,
					t.Time,
					t.Pair,
					string(t.Type),
					output.FormatPnL(t.PnL),
					formatStars(t.Rating),
					TruncateString(joinTags(t.Tags), 40),
				)
			}
			table.Render()

			output.Println()
			output.Printf("  %d trades, net %s\n", len(trades), output.FormatPnL(totalPnL))
			return nil
		},
	}

	cmd.Flags().String("pair", "", "Filter by instrument symbol")
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().String("tag", "", "Filter by tag (category:value)")
	cmd.Flags().Int("limit", 100, "Maximum number of trades")
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show a single trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trade, err := app.Store.GetTradeByID(ctx, args[0])
			if err != nil {
				output.Error("Failed to fetch trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Bold("Trade %s", trade.ID)
			output.Printf("  Date:    %s %s\n", trade.Date, trade.Time)
			output.Printf("  Pair:    %s\n", trade.Pair)
			output.Printf("  Type:    %s\n", trade.Type)
			output.Printf("  P&L:     %s\n", output.FormatPnL(trade.PnL))
			output.Printf("  Rating:  %s\n", formatStars(trade.Rating))
			if tags := joinTags(trade.Tags); tags != "" {
				output.Printf("  Tags:    %s\n", tags)
			}
			if trade.Notes != "" {
				output.Printf("  Notes:   %s\n", trade.Notes)
			}
			if len(trade.Photos) > 0 {
				output.Printf("  Photos:  %d attached\n", len(trade.Photos))
			}
			return nil
		},
	}
}

func newTradeUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <trade-id>",
		Short: "Update a trade",
		Long:  "Update a trade. The stored record is replaced wholesale with the merged result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			trade, err := app.Store.GetTradeByID(ctx, args[0])
			if err != nil {
				output.Error("Failed to fetch trade: %v", err)
				return err
			}

			trade, err = tradeFromFlags(cmd, trade)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}

			output.Success("✓ Trade %s updated", trade.ID[:8])
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			if err := app.Store.DeleteTrade(ctx, args[0]); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}

			output.Success("✓ Trade deleted")
			return nil
		},
	}
}

// addTradeFlags registers the shared trade field flags.
func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("pair", "", "Instrument symbol (e.g. EURUSD)")
	cmd.Flags().Float64("pnl", 0, "Profit or loss, signed")
	cmd.Flags().String("date", "", "Trade date (YYYY-MM-DD, default today)")
	cmd.Flags().String("time", "", "Trade time (HH:MM)")
	cmd.Flags().String("type", "", "Trade direction: long or short")
	cmd.Flags().Int("rating", 0, "Execution rating (1-5)")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().StringArray("tag", nil, "Tag as category:value (repeatable)")
}

// tradeFromFlags applies set flags onto the trade and validates them.
func tradeFromFlags(cmd *cobra.Command, trade *models.Trade) (*models.Trade, error) {
	if cmd.Flags().Changed("pair") {
		pair, _ := cmd.Flags().GetString("pair")
		trade.Pair = models.NormalizePair(pair)
	}
	if cmd.Flags().Changed("pnl") {
		trade.PnL, _ = cmd.Flags().GetFloat64("pnl")
	}
	if cmd.Flags().Changed("date") {
		date, _ := cmd.Flags().GetString("date")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, errors.NewValidationError("date", date, "expected YYYY-MM-DD")
		}
		trade.Date = date
	}
	if cmd.Flags().Changed("time") {
		clock, _ := cmd.Flags().GetString("time")
		parsed, err := time.Parse("15:04", clock)
		if err != nil {
			return nil, errors.NewValidationError("time", clock, "expected HH:MM")
		}
		// time.Parse accepts "8:30"; store the zero-padded form so the
		// composite date+time key collates correctly.
		trade.Time = parsed.Format("15:04")
	}
	if cmd.Flags().Changed("type") {
		direction, _ := cmd.Flags().GetString("type")
		switch models.TradeType(direction) {
		case models.TradeLong, models.TradeShort:
			trade.Type = models.TradeType(direction)
		default:
			return nil, errors.NewValidationError("type", direction, "expected long or short")
		}
	}
	if cmd.Flags().Changed("rating") {
		rating, _ := cmd.Flags().GetInt("rating")
		if rating < 1 || rating > 5 {
			return nil, errors.NewValidationError("rating", rating, "expected 1-5")
		}
		trade.Rating = rating
	}
	if cmd.Flags().Changed("notes") {
		trade.Notes, _ = cmd.Flags().GetString("notes")
	}
	if cmd.Flags().Changed("tag") {
		tags, _ := cmd.Flags().GetStringArray("tag")
		for _, raw := range tags {
			category, value := models.ParseTagKey(raw)
			trade.Tags.Set(category, value)
		}
	}
	return trade, nil
}

// joinTags renders the flattened tag keys for display.
func joinTags(tags models.TagSet) string {
	keys := tags.Flatten()
	if len(keys) == 0 {
		return ""
	}
	out := keys[0]
	for _, k := range keys[1:] {
		out = fmt.Sprintf("%s, %s", out, k)
	}
	return out
}
