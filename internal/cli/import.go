package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/errors"
	"tradebook/internal/importer"
	"tradebook/internal/models"
)

// addImportCommands adds broker import commands.
func addImportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import broker exports",
		Long: `Import trades from broker export files.

Two formats are supported: HTML account statements and XLSX trade reports.
Rows that cannot be parsed are logged and skipped; the import fails only when
the file contains no recognizable trades at all.`,
	}

	cmd.AddCommand(newImportFileCmd(app, "statement", "Import an HTML account statement",
		func(im *importer.Importer, f *os.File) ([]models.Trade, error) {
			return im.ParseStatement(f)
		}))
	cmd.AddCommand(newImportFileCmd(app, "report", "Import an XLSX trade report",
		func(im *importer.Importer, f *os.File) ([]models.Trade, error) {
			return im.ParseReport(f)
		}))

	rootCmd.AddCommand(cmd)
}

func newImportFileCmd(app *App, format, short string,
	parse func(*importer.Importer, *os.File) ([]models.Trade, error)) *cobra.Command {

	cmd := &cobra.Command{
		Use:   format + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return errors.ErrDatabaseError
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")

			f, err := os.Open(args[0])
			if err != nil {
				output.Error("Failed to open file: %v", err)
				return err
			}
			defer f.Close()

			start := time.Now()
			trades, err := parse(importer.New(app.Logger), f)
			if err != nil {
				var importErr *errors.ImportError
				if errors.As(err, &importErr) {
					output.Error("Import failed: %s", importErr.Message)
				} else {
					output.Error("Import failed: %v", err)
				}
				return err
			}

			app.Logger.Info().Str("format", format).Str("file", args[0]).
				Int("trades", len(trades)).Dur("duration", time.Since(start)).
				Msg("Import parsed")

			if dryRun {
				output.Info("Dry run: %d trades parsed from %s, nothing saved.", len(trades), args[0])
				if output.IsJSON() {
					return output.JSON(trades)
				}
				renderImportPreview(output, trades)
				return nil
			}

			if err := app.Store.SaveTrades(ctx, trades); err != nil {
				output.Error("Failed to save imported trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"format":   format,
					"file":     args[0],
					"imported": len(trades),
				})
			}
			output.Success("✓ Imported %d trades from %s", len(trades), args[0])
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Parse and show trades without saving")
	return cmd
}

func renderImportPreview(output *Output, trades []models.Trade) {
	table := NewTable(output, "Date", "Time", "Pair", "Type", "P&L")
	for _, t := range trades {
		table.AddRow(t.Date, t.Time, t.Pair, string(t.Type), output.FormatPnL(t.PnL))
	}
	table.Render()
}
