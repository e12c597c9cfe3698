package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradebook/internal/analysis"
	"tradebook/internal/config"
	"tradebook/internal/enrich"
	"tradebook/internal/logging"
	"tradebook/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies. Everything is constructed here and
// injected; nothing reaches for package-level state.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.TradeStore
	Enricher analysis.Enricher
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	tradeStore, err := store.NewSQLiteStore(cfg.Journal.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journal commands will be unavailable")
	} else {
		app.Store = tradeStore
		logger.Debug().Str("path", cfg.Journal.DatabasePath).Msg("SQLite store initialized")
	}

	if cfg.EnrichmentReady() {
		app.Enricher = enrich.NewClient(enrich.Config{
			APIKey:  cfg.Credentials.OpenAI.APIKey,
			Model:   cfg.Enrichment.Model,
			BaseURL: cfg.Enrichment.BaseURL,
			Timeout: cfg.Enrichment.Timeout,
		}, logger)
		logger.Debug().Str("model", cfg.Enrichment.Model).Msg("Enrichment client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradebook",
		Short: "Tradebook - personal trading journal with performance analysis",
		Long: `Tradebook is a personal trading journal for the command line.

Log trades with tags, ratings, and notes; import broker statements; and run
the offline performance analysis engine for grades, streaks, tag attribution,
and time-of-day attribution.

Use 'tradebook help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradebook)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addTradeCommands(rootCmd, app)
	addImportCommands(rootCmd, app)
	addAnalyzeCommand(rootCmd, app)
	addReportCommand(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("tradebook v%s\n", Version)
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

			output.Bold("Journal")
			output.Printf("  Database:        %s\n", app.Config.Journal.DatabasePath)
			output.Printf("  Currency:        %s\n", app.Config.Journal.Currency)
			output.Println()
			output.Bold("Analysis")
			output.Printf("  Min trades:      %d\n", app.Config.Analysis.MinTrades)
			output.Printf("  Grid hours:      %02d:00-%02d:00\n",
				app.Config.Analysis.GridStartHour, app.Config.Analysis.GridEndHour)
			output.Println()
			output.Bold("Enrichment")
			output.Printf("  Enabled:         %v\n", app.Config.Enrichment.Enabled)
			output.Printf("  Model:           %s\n", app.Config.Enrichment.Model)
			output.Printf("  Credentialed:    %v\n", app.Config.Credentials.OpenAI.APIKey != "")
			return nil
		},
	})

	return cmd
}

// analyzer builds an Analyzer from the app configuration.
func (app *App) analyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer(analysis.Options{
		MinTrades:     app.Config.Analysis.MinTrades,
		GridStartHour: app.Config.Analysis.GridStartHour,
		GridEndHour:   app.Config.Analysis.GridEndHour,
	}, app.Enricher, app.Logger)
}
