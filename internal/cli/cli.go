package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rickpr/data-covid19-sfbayarea/internal/config"
	"github.com/rickpr/data-covid19-sfbayarea/internal/county"
	"github.com/rickpr/data-covid19-sfbayarea/internal/logger"
	"github.com/rickpr/data-covid19-sfbayarea/internal/notifier"
	"github.com/rickpr/data-covid19-sfbayarea/internal/pipeline"
	"github.com/rickpr/data-covid19-sfbayarea/internal/scraper"
	"github.com/rickpr/data-covid19-sfbayarea/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagNotify  string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covid-scraper <county>",
		Short: "Append today's COVID-19 totals for a Bay Area county",
		Long: `Fetches a county public health page, extracts total cases, total deaths and the
page's update time, computes the daily change against the last stored row and
appends one row to the county's CSV history.`,
		Example:       "  covid-scraper san-francisco\n  covid-scraper --config scraper.yaml --format json san-francisco",
		Args:          cobra.ExactArgs(1),
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Directory county data paths are relative to (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagNotify, "notify", "none", "Announce the new row: none, dry-run or twitter")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Build the new row without writing the table")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and run metrics")

	cmd.AddCommand(newCountiesCmd())

	return cmd
}

// newCountiesCmd lists registered counties
func newCountiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counties",
		Short: "List configured counties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			return writeCounties(cmd.OutOrStdout(), reg)
		},
	}
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	notify, err := notifier.New(flagNotify)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	rec, err := reg.Lookup(key)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir, cfg.AtomicWrite)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	p := pipeline.New(scraper.New(cfg.Timeout, cfg.UserAgent), store, pipeline.Options{
		State:  cfg.State,
		DryRun: flagDryRun,
	})

	result, err := p.Run(cmd.Context(), rec)
	if err != nil {
		return err
	}

	if flagVerbose {
		logger.Debug("Run metrics", logger.GetMetricsSnapshot())
	}

	out := &OutputResult{
		ScrapedAt: time.Now().UTC(),
		Result:    result,
	}
	if err := WriteOutput(cmd.OutOrStdout(), out, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if notify != nil && result.Saved {
		if err := notify.Notify(notifier.Update{CountyKey: rec.Key, Row: result.Row}); err != nil {
			return fmt.Errorf("notifying: %w", err)
		}
	}

	return nil
}

// loadRegistry returns the built-in registry with config overrides applied
func loadRegistry(cfg *config.Config) (*county.Registry, error) {
	reg := county.Default()
	for key, o := range cfg.Counties {
		if err := reg.Override(key, o.URL, o.DataPath); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return reg, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
