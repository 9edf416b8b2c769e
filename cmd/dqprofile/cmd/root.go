package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/config"
	"github.com/dbsmedya/dqprofile/internal/database"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/report"
	"github.com/dbsmedya/dqprofile/internal/store"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "dqprofile.yaml"

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	threshold   float64
	phoneRegion string
	workers     int
	save        bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "dqprofile",
	Short: "CRM data quality profiler",
	Long: `A CLI tool that profiles tabular CRM exports for data quality and
measures how a cleaned export differs from its source.

Features:
  - Column type and format inference (url, email, phone, date, boolean, numbers)
  - Population analysis with empty and sparse field warnings
  - Row-level reconciliation of mapped source and export columns
  - Optional persistence of reports to MySQL`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0,
		"Override the type inference threshold (0 < t <= 1)")
	rootCmd.PersistentFlags().StringVar(&phoneRegion, "phone-region", "",
		"Override the default phone region (ISO 3166 code)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override the number of datasets processed concurrently")

	rootCmd.PersistentFlags().BoolVar(&save, "save", false,
		"Save reports to the configured database")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Threshold:   threshold,
		PhoneRegion: phoneRegion,
		Workers:     workers,
		Save:        save,
		NoColor:     noColor,
	}
}

// loadConfig reads the config file, applies flag overrides and validates
// the result. The default config file may be absent; an explicit one may not.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rootCmd.PersistentFlags().Changed("config") {
		cfg, err = config.Load(GetConfigFile())
	} else {
		cfg, err = config.LoadOptional(GetConfigFile())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the logger shared by the commands.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func classifierOptions(cfg *config.Config) classifier.Options {
	return classifier.Options{
		Threshold:   cfg.Analysis.Threshold,
		PhoneRegion: cfg.Analysis.PhoneRegion,
	}
}

func profileOptions(cfg *config.Config) report.Options {
	return report.Options{
		Classifier:      classifierOptions(cfg),
		SparseThreshold: cfg.Analysis.SparseThreshold,
	}
}

func readOptions(cfg *config.Config) table.ReadOptions {
	return table.ReadOptions{NullMarkers: cfg.Analysis.NullMarkers}
}

func newPrinter(cmd *cobra.Command, cfg *config.Config) *report.Printer {
	return report.NewPrinter(cmd.OutOrStdout(), cfg.Report.Color, cfg.Report.MaxColumnWidth)
}

// openStore connects to the report database and prepares its schema. The
// returned close function must be called when the store is no longer used.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store.Store, func(), error) {
	manager := database.NewManager(&cfg.Database)
	if err := manager.Connect(ctx); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := manager.Close(); err != nil {
			log.Warnf("Failed to close report database: %v", err)
		}
	}

	s, err := store.New(manager.DB, &cfg.Database, log)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return s, closeFn, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(log *logger.Logger) (context.Context, context.CancelFunc) {
	return database.WithShutdownSignal(context.Background(), func(sig os.Signal) {
		log.Warnf("Received %s, stopping", sig)
	})
}
