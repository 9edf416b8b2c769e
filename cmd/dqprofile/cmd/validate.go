package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dqprofile/internal/config"
	"github.com/dbsmedya/dqprofile/internal/database"
	"github.com/dbsmedya/dqprofile/internal/enrichment"
)

var errValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [mappings.yaml]...",
	Short: "Validate configuration and mapping files",
	Long: `Validate checks the configuration file and any mapping files given as
arguments.

Checks performed:
  - Configuration syntax and value ranges
  - Mapping file syntax and mapping consistency
  - Database connectivity (when the database is enabled)

Example:
  dqprofile validate --config dqprofile.yaml mappings.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("Threshold: %.2f, phone region: %s, workers: %d\n",
		cfg.Analysis.Threshold, cfg.Analysis.PhoneRegion, cfg.Processing.Workers)

	failed := false
	for _, path := range args {
		matching, err := enrichment.LoadMatching(path)
		if err == nil {
			err = matching.Validate()
		}
		if err != nil {
			cmd.Printf("❌ %s: %v\n", path, err)
			failed = true
			continue
		}
		cmd.Printf("✅ %s: %d mappings\n", path, len(matching.Mappings))
	}

	if cfg.Database.Enabled {
		ctx, stop := signalContext(log)
		defer stop()

		if err := checkDatabase(ctx, &cfg.Database); err != nil {
			cmd.Printf("❌ Database: %v\n", err)
			failed = true
		} else {
			cmd.Printf("✅ Database: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		}
	}

	if failed {
		return errValidationFailed
	}

	cmd.Println("=== Validation Complete ===")
	return nil
}

// checkDatabase connects to the report database and pings it without
// touching the schema.
func checkDatabase(ctx context.Context, cfg *config.DatabaseConfig) (err error) {
	manager := database.NewManager(cfg)
	if err := manager.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if closeErr := manager.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return manager.Ping(ctx)
}
