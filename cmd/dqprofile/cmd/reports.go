package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List profiles saved to the database",
	Long: `Reports lists the profile reports saved with --save, newest first.
Reports whose save is still running are flagged. The database section of
the configuration must be filled in.

Example:
  dqprofile reports --config dqprofile.yaml`,
	Args: cobra.NoArgs,
	RunE: runReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Database.Enabled {
		return fmt.Errorf("database is not enabled; set database.enabled or pass --save")
	}

	ctx, stop := signalContext(log)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	summaries, err := st.ListReports(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No saved reports")
		return nil
	}

	printReports(ctx, cmd, summaries, st, log)
	return nil
}

// writeStatus tells whether a report is being written right now.
type writeStatus interface {
	IsWriting(ctx context.Context, token string) (bool, error)
}

func printReports(ctx context.Context, cmd *cobra.Command, summaries []store.ReportSummary, status writeStatus, log *logger.Logger) {
	for i, s := range summaries {
		cmd.Printf("%d. %s\n", i+1, s.Name)
		cmd.Printf("   Token:     %s\n", s.Token)
		cmd.Printf("   Generated: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("   Records:   %d\n", s.TotalRecords)
		cmd.Printf("   Issues:    %d of %d fields\n", s.FieldsWithIssues, s.TotalFields)

		writing, err := status.IsWriting(ctx, s.Token)
		if err != nil {
			log.WithDataset(s.Name).Warnf("Failed to check write lock: %v", err)
			continue
		}
		if writing {
			cmd.Printf("   Status:    writing in progress\n")
		}
	}
}
