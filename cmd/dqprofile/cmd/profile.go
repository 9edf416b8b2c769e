package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/dqprofile/internal/config"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/report"
	"github.com/dbsmedya/dqprofile/internal/store"
	"github.com/dbsmedya/dqprofile/internal/table"
)

var warningsFile string

var profileCmd = &cobra.Command{
	Use:   "profile <file.csv>...",
	Short: "Profile CSV datasets for data quality",
	Long: `Profile infers the type and format consistency of every column,
measures how well each column is populated and reports field warnings and
dataset-wide issues.

Datasets are processed concurrently (processing.workers). A dataset that
fails to load or profile is reported without stopping the others.

Example:
  dqprofile profile contacts.csv deals.csv --save
  dqprofile profile contacts.csv --warnings review.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&warningsFile, "warnings", "",
		"YAML file of additional per-column warnings")
	rootCmd.AddCommand(profileCmd)
}

// profileResult is the outcome of one dataset.
type profileResult struct {
	path   string
	report *report.ProfileReport
	err    error
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signalContext(log)
	defer stop()

	var source report.WarningSource
	if warningsFile != "" {
		wf, err := report.LoadWarningFile(warningsFile)
		if err != nil {
			return err
		}
		source = wf
	}

	var st *store.Store
	if cfg.Database.Enabled {
		s, closeStore, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()
		st = s
	}

	results := profileDatasets(ctx, cfg, log, source, st, args)

	printer := newPrinter(cmd, cfg)
	var errs error
	for _, r := range results {
		if r.err != nil {
			cmd.PrintErrf("%s: %v\n", r.path, r.err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.path, r.err))
			continue
		}
		printer.PrintProfile(r.report)
	}

	if errs != nil {
		return fmt.Errorf("%d of %d datasets failed: %w", len(multierr.Errors(errs)), len(args), errs)
	}
	return nil
}

// profileDatasets profiles every path with at most cfg.Processing.Workers
// datasets in flight. Results keep the order of paths.
func profileDatasets(ctx context.Context, cfg *config.Config, log *logger.Logger, source report.WarningSource, st *store.Store, paths []string) []profileResult {
	results := make([]profileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(cfg.Processing.Workers)

	for i, path := range paths {
		i, path := i, path
		results[i].path = path
		g.Go(func() error {
			r, err := profileDataset(ctx, cfg, log, source, path)
			if err == nil && st != nil {
				err = st.SaveProfile(ctx, r)
			}
			results[i].report, results[i].err = r, err
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func profileDataset(ctx context.Context, cfg *config.Config, log *logger.Logger, source report.WarningSource, path string) (*report.ProfileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	dlog := log.WithDataset(name)

	t, err := table.ReadCSVFile(path, readOptions(cfg))
	if err != nil {
		return nil, err
	}
	dlog.Infof("Loaded %d rows, %d columns", t.RowCount(), t.ColumnCount())

	r, err := report.NewBuilder(profileOptions(cfg), source, dlog).Build(ctx, name, t)
	if err != nil {
		return nil, err
	}
	dlog.Infof("Profile complete: %d of %d fields with issues, %d warnings",
		r.FieldsWithIssues, r.TotalFields, r.WarningCount())
	return r, nil
}
