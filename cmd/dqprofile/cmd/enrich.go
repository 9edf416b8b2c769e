package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dqprofile/internal/enrichment"
	"github.com/dbsmedya/dqprofile/internal/report"
	"github.com/dbsmedya/dqprofile/internal/table"
)

var (
	mappingsFile string
	reportName   string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file.csv>",
	Short: "Measure how an export changed its source columns",
	Long: `Enrich compares mapped source and export columns of one CSV row by row.

Columns are split into source and export sides by the markers in the
enrichment config section, for example "Email (crm)" and "Email (export)".
The mapping file lists which source column became which export column.

Each row of a mapping is counted as good, fixed, added, discarded or both
empty. The report shows the share of correct values before and after the
export, the inferred type and format count of both columns, and totals
across all mappings.

Example:
  dqprofile enrich merged.csv --mappings mappings.yaml
  dqprofile enrich merged.csv --mappings mappings.yaml --name "acme contacts" --save`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVarP(&mappingsFile, "mappings", "m", "",
		"YAML file of source to export column mappings (required)")
	enrichCmd.Flags().StringVar(&reportName, "name", "",
		"Report name used to derive the stored token (default: file name)")
	_ = enrichCmd.MarkFlagRequired("mappings")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signalContext(log)
	defer stop()

	path := args[0]
	name := reportName
	if name == "" {
		name = filepath.Base(path)
	}
	dlog := log.WithDataset(name)

	matching, err := enrichment.LoadMatching(mappingsFile)
	if err != nil {
		return err
	}
	if err := matching.Validate(); err != nil {
		return fmt.Errorf("invalid mappings in %s: %w", mappingsFile, err)
	}

	t, err := table.ReadCSVFile(path, readOptions(cfg))
	if err != nil {
		return err
	}

	source, destination := enrichment.SplitColumns(t.ColumnNames(),
		cfg.Enrichment.SourceMarker, cfg.Enrichment.DestinationMarker)
	dlog.Infof("Found %d source and %d export columns", len(source), len(destination))

	calc := enrichment.NewCalculator(classifierOptions(cfg), dlog)
	r := calc.Calculate(t, matching, source, destination)

	newPrinter(cmd, cfg).PrintEnrichment(r)

	if cfg.Database.Enabled {
		st, closeStore, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := st.SaveEnrichment(ctx, report.Token(name), r); err != nil {
			return err
		}
	}

	if err := r.Err(); err != nil {
		return fmt.Errorf("reconciliation failed for some mappings: %w", err)
	}
	return nil
}
