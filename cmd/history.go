package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/onepage-tailor/pkg/config"
	"github.com/nikogura/onepage-tailor/pkg/history"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var csvPath string

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export the application log",
	Long: `List past tailoring runs recorded in the output directory, or export them as CSV.

Example:
  onepage-tailor history
  onepage-tailor history --csv applications.csv
  onepage-tailor history --csv -`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&csvPath, "csv", "", "Export as CSV to this file ('-' for stdout)")
	historyCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) (err error) {
	dir := outputDir
	if dir == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			err = errors.Wrap(err, "failed to load config")
			return err
		}
		dir = cfg.Defaults.OutputDir
	}

	var store *history.Store
	store, err = history.NewStore(dir)
	if err != nil {
		return err
	}

	var records []history.Record
	records, err = store.List()
	if err != nil {
		return err
	}

	if csvPath != "" {
		err = exportHistory(records)
		return err
	}

	if len(records) == 0 {
		fmt.Printf("No applications recorded in %s\n", store.Path())
		return err
	}

	for _, rec := range records {
		fmt.Printf("%s  %-28s %-20s %3d%% %-9s %s (%d page(s))\n",
			rec.Date.Format("2006-01-02"), rec.JobTitle, rec.Company, rec.FitPct, rec.Band, rec.Status, rec.Pages)
	}

	return err
}

func exportHistory(records []history.Record) (err error) {
	if csvPath == "-" {
		err = history.ExportCSV(os.Stdout, records)
		return err
	}

	var f *os.File
	f, err = os.Create(csvPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to create %s", csvPath)
		return err
	}

	err = history.ExportCSV(f, records)
	closeErr := f.Close()
	if err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "failed to close %s", csvPath)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Exported %d application(s) to %s\n", len(records), csvPath)
	return err
}
