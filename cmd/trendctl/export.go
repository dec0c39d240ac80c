package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/config"
	"github.com/Drominaman/cybertrend-dashboard/internal/export"
	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered stats to CSV or to the SQLite export database",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportFacets facetFlags
	exportFormat string
	exportOut    string
	exportLabel  string
)

func init() {
	exportFacets.bind(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, sqlite")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path; \"-\" writes CSV to stdout (default: a timestamped file, or exports.db for sqlite)")
	exportCmd.Flags().StringVar(&exportLabel, "label", "", "Label stored with a sqlite export")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ds, _, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	records := filter.Sort(filter.Apply(ds.Records, exportFacets.selection()), filter.SortDate, filter.Desc)
	now := time.Now()

	switch exportFormat {
	case "csv":
		if exportOut == "-" {
			return export.WriteCSV(cmd.OutOrStdout(), records)
		}
		path := exportOut
		if path == "" {
			path = export.FileName(now)
		}
		if err := export.WriteFile(path, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d stats to %s\n", len(records), path)
		return nil

	case "sqlite":
		path := exportOut
		if path == "" {
			path = filepath.Join(config.Home(), "exports.db")
		}
		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		label := exportLabel
		if label == "" {
			label = export.FileName(now)
		}
		id := uuid.NewString()
		n, err := st.SaveRecords(id, label, records, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d stats to %s (export %s)\n", n, path, id)
		return nil

	default:
		return fmt.Errorf("unknown format %q (want csv or sqlite)", exportFormat)
	}
}
