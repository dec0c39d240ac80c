package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Totals, records per publisher and a date histogram",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ds, _, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== Cybertrend Stats ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records:       %d\n", ds.Len())
	fmt.Fprintf(out, "Sources:       %s\n", strings.Join(ds.Sources, ", "))
	fmt.Fprintf(out, "Loaded:        %s (load %s)\n", ds.LoadedAt.Local().Format("2006-01-02 15:04:05"), ds.LoadID)

	dated := 0
	for _, r := range ds.Records {
		if r.HasDate() {
			dated++
		}
	}
	fmt.Fprintf(out, "Dated:         %d of %d\n", dated, ds.Len())
	fmt.Fprintf(out, "Publishers:    %d\n", len(ds.Vocabulary.Publishers))
	fmt.Fprintf(out, "Tags:          %d\n", len(ds.Vocabulary.Tags))
	fmt.Fprintf(out, "Locations:     %d\n", len(ds.Vocabulary.Locations))
	fmt.Fprintf(out, "Date buckets:  %d\n", len(ds.Vocabulary.DateBuckets))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Records per publisher:")
	fmt.Fprint(out, countLines(filter.TopN(ds.Records, filter.FieldPublisher, 0), "  "))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Date histogram:")
	fmt.Fprint(out, histogram(ds.Records, ds.Vocabulary.DateBuckets))
	return nil
}

// histogram draws one bar per date bucket, newest first.
func histogram(records []trend.Record, buckets []trend.DateBucket) string {
	counts := make([]filter.Count, 0, len(buckets))
	top := 0
	for _, b := range buckets {
		n := len(filter.ByDateBucket(records, b.Key))
		counts = append(counts, filter.Count{Value: b.Label, Count: n})
		if n > top {
			top = n
		}
	}

	lines := strings.Split(strings.TrimRight(countLines(counts, "  "), "\n"), "\n")
	var b strings.Builder
	for i, c := range counts {
		bar := 1
		if top > 0 {
			bar = c.Count*40/top + 1
		}
		fmt.Fprintf(&b, "%s  %s\n", lines[i], strings.Repeat("█", bar))
	}
	return b.String()
}
