package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print a filtered, sorted page of stats",
	Long:  "Applies the facet flags, sorts, and prints one page as an aligned table. Pages past the end print no rows.",
	Args:  cobra.NoArgs,
	RunE:  runQuery,
}

var (
	queryFacets facetFlags
	querySort   string
	queryDir    string
	queryPage   int
	querySize   int
	queryWidth  int
	queryJSON   bool
)

func init() {
	queryFacets.bind(queryCmd)
	queryCmd.Flags().StringVar(&querySort, "sort", "date", "Sort key: date, source, topic")
	queryCmd.Flags().StringVar(&queryDir, "dir", "desc", "Sort direction: asc, desc")
	queryCmd.Flags().IntVar(&queryPage, "page", 1, "Page number, starting at 1")
	queryCmd.Flags().IntVar(&querySize, "size", filter.DefaultPageSize, "Page size")
	queryCmd.Flags().IntVar(&queryWidth, "width", 140, "Table width in columns")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the page as JSON lines")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, _ []string) error {
	ds, _, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	records := filter.Apply(ds.Records, queryFacets.selection())
	records = filter.Sort(records, filter.ParseSortKey(querySort), filter.ParseDirection(queryDir))
	page := filter.Paginate(records, queryPage, querySize)

	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		for _, r := range page.Items {
			if err := enc.Encode(jsonRecord(r)); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprint(out, renderTable(page.Items, queryWidth))
	fmt.Fprintf(out, "\npage %d/%d (%d stats)\n", page.Number, page.TotalPages, page.Total)
	return nil
}

var tableHeaders = []string{"Stat", "Resource", "Topic", "Company", "Date"}

// renderTable aligns records in columns measured in terminal cells.
func renderTable(records []trend.Record, width int) string {
	widths := []int{0, 24, 14, 16, 18}
	fixed := 0
	for _, w := range widths[1:] {
		fixed += 2 + w
	}
	widths[0] = width - fixed
	if widths[0] < 20 {
		widths[0] = 20
	}

	row := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = cell(c, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
	}

	var b strings.Builder
	b.WriteString(row(tableHeaders))
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	b.WriteString(row(seps))
	for _, r := range records {
		b.WriteString(row([]string{r.Stat, r.ResourceName, r.Topic(), r.Publisher, trend.DisplayDate(r)}))
	}
	return b.String()
}

type recordLine struct {
	ID          string   `json:"id"`
	Resource    string   `json:"resource_name"`
	Stat        string   `json:"stat"`
	Publisher   string   `json:"publisher"`
	Tags        []string `json:"tags"`
	Locations   []string `json:"locations"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	Link        string   `json:"link,omitempty"`
}

func jsonRecord(r trend.Record) recordLine {
	return recordLine{
		ID:          r.ID,
		Resource:    r.ResourceName,
		Stat:        r.Stat,
		Publisher:   r.Publisher,
		Tags:        r.Tags,
		Locations:   r.Locations,
		Date:        r.OriginalDateText,
		DisplayDate: trend.DisplayDate(r),
		Link:        r.SourceURL,
	}
}
