package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/config"
	"github.com/Drominaman/cybertrend-dashboard/internal/coord"
	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// facetFlags are the filter flags shared by query, ask and export.
type facetFlags struct {
	publisher string
	tag       string
	location  string
	date      string
	keyword   string
}

func (f *facetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "Only stats from this publisher")
	cmd.Flags().StringVar(&f.tag, "tag", "", "Only stats carrying this tag")
	cmd.Flags().StringVar(&f.location, "location", "", "Only stats mentioning this country")
	cmd.Flags().StringVar(&f.date, "date", "", "Only stats in this date bucket (YYYY-MM or a literal such as \"Q3 2024\")")
	cmd.Flags().StringVarP(&f.keyword, "query", "q", "", "Keyword matched against the stat, resource name and notes")
}

func (f facetFlags) selection() filter.Selection {
	return filter.Selection{
		Publisher:  f.publisher,
		Tag:        f.tag,
		Location:   f.location,
		DateBucket: f.date,
		Keyword:    f.keyword,
	}
}

// loadDataset runs one load of every configured source.
func loadDataset(ctx context.Context) (*trend.Dataset, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c := coord.NewCoordinator(fetch.NewFetcher(cfg.Refresh.FetchTimeout), cfg.Sources, coord.Options{
		FetchTimeout: cfg.Refresh.FetchTimeout,
		Logger:       logging.WithPrefix("load"),
	})
	ds, err := c.Refresh(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load stats: %w", err)
	}
	return ds, cfg, nil
}

// cell pads or truncates s to exactly width terminal columns.
func cell(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// countLines renders counts as aligned "label  n" lines.
func countLines(counts []filter.Count, indent string) string {
	width := 0
	for _, c := range counts {
		if w := runewidth.StringWidth(c.Value); w > width {
			width = w
		}
	}
	if width > 40 {
		width = 40
	}
	var b strings.Builder
	for _, c := range counts {
		fmt.Fprintf(&b, "%s%s  %d\n", indent, cell(c.Value, width), c.Count)
	}
	return b.String()
}
