// Package insight produces the plain-language summary shown above a filtered
// view and answers simple keyword questions about it. Everything is computed
// from the records passed in; nothing is cached between calls.
package insight

import (
	"fmt"
	"strings"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

const topListSize = 3

const noRecordsAnswer = "No stats match the current filters, so there is nothing to analyze yet."

// Summary describes a filtered record set.
type Summary struct {
	Total        int
	TopTopics    []filter.Count
	TopCompanies []filter.Count
	Earliest     *trend.Record
	Latest       *trend.Record
}

// Summarize counts topics (first tag) and publishers and finds the dated
// extremes of records.
func Summarize(records []trend.Record) Summary {
	s := Summary{
		Total:        len(records),
		TopTopics:    filter.TopN(records, filter.FieldTopic, topListSize),
		TopCompanies: filter.TopN(records, filter.FieldPublisher, topListSize),
	}

	for i := range records {
		r := &records[i]
		if r.PublishedAt == nil {
			continue
		}
		if s.Earliest == nil || r.PublishedAt.Before(*s.Earliest.PublishedAt) {
			s.Earliest = r
		}
		// Ties resolve to the later record, as a stable ascending sort would.
		if s.Latest == nil || !r.PublishedAt.Before(*s.Latest.PublishedAt) {
			s.Latest = r
		}
	}
	return s
}

func (s Summary) String() string {
	parts := []string{fmt.Sprintf("%d %s match the current filters.", s.Total, plural(s.Total))}

	if len(s.TopTopics) > 0 {
		parts = append(parts, fmt.Sprintf("Key topics include %s.", joinCounts(s.TopTopics)))
	}
	if len(s.TopCompanies) > 0 {
		parts = append(parts, fmt.Sprintf("Notable companies mentioned: %s.", joinCounts(s.TopCompanies)))
	}
	if s.Earliest != nil && s.Latest != nil {
		parts = append(parts, fmt.Sprintf("Coverage spans from %s to %s.",
			trend.ShortDate(*s.Earliest), trend.ShortDate(*s.Latest)))
	}
	return strings.Join(parts, " ")
}

// Answer responds to a free-text question about records. Matching is by
// keyword, checked in a fixed order; anything unrecognised gets the summary.
func Answer(question string, records []trend.Record) string {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return ""
	}
	if len(records) == 0 {
		return noRecordsAnswer
	}

	s := Summarize(records)

	switch {
	case strings.Contains(q, "how many"):
		return fmt.Sprintf("There are %d %s in view after applying the filters.", s.Total, plural(s.Total))

	case strings.Contains(q, "latest"), strings.Contains(q, "recent"):
		if s.Latest == nil {
			return "I could not determine the most recent date from the filtered stats."
		}
		return fmt.Sprintf("The latest update is from %s: %s", trend.ShortDate(*s.Latest), s.Latest.Stat)

	case strings.Contains(q, "oldest"), strings.Contains(q, "earliest"):
		if s.Earliest == nil {
			return "I could not determine the earliest date from the filtered stats."
		}
		return fmt.Sprintf("The earliest stat in this view is from %s: %s", trend.ShortDate(*s.Earliest), s.Earliest.Stat)

	case strings.Contains(q, "company"):
		if len(s.TopCompanies) == 0 {
			return "No company information is present in the filtered stats."
		}
		return fmt.Sprintf("Companies mentioned most often: %s.", joinCounts(s.TopCompanies))

	case strings.Contains(q, "topic"):
		if len(s.TopTopics) == 0 {
			return "No topic information is present in the filtered stats."
		}
		return fmt.Sprintf("Key topics represented: %s.", joinCounts(s.TopTopics))
	}

	return s.String()
}

func joinCounts(counts []filter.Count) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.Value, c.Count)
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return "stat"
	}
	return "stats"
}
