package filter

import (
	"sort"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// Field selects the record values counted by TopN.
type Field string

const (
	FieldTag       Field = "tag"
	FieldTopic     Field = "topic" // first tag only
	FieldPublisher Field = "publisher"
	FieldLocation  Field = "location"
)

// ParseField maps user input to a Field, defaulting to FieldTag.
func ParseField(s string) Field {
	switch Field(s) {
	case FieldTopic, FieldPublisher, FieldLocation:
		return Field(s)
	default:
		return FieldTag
	}
}

// Count is one bar of a chart.
type Count struct {
	Value string
	Count int
}

// TopN counts field values across records and returns the n most frequent,
// by count descending. Ties keep first-seen order. n <= 0 returns all.
// Empty values and the unknown-publisher sentinel are not counted.
func TopN(records []trend.Record, field Field, n int) []Count {
	counts := make([]Count, 0)
	pos := make(map[string]int)

	add := func(v string) {
		if v == "" {
			return
		}
		if i, ok := pos[v]; ok {
			counts[i].Count++
			return
		}
		pos[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}

	for _, r := range records {
		for _, v := range values(r, field) {
			add(v)
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// CountValues is TopN over plain strings, for callers that already hold the
// values (tests, the CLI).
func CountValues(vals []string, n int) []Count {
	records := make([]trend.Record, len(vals))
	for i, v := range vals {
		records[i] = trend.Record{Tags: []string{v}}
	}
	return TopN(records, FieldTag, n)
}

// Select returns the selection a chart bar click produces: the bar's value
// set on the facet the chart counts.
func (s Selection) Select(field Field, value string) Selection {
	switch field {
	case FieldPublisher:
		s.Publisher = value
	case FieldLocation:
		s.Location = value
	default:
		s.Tag = value
	}
	return s
}

func values(r trend.Record, field Field) []string {
	switch field {
	case FieldTopic:
		if t := r.Topic(); t != "" {
			return []string{t}
		}
		return nil
	case FieldPublisher:
		if r.Publisher == trend.PublisherUnknown {
			return nil
		}
		return []string{r.Publisher}
	case FieldLocation:
		return r.Locations
	default:
		return r.Tags
	}
}
