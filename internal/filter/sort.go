package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// SortKey selects the field records are ordered by.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortSource SortKey = "source"
	SortTopic  SortKey = "topic"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortKey maps user input to a SortKey, defaulting to SortDate.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortSource, "publisher", "company":
		return SortSource
	case SortTopic, "tag":
		return SortTopic
	default:
		return SortDate
	}
}

// ParseDirection maps user input to a Direction, defaulting to Desc.
func ParseDirection(s string) Direction {
	if Direction(strings.ToLower(strings.TrimSpace(s))) == Asc {
		return Asc
	}
	return Desc
}

// Sort returns records ordered by key. The sort is stable: equal keys keep
// their input order in both directions. For SortDate, records without an
// orderable date always come last.
func Sort(records []trend.Record, key SortKey, dir Direction) []trend.Record {
	result := clone(records)

	switch key {
	case SortSource, SortTopic:
		keys := make([]string, len(result))
		for i, r := range result {
			keys[i] = strings.ToLower(textKey(r, key))
		}
		idx := indexes(len(result))
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := keys[idx[i]], keys[idx[j]]
			if dir == Asc {
				return a < b
			}
			return a > b
		})
		return permute(result, idx)

	default:
		dates := make([]time.Time, len(result))
		ok := make([]bool, len(result))
		for i, r := range result {
			dates[i], ok[i] = orderableDate(r)
		}
		idx := indexes(len(result))
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := idx[i], idx[j]
			if ok[a] != ok[b] {
				return ok[a]
			}
			if !ok[a] {
				return false
			}
			if dir == Asc {
				return dates[a].Before(dates[b])
			}
			return dates[a].After(dates[b])
		})
		return permute(result, idx)
	}
}

// orderableDate prefers the resolved date and falls back to a day-first
// reading of the original text.
func orderableDate(r trend.Record) (time.Time, bool) {
	if r.PublishedAt != nil {
		return *r.PublishedAt, true
	}
	return trend.ParseDayFirst(r.OriginalDateText)
}

func textKey(r trend.Record, key SortKey) string {
	if key == SortSource {
		return r.Publisher
	}
	return r.Topic()
}

func indexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func permute(records []trend.Record, idx []int) []trend.Record {
	out := make([]trend.Record, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
