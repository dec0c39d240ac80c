// Package filter provides pure filter functions for records.
// All functions are simple: []Record in, []Record out. No side effects.
// Results are always fresh slices, never nil, and keep input order unless
// the function's job is to reorder.
package filter

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// Wildcard is the facet value meaning "no constraint". Any other value,
// including "all", is matched literally.
const Wildcard = ""

// NewWindow is how long a record counts as new.
const NewWindow = 30 * 24 * time.Hour

var monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Selection is the current facet and keyword choice.
type Selection struct {
	Publisher  string
	Tag        string
	Location   string
	DateBucket string
	Keyword    string
}

// IsWildcard reports whether a facet value places no constraint.
func IsWildcard(v string) bool {
	return v == Wildcard
}

// Active reports whether any facet or the keyword constrains the result.
func (s Selection) Active() bool {
	return !IsWildcard(s.Publisher) || !IsWildcard(s.Tag) || !IsWildcard(s.Location) ||
		!IsWildcard(s.DateBucket) || strings.TrimSpace(s.Keyword) != ""
}

// With returns a copy of s with one facet set. Unknown facet names leave s
// unchanged. "topic" is accepted as a synonym of "tag".
func (s Selection) With(facet, value string) Selection {
	switch facet {
	case "publisher", "source", "company":
		s.Publisher = value
	case "tag", "topic":
		s.Tag = value
	case "location":
		s.Location = value
	case "date", "dateBucket":
		s.DateBucket = value
	case "keyword", "q":
		s.Keyword = value
	}
	return s
}

// Apply returns the records matching every facet of sel.
func Apply(records []trend.Record, sel Selection) []trend.Record {
	out := ByPublisher(records, sel.Publisher)
	out = ByTag(out, sel.Tag)
	out = ByLocation(out, sel.Location)
	out = ByDateBucket(out, sel.DateBucket)
	return ByKeyword(out, sel.Keyword)
}

// ByPublisher keeps records whose publisher equals publisher exactly.
func ByPublisher(records []trend.Record, publisher string) []trend.Record {
	if IsWildcard(publisher) {
		return clone(records)
	}
	return keep(records, func(r trend.Record) bool {
		return r.Publisher == publisher
	})
}

// ByTag keeps records carrying tag.
func ByTag(records []trend.Record, tag string) []trend.Record {
	if IsWildcard(tag) {
		return clone(records)
	}
	return keep(records, func(r trend.Record) bool {
		return contains(r.Tags, tag)
	})
}

// ByLocation keeps records mentioning location.
func ByLocation(records []trend.Record, location string) []trend.Record {
	if IsWildcard(location) {
		return clone(records)
	}
	return keep(records, func(r trend.Record) bool {
		return contains(r.Locations, location)
	})
}

// ByDateBucket keeps records in a date bucket. A YYYY-MM bucket matches
// resolved dates in that UTC month; any other bucket matches the original
// date text exactly.
func ByDateBucket(records []trend.Record, bucket string) []trend.Record {
	if IsWildcard(bucket) {
		return clone(records)
	}

	if monthKeyRe.MatchString(bucket) {
		return keep(records, func(r trend.Record) bool {
			return r.PublishedAt != nil && r.PublishedAt.UTC().Format("2006-01") == bucket
		})
	}

	return keep(records, func(r trend.Record) bool {
		return r.OriginalDateText == bucket
	})
}

// ByKeyword keeps records whose resource name, stat or notes contain the
// keyword, case-insensitively.
func ByKeyword(records []trend.Record, keyword string) []trend.Record {
	needle := fold(strings.TrimSpace(keyword))
	if needle == "" {
		return clone(records)
	}
	return keep(records, func(r trend.Record) bool {
		return strings.Contains(fold(r.ResourceName), needle) ||
			strings.Contains(fold(r.Stat), needle) ||
			strings.Contains(fold(r.Notes), needle)
	})
}

// InMonth keeps records whose resolved date falls in the UTC month of t.
func InMonth(records []trend.Record, t time.Time) []trend.Record {
	return ByDateBucket(records, t.UTC().Format("2006-01"))
}

// IsNew reports whether r was published within window before now.
// Undated records and future dates are never new.
func IsNew(r trend.Record, now time.Time, window time.Duration) bool {
	if r.PublishedAt == nil {
		return false
	}
	age := now.Sub(*r.PublishedAt)
	return age >= 0 && age <= window
}

// GuidedOptions lists the date buckets available once a topic is chosen,
// the second step of the guided filter.
func GuidedOptions(records []trend.Record, topic string) []trend.DateBucket {
	return trend.DateBuckets(ByTag(records, topic))
}

func keep(records []trend.Record, pred func(trend.Record) bool) []trend.Record {
	result := make([]trend.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			result = append(result, r)
		}
	}
	return result
}

func clone(records []trend.Record) []trend.Record {
	result := make([]trend.Record, len(records))
	copy(result, records)
	return result
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}
