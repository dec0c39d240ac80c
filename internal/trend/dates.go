package trend

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearMonthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	quarterRe   = regexp.MustCompile(`^[Qq]([1-4])\s+(\d{4})$`)
	halfRe      = regexp.MustCompile(`^[Hh]([12])\s+(\d{4})$`)
	dayFirstRe  = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})$`)
	ordinalRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// genericLayout is one layout tried by the generic step of ParseDate.
type genericLayout struct {
	layout    string
	precision DatePrecision
}

// genericLayouts are tried in order after '-' has been replaced by '/'.
// Day-first slash dates come before month-first ones.
var genericLayouts = []genericLayout{
	{"2006/01/02", PrecisionDay},
	{"2006/1/2", PrecisionDay},
	{"2006/01/02 15:04", PrecisionDay},
	{"2006/01/02 15:04:05", PrecisionDay},
	{"2006/1/2 15:04", PrecisionDay},
	{"02/01/2006", PrecisionDay},
	{"2/1/2006", PrecisionDay},
	{"01/02/2006", PrecisionDay},
	{"1/2/2006", PrecisionDay},
	{"Jan 2006", PrecisionMonth},
	{"January 2006", PrecisionMonth},
	{"Jan 2, 2006", PrecisionDay},
	{"January 2, 2006", PrecisionDay},
	{"Jan 2 2006", PrecisionDay},
	{"January 2 2006", PrecisionDay},
	{"2 Jan 2006", PrecisionDay},
	{"2 January 2006", PrecisionDay},
	{"2006/01", PrecisionMonth},
	{"2006/1", PrecisionMonth},
	{"2006", PrecisionYear},
}

// ParseDate resolves a raw date token. Attempts, first match wins:
// strict YYYY-MM, Q<n> YYYY, H<n> YYYY, then a generic parse.
// The result is always UTC; month, quarter and half granularity land on day 1.
func ParseDate(text string) (time.Time, DatePrecision, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, PrecisionNone, false
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return firstOfMonth(year, month), PrecisionMonth, true
		}
		return time.Time{}, PrecisionNone, false
	}

	if m := quarterRe.FindStringSubmatch(s); m != nil {
		q, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return firstOfMonth(year, (q-1)*3+1), PrecisionQuarter, true
	}

	if m := halfRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return firstOfMonth(year, (h-1)*6+1), PrecisionHalf, true
	}

	return parseGeneric(s)
}

// parseGeneric is the locale-generic fallback.
func parseGeneric(s string) (time.Time, DatePrecision, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return dayUTC(t), PrecisionDay, true
		}
	}

	s = strings.ReplaceAll(s, "-", "/")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Replace(s, "Sept ", "Sep ", 1)
	s = ordinalRe.ReplaceAllString(s, "$1")

	for _, g := range genericLayouts {
		t, err := time.Parse(g.layout, s)
		if err != nil {
			continue
		}
		return dayUTC(t), g.precision, true
	}
	return time.Time{}, PrecisionNone, false
}

// ParseDayFirst parses a European DD/MM/YYYY date (also '-' or '.'
// separated). Used by the sorter when a record carries no resolved date.
func ParseDayFirst(text string) (time.Time, bool) {
	m := dayFirstRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow; reject it.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// SortableDate maps a date bucket key to a time for ordering.
// Keys that cannot be parsed sort as the Unix epoch.
func SortableDate(key string) time.Time {
	t, _, ok := ParseDate(key)
	if !ok {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// DisplayDate formats the record date for cards and tables.
// Month-level text ("Sep 2024", "2024-09") renders as "September 2024" and
// day-level text as "September 15, 2024". Quarter, half and year tokens and
// unparsed text are shown verbatim.
func DisplayDate(r Record) string {
	if r.PublishedAt == nil {
		return r.OriginalDateText
	}
	switch r.Precision {
	case PrecisionMonth:
		return r.PublishedAt.Format("January 2006")
	case PrecisionDay:
		return r.PublishedAt.Format("January 2, 2006")
	default:
		return r.OriginalDateText
	}
}

// ShortDate formats a record date as "Jan 2, 2006", or the raw text when
// the date did not parse.
func ShortDate(r Record) string {
	if r.PublishedAt == nil {
		return r.OriginalDateText
	}
	return r.PublishedAt.Format("Jan 2, 2006")
}

func firstOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func dayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
