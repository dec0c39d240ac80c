// Package trend holds the canonical cybersecurity statistic record and the
// normalization rules that turn raw spreadsheet or REST rows into records.
//
// Everything in this package is pure. A Record is never mutated after
// Normalize returns it; callers that need a different view build a new slice.
package trend

import (
	"time"

	"github.com/google/uuid"
)

// PublisherUnknown is the sentinel publisher for rows without one.
// It is a display value, not a selectable facet.
const PublisherUnknown = "N/A"

// MaxTagColumns is the number of "Tag n" columns collapsed into Record.Tags.
const MaxTagColumns = 5

// RawRow is one untyped row from a source: column name to cell text.
type RawRow map[string]string

// DatePrecision records how much of a calendar date the source text carried.
type DatePrecision int

const (
	PrecisionNone DatePrecision = iota
	PrecisionDay
	PrecisionMonth
	PrecisionQuarter
	PrecisionHalf
	PrecisionYear
)

// String returns a short name for the precision.
func (p DatePrecision) String() string {
	switch p {
	case PrecisionDay:
		return "day"
	case PrecisionMonth:
		return "month"
	case PrecisionQuarter:
		return "quarter"
	case PrecisionHalf:
		return "half"
	case PrecisionYear:
		return "year"
	default:
		return "none"
	}
}

// Record is one normalized statistic.
type Record struct {
	ID           string
	Index        int // position in the load, used as the stable tie-break
	ResourceName string
	Stat         string
	Publisher    string
	Tags         []string
	Locations    []string
	Notes        string

	// PublishedAt is set only when OriginalDateText parsed. Always UTC.
	PublishedAt      *time.Time
	Precision        DatePrecision
	OriginalDateText string

	SourceURL string
}

// HasDate reports whether the record carries a resolved date.
func (r Record) HasDate() bool {
	return r.PublishedAt != nil
}

// Topic returns the first tag, which the dashboards label "Topic".
func (r Record) Topic() string {
	if len(r.Tags) == 0 {
		return ""
	}
	return r.Tags[0]
}

// DateBucket is one date filter option.
type DateBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Vocabulary holds the distinct filter options of a record set.
type Vocabulary struct {
	Publishers  []string
	Tags        []string
	Locations   []string
	DateBuckets []DateBucket
}

// Dataset is one complete load. It is swapped in whole and never modified.
type Dataset struct {
	LoadID     uuid.UUID
	Records    []Record
	Vocabulary Vocabulary
	LoadedAt   time.Time
	Sources    []string
	Columns    []string
}

// NewDataset builds a dataset from normalized records.
func NewDataset(records []Record, sources, columns []string, loadedAt time.Time) *Dataset {
	return &Dataset{
		LoadID:     uuid.New(),
		Records:    records,
		Vocabulary: BuildVocabulary(records),
		LoadedAt:   loadedAt,
		Sources:    sources,
		Columns:    columns,
	}
}

// Len returns the number of records, tolerating a nil dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Lookup returns the record with the given id.
func (d *Dataset) Lookup(id string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	for _, r := range d.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
