package trend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Column aliases, first present non-blank key wins.
var (
	resourceKeys  = []string{"Resource Name", "resource_name", "ResourceName", "title"}
	statKeys      = []string{"Stat", "stat", "statistic"}
	publisherKeys = []string{"Publisher", "publisher", "Company", "company"}
	dateKeys      = []string{"Date Published", "date_published", "Date", "date"}
	notesKeys     = []string{"notes", "Notes"}
	locationKeys  = []string{"locations", "Locations", "Location", "location"}
	linkFallbacks = []string{"Link", "link", "url", "URL", "source_url"}
)

var linkHeaderRe = regexp.MustCompile(`(?i)link|url`)

// DetectLinkColumn picks the link column of a header row: a literal "Link"
// if present, otherwise the first header matching /link/i or /url/i.
func DetectLinkColumn(columns []string) string {
	for _, c := range columns {
		if c == "Link" {
			return c
		}
	}
	for _, c := range columns {
		if linkHeaderRe.MatchString(c) {
			return c
		}
	}
	return ""
}

// Normalizer turns raw rows of one load into records.
// The header row decides which column carries the link.
type Normalizer struct {
	linkColumn string
}

// NewNormalizer creates a Normalizer for rows with the given header order.
// columns may be nil for sources without a header row.
func NewNormalizer(columns []string) *Normalizer {
	return &Normalizer{linkColumn: DetectLinkColumn(columns)}
}

// Normalize maps one raw row to a Record. It returns false when the row has
// no resource name or no stat after trimming; such rows are skipped, not
// reported.
func (n *Normalizer) Normalize(row RawRow, index int) (Record, bool) {
	name := lookup(row, resourceKeys)
	stat := lookup(row, statKeys)
	if name == "" || stat == "" {
		return Record{}, false
	}

	publisher := lookup(row, publisherKeys)
	if publisher == "" {
		publisher = PublisherUnknown
	}

	notes := lookup(row, notesKeys)

	rec := Record{
		ID:           recordID(row, index, name),
		Index:        index,
		ResourceName: name,
		Stat:         stat,
		Publisher:    publisher,
		Tags:         collectTags(row),
		Notes:        notes,
		SourceURL:    NormalizeURL(n.rawLink(row)),
		Locations:    FindLocations(strings.Join([]string{name, stat, notes, lookup(row, locationKeys)}, " ")),
	}

	if dateText := lookup(row, dateKeys); dateText != "" {
		rec.OriginalDateText = dateText
		if t, precision, ok := ParseDate(dateText); ok {
			rec.PublishedAt = &t
			rec.Precision = precision
		}
	}

	return rec, true
}

func (n *Normalizer) rawLink(row RawRow) string {
	if n.linkColumn != "" {
		if v := strings.TrimSpace(row[n.linkColumn]); v != "" {
			return v
		}
	}
	return lookup(row, linkFallbacks)
}

// NormalizeRows normalizes a whole load. Rejected rows are dropped and ids
// are made unique across the result.
func NormalizeRows(rows []RawRow, columns []string) []Record {
	n := NewNormalizer(columns)
	records := make([]Record, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		rec, ok := n.Normalize(row, i)
		if !ok {
			continue
		}
		if count, dup := seen[rec.ID]; dup {
			base := rec.ID
			for {
				count++
				candidate := base + "#" + strconv.Itoa(count)
				if _, taken := seen[candidate]; !taken {
					seen[base] = count
					rec.ID = candidate
					break
				}
			}
		}
		seen[rec.ID] = 0
		records = append(records, rec)
	}

	return records
}

// collectTags gathers Tag 1..Tag n in column order, dropping blanks. The
// sheet always carries Tag 1..Tag 5; flattened JSON arrays may run longer
// and end at the first absent column.
func collectTags(row RawRow) []string {
	tags := make([]string, 0, MaxTagColumns)
	for i := 1; ; i++ {
		keys := []string{fmt.Sprintf("Tag %d", i), fmt.Sprintf("tag_%d", i)}
		if i > MaxTagColumns && !hasAny(row, keys) {
			return tags
		}
		if v := lookup(row, keys); v != "" {
			tags = append(tags, v)
		}
	}
}

func hasAny(row RawRow, keys []string) bool {
	for _, k := range keys {
		if _, ok := row[k]; ok {
			return true
		}
	}
	return false
}

// recordID prefers a natural key and falls back to "<index>-<name>".
func recordID(row RawRow, index int, name string) string {
	if id := strings.TrimSpace(row["id"]); id != "" {
		return id
	}
	return fmt.Sprintf("%d-%s", index, name)
}

// lookup returns the first non-blank trimmed value among keys.
func lookup(row RawRow, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}
