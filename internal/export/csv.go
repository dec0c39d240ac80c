// Package export writes records back out in the published sheet's shape.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// Columns is the header row of an export.
var Columns = []string{
	"Resource Name", "Link", "Publisher", "Stat", "Date Published",
	"Tag 1", "Tag 2", "Tag 3", "Tag 4", "Tag 5", "notes",
}

// WriteCSV writes the header and one row per record. Dates are written as
// their original text so a re-import parses them the same way.
func WriteCSV(w io.Writer, records []trend.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVString renders records as a CSV document.
func CSVString(records []trend.Record) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Row maps a record onto Columns. The sheet has five tag columns, so tags
// past the fifth are left out.
func Row(r trend.Record) []string {
	row := make([]string, len(Columns))
	row[0] = r.ResourceName
	row[1] = r.SourceURL
	row[2] = r.Publisher
	row[3] = r.Stat
	row[4] = r.OriginalDateText
	for i := 0; i < trend.MaxTagColumns && i < len(r.Tags); i++ {
		row[5+i] = r.Tags[i]
	}
	row[10] = r.Notes
	return row
}
