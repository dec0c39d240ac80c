package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// RequiredHeaders are the columns a CSV payload must carry.
var RequiredHeaders = []string{"Resource Name", "Link", "Publisher", "Stat"}

var utf8BOM = []byte("\xef\xbb\xbf")

// CSVStrategy reads a published spreadsheet export. URLs without an http(s)
// scheme are read from the local filesystem.
type CSVStrategy struct {
	http *httpGetter
}

// NewCSVStrategy creates a CSVStrategy with its own HTTP client.
func NewCSVStrategy(timeout time.Duration) *CSVStrategy {
	return &CSVStrategy{http: newHTTPGetter(timeout)}
}

func (s *CSVStrategy) Name() string { return TypeCSV }

func (s *CSVStrategy) FetchRows(ctx context.Context, src Source) (Result, error) {
	body, err := s.read(ctx, src)
	if err != nil {
		return Result{}, err
	}

	res, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return Result{}, &Error{Source: src.Name, URL: src.URL, Message: "CSV parsing error", Cause: err}
	}

	if missing := missingHeaders(res.Columns); len(missing) > 0 {
		return Result{}, &Error{
			Source: src.Name,
			URL:    src.URL,
			Message: fmt.Sprintf("CSV header check failed (found: %s; required: %s)",
				strings.Join(res.Columns, ", "), strings.Join(RequiredHeaders, ", ")),
			Cause: fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", ")),
		}
	}
	return res, nil
}

func (s *CSVStrategy) read(ctx context.Context, src Source) ([]byte, error) {
	if isHTTP(src.URL) {
		return s.http.get(ctx, src, src.URL, nil)
	}
	path := strings.TrimPrefix(src.URL, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Source: src.Name, URL: src.URL, Message: "failed to read file", Cause: err}
	}
	return body, nil
}

// ParseCSV parses a header-mode CSV payload. Header cells are trimmed, a
// leading byte order mark is dropped and rows whose cells are all blank are
// skipped. Short rows leave the missing columns empty.
func ParseCSV(r io.Reader) (Result, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}
	body = bytes.TrimPrefix(body, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(body))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{Rows: []trend.RawRow{}, Columns: []string{}}, nil
	}
	if err != nil {
		return Result{}, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]trend.RawRow, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		if blank(rec) {
			continue
		}
		row := make(trend.RawRow, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return Result{Rows: rows, Columns: columns}, nil
}

func missingHeaders(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, h := range RequiredHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	return missing
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isHTTP(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
