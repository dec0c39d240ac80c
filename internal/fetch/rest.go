package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// RESTStrategy reads a table through a PostgREST-style endpoint
// (GET <url>/rest/v1/<table>?select=*).
type RESTStrategy struct {
	http *httpGetter
}

// NewRESTStrategy creates a RESTStrategy with its own HTTP client.
func NewRESTStrategy(timeout time.Duration) *RESTStrategy {
	return &RESTStrategy{http: newHTTPGetter(timeout)}
}

func (s *RESTStrategy) Name() string { return TypeREST }

func (s *RESTStrategy) FetchRows(ctx context.Context, src Source) (Result, error) {
	endpoint := restEndpoint(src)

	header := http.Header{}
	header.Set("Accept", "application/json")
	if src.APIKey != "" {
		header.Set("apikey", src.APIKey)
		header.Set("Authorization", "Bearer "+src.APIKey)
	}

	body, err := s.http.get(ctx, src, endpoint, header)
	if err != nil {
		return Result{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return Result{}, &Error{Source: src.Name, URL: endpoint, Message: "failed to decode response", StatusCode: http.StatusOK, Cause: err}
	}

	rows := make([]trend.RawRow, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, FlattenRow(obj))
	}
	return Result{Rows: rows, Columns: columnsOf(rows)}, nil
}

func restEndpoint(src Source) string {
	table := src.Table
	if table == "" {
		table = DefaultRESTTable
	}
	base := strings.TrimRight(src.URL, "/")
	return fmt.Sprintf("%s/rest/v1/%s?select=*", base, url.PathEscape(table))
}

// FlattenRow converts a decoded JSON object or database row into a RawRow.
// A "tags" array becomes Tag 1..Tag n; other arrays are joined with ", ".
// Nil values are omitted.
func FlattenRow(obj map[string]any) trend.RawRow {
	row := make(trend.RawRow, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		if list, ok := asList(v); ok {
			if strings.EqualFold(k, "tags") {
				n := 0
				for _, item := range list {
					if item == "" {
						continue
					}
					n++
					row[fmt.Sprintf("Tag %d", n)] = item
				}
				continue
			}
			row[k] = strings.Join(list, ", ")
			continue
		}
		row[k] = scalar(v)
	}
	return row
}

func asList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, scalar(item))
		}
		return out, true
	}
	return nil, false
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.UTC().Format(time.RFC3339)
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// columnsOf returns the sorted union of row keys.
func columnsOf(rows []trend.RawRow) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
