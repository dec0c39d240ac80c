package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drominaman/cybertrend-dashboard/internal/loadlog"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

type stubSource struct {
	ds atomic.Pointer[trend.Dataset]
}

func (s *stubSource) Current() *trend.Dataset { return s.ds.Load() }

func testDataset() *trend.Dataset {
	rows := []trend.RawRow{
		{"Resource Name": "DBIR", "Stat": "68% involve a human element", "Publisher": "Verizon", "Tag 1": "Phishing", "Date": "2024-09-20", "Link": "verizon.com/dbir"},
		{"Resource Name": "Cost of a Data Breach", "Stat": "US average is $9.36M", "Publisher": "IBM", "Tag 1": "Breach", "Date": "2024-07-30"},
		{"Resource Name": "Email Threats", "Stat": "BEC up 20%", "Publisher": "Verizon", "Tag 1": "Phishing", "Date": "Unknown"},
	}
	records := trend.NormalizeRows(rows, nil)
	return trend.NewDataset(records, []string{"Sheet"}, nil, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC))
}

func newTestServer(t *testing.T, loaded bool) (*httptest.Server, *stubSource) {
	t.Helper()
	src := &stubSource{}
	if loaded {
		src.ds.Store(testDataset())
	}
	s := NewServer(Config{Addr: "127.0.0.1:0"}, src, nil)
	s.now = func() time.Time { return time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, src
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthBeforeLoad(t *testing.T) {
	ts, _ := newTestServer(t, false)

	var body map[string]any
	code := getJSON(t, ts.URL+"/api/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["loaded"])
}

func TestDataRoutesUnavailableBeforeLoad(t *testing.T) {
	ts, src := newTestServer(t, false)

	for _, path := range []string{"/api/v1/records", "/api/v1/vocabulary", "/api/v1/chart", "/api/v1/insights", "/api/v1/export.csv"} {
		var body map[string]string
		code := getJSON(t, ts.URL+path, &body)
		assert.Equal(t, http.StatusServiceUnavailable, code, path)
		assert.NotEmpty(t, body["error"], path)
	}

	src.ds.Store(testDataset())
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/v1/records", nil))
}

func TestRecordsFilterSortPaginate(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var page pageJSON
	code := getJSON(t, ts.URL+"/api/v1/records?publisher=Verizon&sort=date&dir=desc&size=1&page=1", &page)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "DBIR", page.Items[0].ResourceName)
	assert.Equal(t, "https://verizon.com/dbir", page.Items[0].Link)
	assert.True(t, page.Items[0].New)
	assert.Equal(t, "September 20, 2024", page.Items[0].DisplayDate)

	code = getJSON(t, ts.URL+"/api/v1/records?publisher=Verizon&size=1&page=5", &page)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestRecordsKeywordAndTopic(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var page pageJSON
	getJSON(t, ts.URL+"/api/v1/records?q=bec", &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Email Threats", page.Items[0].ResourceName)

	getJSON(t, ts.URL+"/api/v1/records?topic=Breach", &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "IBM", page.Items[0].Publisher)
}

func TestRecordByID(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var rec recordJSON
	code := getJSON(t, ts.URL+"/api/v1/records/"+url.PathEscape("1-Cost of a Data Breach"), &rec)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"United States"}, rec.Locations)

	code = getJSON(t, ts.URL+"/api/v1/records/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVocabulary(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var v vocabularyJSON
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/v1/vocabulary", &v))
	assert.Equal(t, []string{"IBM", "Verizon"}, v.Publishers)
	assert.Equal(t, []string{"Breach", "Phishing"}, v.Tags)
	require.Len(t, v.DateBuckets, 3)
	assert.Equal(t, "2024-09", v.DateBuckets[0].Key)
	assert.Equal(t, "Unknown", v.DateBuckets[2].Key)
}

func TestChart(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var bars []countJSON
	getJSON(t, ts.URL+"/api/v1/chart?field=tag&n=1", &bars)
	assert.Equal(t, []countJSON{{Value: "Phishing", Count: 2}}, bars)

	getJSON(t, ts.URL+"/api/v1/chart?field=publisher&month=current", &bars)
	assert.Equal(t, []countJSON{{Value: "Verizon", Count: 1}}, bars)
}

func TestInsights(t *testing.T) {
	ts, _ := newTestServer(t, true)

	var body insightJSON
	getJSON(t, ts.URL+"/api/v1/insights?publisher=Verizon&ask=how+many", &body)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "There are 2 stats in view after applying the filters.", body.Answer)
	assert.True(t, strings.HasPrefix(body.Summary, "2 stats match the current filters."))
}

func TestExportCSV(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/api/v1/export.csv?tag=Phishing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Resource Name,Link,Publisher,Stat"))
}

func TestCORSHeaders(t *testing.T) {
	ts, _ := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

type historySource struct {
	stubSource
	entries []loadlog.Entry
}

func (h *historySource) History() []loadlog.Entry { return h.entries }

func TestLoadsWithoutHistory(t *testing.T) {
	ts, _ := newTestServer(t, false)

	var body struct {
		Loads []map[string]any `json:"loads"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/loads", &body))
	assert.NotNil(t, body.Loads)
	assert.Empty(t, body.Loads)
}

func TestLoadsAndHealthReportHistory(t *testing.T) {
	src := &historySource{entries: []loadlog.Entry{
		{Time: time.Date(2024, 9, 30, 8, 0, 0, 0, time.UTC), Outcome: loadlog.OutcomeLoaded, LoadID: "abc", Records: 3, Dur: 2 * time.Second},
		{Time: time.Date(2024, 9, 30, 9, 0, 0, 0, time.UTC), Outcome: loadlog.OutcomeFailed, Err: "sheet: status 503"},
	}}
	src.ds.Store(testDataset())
	ts := httptest.NewServer(NewServer(Config{}, src, nil).Handler())
	t.Cleanup(ts.Close)

	var loads struct {
		Loads []map[string]any `json:"loads"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/loads", &loads))
	require.Len(t, loads.Loads, 2)
	assert.Equal(t, "loaded", loads.Loads[0]["outcome"])
	assert.Equal(t, float64(2000), loads.Loads[0]["dur_ms"])
	assert.Equal(t, "failed", loads.Loads[1]["outcome"])

	var health map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/health", &health))
	assert.Equal(t, true, health["loaded"])
	assert.Equal(t, "sheet: status 503", health["last_error"])
}
