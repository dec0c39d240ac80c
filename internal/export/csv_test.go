package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

func sampleRecords() []trend.Record {
	rows := []trend.RawRow{
		{"Resource Name": "DBIR", "Link": "[report](https://verizon.com/dbir)", "Publisher": "Verizon",
			"Stat": `68% involve a "human" element, says report`, "Date Published": "2024-05",
			"Tag 1": "Phishing", "Tag 2": "Breach", "notes": "multi\nline"},
		{"Resource Name": "Cloud Risk", "Link": "example.com", "Stat": "45% cloud", "Date": "Q1 2024",
			"Tag 1": "a", "Tag 2": "b", "Tag 3": "c", "Tag 4": "d", "Tag 5": "e"},
	}
	return trend.NormalizeRows(rows, nil)
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	out, err := CSVString(sampleRecords())
	require.NoError(t, err)

	res, err := fetch.ParseCSV(bytes.NewBufferString(out))
	require.NoError(t, err)

	assert.Equal(t, Columns, res.Columns)
	require.Len(t, res.Rows, 2)

	first := res.Rows[0]
	assert.Equal(t, "https://verizon.com/dbir", first["Link"])
	assert.Equal(t, `68% involve a "human" element, says report`, first["Stat"])
	assert.Equal(t, "2024-05", first["Date Published"])
	assert.Equal(t, "multi\nline", first["notes"])
	assert.Equal(t, "", first["Tag 3"])

	second := res.Rows[1]
	assert.Equal(t, "N/A", second["Publisher"])
	assert.Equal(t, "Q1 2024", second["Date Published"])
	assert.Equal(t, "e", second["Tag 5"])
}

func TestExportReimportPreservesRecords(t *testing.T) {
	original := sampleRecords()

	out, err := CSVString(original)
	require.NoError(t, err)
	res, err := fetch.ParseCSV(bytes.NewBufferString(out))
	require.NoError(t, err)

	again := trend.NormalizeRows(res.Rows, res.Columns)
	require.Len(t, again, len(original))
	for i := range original {
		assert.Equal(t, original[i].ResourceName, again[i].ResourceName)
		assert.Equal(t, original[i].Publisher, again[i].Publisher)
		assert.Equal(t, original[i].Tags, again[i].Tags)
		assert.Equal(t, original[i].SourceURL, again[i].SourceURL)
		assert.Equal(t, original[i].OriginalDateText, again[i].OriginalDateText)
		assert.Equal(t, original[i].Precision, again[i].Precision)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	out, err := CSVString(nil)
	require.NoError(t, err)
	assert.Equal(t, "Resource Name,Link,Publisher,Stat,Date Published,Tag 1,Tag 2,Tag 3,Tag 4,Tag 5,notes\n", out)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSVPropagatesWriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, sampleRecords())
	assert.Error(t, err)
}
