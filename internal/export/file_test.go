package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
)

func TestFileName(t *testing.T) {
	name := FileName(time.Date(2024, 9, 30, 8, 5, 9, 0, time.UTC))
	assert.Equal(t, "cybertrend-20240930-080509.csv", name)
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, WriteFile(path, sampleRecords()))

	res, err := fetch.ParseCSV(mustOpen(t, path))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be gone")
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
