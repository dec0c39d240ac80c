package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// FileName returns the default export file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("cybertrend-%s.csv", t.Format("20060102-150405"))
}

// WriteFile writes records as CSV to path, creating parent directories.
// The file is written to a temporary name first and renamed into place, so
// a failed export never leaves a truncated file behind.
func WriteFile(path string, records []trend.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move export into place: %w", err)
	}
	return nil
}
