// Package store provides the SQLite export sink for cybertrend.
//
// Exports are written here on request and can be listed and read back by the
// CLI. The dashboard itself never loads from the store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// insertChunk bounds the rows per INSERT to stay under SQLite's variable limit.
const insertChunk = 500

var recordColumns = []string{
	"export_id", "id", "position", "resource_name", "link", "publisher", "stat",
	"date_text", "published_at", "precision", "tags", "locations", "notes",
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// ExportInfo describes one saved export.
type ExportInfo struct {
	ID      string
	Label   string
	SavedAt time.Time
	Records int
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		saved_at TEXT NOT NULL,
		record_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS export_records (
		export_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		resource_name TEXT NOT NULL,
		link TEXT,
		publisher TEXT NOT NULL,
		stat TEXT NOT NULL,
		date_text TEXT,
		published_at TEXT,
		precision INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '[]',
		locations TEXT NOT NULL DEFAULT '[]',
		notes TEXT,
		PRIMARY KEY (export_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_export_records_position ON export_records(export_id, position);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveRecords stores records under exportID, replacing any earlier export
// with the same id. Returns the number of records written.
// Thread-safe: acquires write lock.
func (s *Store) SaveRecords(exportID, label string, records []trend.Record, savedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := sq.Delete("export_records").Where(sq.Eq{"export_id": exportID}).RunWith(tx).Exec(); err != nil {
		return 0, fmt.Errorf("clear export: %w", err)
	}

	_, err = sq.Replace("exports").
		Columns("id", "label", "saved_at", "record_count").
		Values(exportID, label, savedAt.UTC().Format(time.RFC3339Nano), len(records)).
		RunWith(tx).Exec()
	if err != nil {
		return 0, fmt.Errorf("save export: %w", err)
	}

	for start := 0; start < len(records); start += insertChunk {
		end := min(start+insertChunk, len(records))
		ins := sq.Replace("export_records").Columns(recordColumns...)
		for i, r := range records[start:end] {
			vals, err := recordValues(exportID, start+i, r)
			if err != nil {
				return 0, err
			}
			ins = ins.Values(vals...)
		}
		if _, err := ins.RunWith(tx).Exec(); err != nil {
			return 0, fmt.Errorf("save records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// GetRecords reads an export back in its saved order.
// Thread-safe: acquires read lock.
func (s *Store) GetRecords(exportID string) ([]trend.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := sq.Select(recordColumns[1:]...).
		From("export_records").
		Where(sq.Eq{"export_id": exportID}).
		OrderBy("position").
		RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]trend.Record, 0)
	for rows.Next() {
		var (
			r                       trend.Record
			link, dateText, notes   sql.NullString
			publishedAt             sql.NullString
			precision               int
			tagsJSON, locationsJSON string
		)
		err := rows.Scan(
			&r.ID,
			&r.Index,
			&r.ResourceName,
			&link,
			&r.Publisher,
			&r.Stat,
			&dateText,
			&publishedAt,
			&precision,
			&tagsJSON,
			&locationsJSON,
			&notes,
		)
		if err != nil {
			return nil, err
		}
		r.SourceURL = link.String
		r.OriginalDateText = dateText.String
		r.Notes = notes.String
		r.Precision = trend.DatePrecision(precision)
		if publishedAt.Valid && publishedAt.String != "" {
			t, err := time.Parse(time.RFC3339Nano, publishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", r.ID, err)
			}
			r.PublishedAt = &t
		}
		if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
			return nil, fmt.Errorf("record %s tags: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(locationsJSON), &r.Locations); err != nil {
			return nil, fmt.Errorf("record %s locations: %w", r.ID, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Exports lists saved exports, newest first.
// Thread-safe: acquires read lock.
func (s *Store) Exports() ([]ExportInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := sq.Select("id", "label", "saved_at", "record_count").
		From("exports").
		OrderBy("saved_at DESC", "id").
		RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []ExportInfo
	for rows.Next() {
		var info ExportInfo
		var savedAt string
		if err := rows.Scan(&info.ID, &info.Label, &savedAt, &info.Records); err != nil {
			return nil, err
		}
		if info.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, fmt.Errorf("export %s: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteExport removes an export and its records.
// Thread-safe: acquires write lock.
func (s *Store) DeleteExport(exportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := sq.Delete("export_records").Where(sq.Eq{"export_id": exportID}).RunWith(tx).Exec(); err != nil {
		return err
	}
	if _, err := sq.Delete("exports").Where(sq.Eq{"id": exportID}).RunWith(tx).Exec(); err != nil {
		return err
	}
	return tx.Commit()
}

func recordValues(exportID string, position int, r trend.Record) ([]any, error) {
	tags, err := json.Marshal(nonNil(r.Tags))
	if err != nil {
		return nil, err
	}
	locations, err := json.Marshal(nonNil(r.Locations))
	if err != nil {
		return nil, err
	}

	var publishedAt any
	if r.PublishedAt != nil {
		publishedAt = r.PublishedAt.UTC().Format(time.RFC3339Nano)
	}

	return []any{
		exportID, r.ID, position, r.ResourceName, r.SourceURL, r.Publisher, r.Stat,
		r.OriginalDateText, publishedAt, int(r.Precision), string(tags), string(locations), r.Notes,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
