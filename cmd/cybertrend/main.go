package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Drominaman/cybertrend-dashboard/internal/config"
	"github.com/Drominaman/cybertrend-dashboard/internal/coord"
	"github.com/Drominaman/cybertrend-dashboard/internal/export"
	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/loadlog"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
	"github.com/Drominaman/cybertrend-dashboard/internal/store"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
	"github.com/Drominaman/cybertrend-dashboard/internal/ui"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	if err := config.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Fatal("Failed to read .env", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "path", config.ConfigPath(), "err", err)
	}

	// Data directory: ~/.cybertrend/ unless CYBERTREND_HOME is set
	dataDir := config.Home()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal("Failed to create data directory", "err", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := logging.Init(dataDir, logging.ParseLevel(cfg.Log.Level)); err != nil {
		log.Fatal("Failed to open log file", "err", err)
	}
	defer logging.Close()

	// Export sink only; the dashboard never reads it back.
	st, err := store.Open(filepath.Join(dataDir, "exports.db"))
	if err != nil {
		log.Fatal("Failed to open export database", "err", err)
	}
	defer st.Close()

	// Load attempts are appended to loads.jsonl across sessions.
	var journal *loadlog.Journal
	if f, err := os.OpenFile(filepath.Join(dataDir, "loads.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
		logging.Warn("load journal disabled", "err", err)
	} else {
		journal = loadlog.NewJournal(f)
		defer f.Close()
		defer journal.Close()
	}

	fetcher := fetch.NewFetcher(cfg.Refresh.FetchTimeout)
	coordinator := coord.NewCoordinator(fetcher, cfg.Sources, coord.Options{
		Interval:     cfg.Refresh.Interval,
		FetchTimeout: cfg.Refresh.FetchTimeout,
		History:      loadlog.NewHistory(loadlog.DefaultRingSize, journal),
	})

	app := ui.NewApp(
		func() tea.Cmd { return coordinator.RefreshCmd(ctx) },
		exportCmd(st, filepath.Join(dataDir, "exports")),
		ui.Options{
			PageSize:  cfg.UI.PageSize,
			View:      cfg.UI.View,
			ChartSize: cfg.UI.ChartSize,
			NewWindow: cfg.UI.NewWindow,
		},
	)

	// Create program
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Loads once immediately, then on every interval tick
	coordinator.Start(ctx, program)

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		logging.Error("Error running program", "err", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()
}

// exportCmd writes records to a timestamped CSV under dir and records the
// export in the SQLite sink.
func exportCmd(st *store.Store, dir string) func([]trend.Record) tea.Cmd {
	return func(records []trend.Record) tea.Cmd {
		return func() tea.Msg {
			now := time.Now()
			name := export.FileName(now)
			path := filepath.Join(dir, name)
			if err := export.WriteFile(path, records); err != nil {
				return ui.ExportDone{Err: err}
			}
			if _, err := st.SaveRecords(uuid.NewString(), name, records, now); err != nil {
				logging.Warn("export not recorded", "path", path, "err", err)
			}
			logging.Info("export written", "path", path, "records", len(records))
			return ui.ExportDone{Path: path, Count: len(records)}
		}
	}
}
