package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Drominaman/cybertrend-dashboard/internal/export"
	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/insight"
	"github.com/Drominaman/cybertrend-dashboard/internal/loadlog"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

type recordJSON struct {
	ID           string     `json:"id"`
	ResourceName string     `json:"resource_name"`
	Stat         string     `json:"stat"`
	Publisher    string     `json:"publisher"`
	Link         string     `json:"link,omitempty"`
	Tags         []string   `json:"tags"`
	Locations    []string   `json:"locations"`
	Notes        string     `json:"notes,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Precision    string     `json:"precision"`
	DateText     string     `json:"date_text,omitempty"`
	DisplayDate  string     `json:"display_date,omitempty"`
	New          bool       `json:"new"`
}

type pageJSON struct {
	LoadID     string       `json:"load_id"`
	Items      []recordJSON `json:"items"`
	Page       int          `json:"page"`
	Size       int          `json:"size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

type vocabularyJSON struct {
	LoadID      string             `json:"load_id"`
	LoadedAt    time.Time          `json:"loaded_at"`
	Records     int                `json:"records"`
	Publishers  []string           `json:"publishers"`
	Tags        []string           `json:"tags"`
	Locations   []string           `json:"locations"`
	DateBuckets []trend.DateBucket `json:"date_buckets"`
}

type countJSON struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type insightJSON struct {
	Summary string `json:"summary"`
	Answer  string `json:"answer,omitempty"`
	Total   int    `json:"total"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"status": "ok", "loaded": false}
	if ds := s.data.Current(); ds != nil {
		status["loaded"] = true
		status["load_id"] = ds.LoadID.String()
		status["records"] = ds.Len()
		status["loaded_at"] = ds.LoadedAt
	}
	if h, ok := s.data.(LoadHistory); ok {
		if entries := h.History(); len(entries) > 0 {
			if last := entries[len(entries)-1]; last.Outcome == loadlog.OutcomeFailed {
				status["last_error"] = last.Err
			}
		}
	}
	respondWithJSON(w, http.StatusOK, status)
}

// handleLoads lists recent load attempts, oldest first.
func (s *Server) handleLoads(w http.ResponseWriter, _ *http.Request) {
	entries := []loadlog.Entry{}
	if h, ok := s.data.(LoadHistory); ok {
		entries = append(entries, h.History()...)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"loads": entries})
}

// handleRecords returns one page of the filtered, sorted records.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds := s.data.Current()
	q := r.URL.Query()

	records := filter.Apply(ds.Records, selectionFrom(r))
	records = filter.Sort(records, filter.ParseSortKey(q.Get("sort")), filter.ParseDirection(q.Get("dir")))

	page := filter.Paginate(records, intParam(r, "page", 1), intParam(r, "size", filter.DefaultPageSize))

	now := s.now()
	items := make([]recordJSON, len(page.Items))
	for i, rec := range page.Items {
		items[i] = s.toJSON(rec, now)
	}

	respondWithJSON(w, http.StatusOK, pageJSON{
		LoadID:     ds.LoadID.String(),
		Items:      items,
		Page:       page.Number,
		Size:       page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.data.Current().Lookup(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "record not found")
		return
	}
	respondWithJSON(w, http.StatusOK, s.toJSON(rec, s.now()))
}

func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	ds := s.data.Current()
	respondWithJSON(w, http.StatusOK, vocabularyJSON{
		LoadID:      ds.LoadID.String(),
		LoadedAt:    ds.LoadedAt,
		Records:     ds.Len(),
		Publishers:  ds.Vocabulary.Publishers,
		Tags:        ds.Vocabulary.Tags,
		Locations:   ds.Vocabulary.Locations,
		DateBuckets: ds.Vocabulary.DateBuckets,
	})
}

// handleChart returns the top-N bars over the filtered records. month=current
// restricts to records published in the current UTC month.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	records := filter.Apply(s.data.Current().Records, selectionFrom(r))
	if r.URL.Query().Get("month") == "current" {
		records = filter.InMonth(records, s.now())
	}

	counts := filter.TopN(records, filter.ParseField(r.URL.Query().Get("field")), intParam(r, "n", s.chartSize))
	bars := make([]countJSON, len(counts))
	for i, c := range counts {
		bars[i] = countJSON{Value: c.Value, Count: c.Count}
	}
	respondWithJSON(w, http.StatusOK, bars)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	records := filter.Apply(s.data.Current().Records, selectionFrom(r))
	summary := insight.Summarize(records)
	respondWithJSON(w, http.StatusOK, insightJSON{
		Summary: summary.String(),
		Answer:  insight.Answer(r.URL.Query().Get("ask"), records),
		Total:   summary.Total,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records := filter.Apply(s.data.Current().Records, selectionFrom(r))
	records = filter.Sort(records, filter.ParseSortKey(q.Get("sort")), filter.ParseDirection(q.Get("dir")))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cybertrend-export.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		s.logger.Error("export failed", "err", err)
	}
}

func (s *Server) toJSON(r trend.Record, now time.Time) recordJSON {
	return recordJSON{
		ID:           r.ID,
		ResourceName: r.ResourceName,
		Stat:         r.Stat,
		Publisher:    r.Publisher,
		Link:         r.SourceURL,
		Tags:         nonNil(r.Tags),
		Locations:    nonNil(r.Locations),
		Notes:        r.Notes,
		PublishedAt:  r.PublishedAt,
		Precision:    r.Precision.String(),
		DateText:     r.OriginalDateText,
		DisplayDate:  trend.DisplayDate(r),
		New:          filter.IsNew(r, now, s.newWindow),
	}
}

// selectionFrom reads the facet query parameters. "topic" is accepted as a
// synonym for "tag".
func selectionFrom(r *http.Request) filter.Selection {
	q := r.URL.Query()
	sel := filter.Selection{
		Publisher:  q.Get("publisher"),
		Tag:        q.Get("tag"),
		Location:   q.Get("location"),
		DateBucket: q.Get("date"),
		Keyword:    q.Get("q"),
	}
	if topic := q.Get("topic"); topic != "" && sel.Tag == "" {
		sel = sel.With("topic", topic)
	}
	return sel
}

func intParam(r *http.Request, name string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
