package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

var testNow = time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)

// testDataset builds 12 stats: publishers rotate Verizon/IBM/Sophos, tags
// alternate Phishing/Ransomware, and only the first carries Cloud.
func testDataset() *trend.Dataset {
	publishers := []string{"Verizon", "IBM", "Sophos"}
	tags := []string{"Phishing", "Ransomware"}
	rows := make([]trend.RawRow, 12)
	for i := range rows {
		rows[i] = trend.RawRow{
			"Resource Name": fmt.Sprintf("Report %d", i),
			"Stat":          fmt.Sprintf("Stat %d", i),
			"Publisher":     publishers[i%3],
			"Tag 1":         tags[i%2],
			"Date":          fmt.Sprintf("2024-09-%02d", i+1),
		}
	}
	rows[0]["Tag 2"] = "Cloud"
	records := trend.NormalizeRows(rows, nil)
	return trend.NewDataset(records, []string{"test"}, nil, testNow)
}

// mockCmd records calls made through the App's command functions.
type mockCmd struct {
	refreshed int
	exported  []trend.Record
}

func (m *mockCmd) refresh() tea.Cmd {
	m.refreshed++
	return func() tea.Msg { return LoadStarted{} }
}

func (m *mockCmd) export(records []trend.Record) tea.Cmd {
	m.exported = records
	return func() tea.Msg { return ExportDone{Path: "out.csv", Count: len(records)} }
}

func newTestApp(mock *mockCmd) App {
	app := NewApp(mock.refresh, mock.export, Options{Now: func() time.Time { return testNow }})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(DatasetLoaded{Dataset: testDataset()})
	return model.(App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in order and returns the resulting App.
func press(app App, keys ...string) App {
	var model tea.Model = app
	for _, k := range keys {
		model, _ = model.Update(keyMsg(k))
	}
	return model.(App)
}

func TestAppInit(t *testing.T) {
	mock := &mockCmd{}
	app := NewApp(mock.refresh, mock.export, Options{})

	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return the spinner tick")
	}
	if mock.refreshed != 0 {
		t.Error("Init should not start a load itself")
	}
	if !app.loading {
		t.Error("a new App should be loading")
	}
}

func TestAppViewBeforeReady(t *testing.T) {
	app := NewApp(nil, nil, Options{})
	if got := app.View(); got != "Loading..." {
		t.Errorf("View before size = %q", got)
	}
}

func TestAppOptionDefaults(t *testing.T) {
	app := NewApp(nil, nil, Options{PageSize: 7, View: "bogus"})
	if app.pageSize != filter.DefaultPageSize {
		t.Errorf("pageSize = %d, want %d", app.pageSize, filter.DefaultPageSize)
	}
	if app.view != ViewCards {
		t.Errorf("view = %q, want cards", app.view)
	}
}

func TestAppDatasetLoaded(t *testing.T) {
	app := newTestApp(&mockCmd{})

	if app.loading {
		t.Error("loading should be cleared after DatasetLoaded")
	}
	p := app.Page()
	if p.Total != 12 || len(p.Items) != 10 || p.TotalPages != 2 {
		t.Fatalf("page = total %d, items %d, pages %d", p.Total, len(p.Items), p.TotalPages)
	}
	// Newest first by default.
	if p.Items[0].Stat != "Stat 11" {
		t.Errorf("first item = %q, want Stat 11", p.Items[0].Stat)
	}
}

func TestAppLoadFailedKeepsData(t *testing.T) {
	app := newTestApp(&mockCmd{})

	model, _ := app.Update(LoadFailed{Err: errors.New("HTTP error: 503")})
	app = model.(App)

	if app.Page().Total != 12 {
		t.Errorf("stale data should stay, got %d records", app.Page().Total)
	}
	view := app.View()
	if !strings.Contains(view, "HTTP error: 503") {
		t.Error("View should show the load error")
	}
	if !strings.Contains(view, "Stat 11") {
		t.Error("View should still show the previous stats")
	}

	app = press(app, "j")
	if app.err != nil {
		t.Error("any key should dismiss the error")
	}
}

func TestAppNavigation(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "j")
	if app.Cursor() != 1 {
		t.Errorf("j should move cursor to 1, got %d", app.Cursor())
	}
	app = press(app, "k", "k")
	if app.Cursor() != 0 {
		t.Errorf("k at top should keep cursor at 0, got %d", app.Cursor())
	}

	for i := 0; i < 20; i++ {
		app = press(app, "j")
	}
	if app.Cursor() != 9 {
		t.Errorf("cursor should stop at the last row of the page, got %d", app.Cursor())
	}
}

func TestAppPaging(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "right")
	if p := app.Page(); p.Number != 2 || len(p.Items) != 2 {
		t.Fatalf("after right: page %d with %d items", p.Number, len(p.Items))
	}
	app = press(app, "l")
	if app.Page().Number != 2 {
		t.Error("paging past the last page should be ignored")
	}
	app = press(app, "h")
	if app.Page().Number != 1 {
		t.Errorf("h should return to page 1, got %d", app.Page().Number)
	}
	app = press(app, "left")
	if app.Page().Number != 1 {
		t.Error("paging before the first page should be ignored")
	}
}

func TestAppPageSizeToggle(t *testing.T) {
	app := newTestApp(&mockCmd{})
	app = press(app, "right", "n")

	p := app.Page()
	if p.Size != 5 || p.Number != 1 || p.TotalPages != 3 {
		t.Errorf("after n: size %d, page %d of %d", p.Size, p.Number, p.TotalPages)
	}
	app = press(app, "n")
	if app.Page().Size != 10 {
		t.Errorf("second n should restore 10, got %d", app.Page().Size)
	}
}

func TestAppFacetCycle(t *testing.T) {
	app := newTestApp(&mockCmd{})
	publishers := app.vocabulary().Publishers

	app = press(app, "right", "p")
	if got := app.Selection().Publisher; got != publishers[0] {
		t.Errorf("p should select %q, got %q", publishers[0], got)
	}
	if app.Page().Number != 1 || app.Page().Total != 4 {
		t.Errorf("facet change should reset to page 1 of 4 records, got page %d of %d records", app.Page().Number, app.Page().Total)
	}

	for range publishers {
		app = press(app, "p")
	}
	if app.Selection().Publisher != "" {
		t.Errorf("cycling past the last publisher should clear the facet, got %q", app.Selection().Publisher)
	}

	app = press(app, "t", "d")
	if app.Selection().Tag != "Cloud" || app.Selection().DateBucket != "2024-09" {
		t.Errorf("selection = %+v", app.Selection())
	}
	app = press(app, "c")
	if app.Selection().Active() {
		t.Errorf("c should clear every facet, got %+v", app.Selection())
	}
}

func TestAppKeywordSearch(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "/", "stat 1")
	if app.mode != modeKeyword {
		t.Fatal("/ should open keyword entry")
	}
	if got := app.Selection().Keyword; got != "stat 1" {
		t.Errorf("keyword = %q", got)
	}
	// Stat 1, Stat 10, Stat 11
	if app.Page().Total != 3 {
		t.Errorf("keyword should narrow to 3 records, got %d", app.Page().Total)
	}

	app = press(app, "enter")
	if app.mode != modeBrowse || app.Selection().Keyword != "stat 1" {
		t.Error("enter should keep the keyword and close entry")
	}

	app = press(app, "esc")
	if app.Selection().Keyword != "" || app.Page().Total != 12 {
		t.Error("esc should clear the keyword")
	}
}

func TestAppSortCycle(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "s")
	if app.sortKey != filter.SortSource {
		t.Fatalf("s should sort by source, got %s", app.sortKey)
	}
	if got := app.Page().Items[0].Publisher; got != "Verizon" {
		t.Errorf("descending source sort should start with Verizon, got %s", got)
	}

	app = press(app, "S")
	if got := app.Page().Items[0].Publisher; got != "IBM" {
		t.Errorf("ascending source sort should start with IBM, got %s", got)
	}

	app = press(app, "s", "s")
	if app.sortKey != filter.SortDate {
		t.Errorf("sort keys should wrap to date, got %s", app.sortKey)
	}
}

func TestAppChartSelectsTag(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "v", "v")
	if app.view != ViewChart {
		t.Fatalf("view = %s, want chart", app.view)
	}
	if !strings.Contains(app.View(), "Top tags") {
		t.Error("chart view should be titled")
	}

	app = press(app, "enter")
	if got := app.Selection().Tag; got != "Phishing" {
		t.Errorf("enter on the first bar should select Phishing, got %q", got)
	}
	if app.view != ViewCards {
		t.Error("selecting a bar should return to the cards")
	}
	if app.Page().Total != 6 {
		t.Errorf("bar count and filtered count differ: %d", app.Page().Total)
	}
}

func TestAppChartMonthMode(t *testing.T) {
	app := newTestApp(&mockCmd{})
	app = press(app, "v", "v")

	if len(app.chartBars()) == 0 {
		t.Fatal("expected bars for the whole dataset")
	}
	app = press(app, "m")
	// testNow is in September 2024, which every fixture date shares.
	if len(app.chartBars()) != 3 {
		t.Errorf("month bars = %v", app.chartBars())
	}

	app.now = func() time.Time { return testNow.AddDate(0, 1, 0) }
	if len(app.chartBars()) != 0 {
		t.Errorf("October should have no bars, got %v", app.chartBars())
	}
}

func TestAppDetail(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "j", "enter")
	if app.mode != modeDetail {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(app.View(), "Report 10") {
		t.Error("detail should show the selected record")
	}
	app = press(app, "esc")
	if app.mode != modeBrowse {
		t.Error("esc should close the detail view")
	}
}

func TestAppMarkAndExport(t *testing.T) {
	mock := &mockCmd{}
	app := newTestApp(mock)

	app = press(app, "space", "j", "j", "space", "space")
	if len(app.marked) != 1 {
		t.Fatalf("marked = %v, want one record", app.marked)
	}

	var model tea.Model
	model, cmd := app.Update(keyMsg("x"))
	if cmd == nil {
		t.Fatal("x should return the export command")
	}
	if len(mock.exported) != 1 || mock.exported[0].Stat != "Stat 11" {
		t.Fatalf("exported = %v", mock.exported)
	}

	model, _ = model.Update(cmd())
	app = model.(App)
	if len(app.marked) != 0 {
		t.Error("a finished export should clear the marks")
	}
	if !strings.Contains(app.notice, "Exported 1 stats to out.csv") {
		t.Errorf("notice = %q", app.notice)
	}
}

func TestAppExportWithoutMarksUsesFilteredView(t *testing.T) {
	mock := &mockCmd{}
	app := newTestApp(mock)

	app = press(app, "t", "t", "x")
	if len(mock.exported) != 6 {
		t.Errorf("exported %d records, want the 6 Phishing stats", len(mock.exported))
	}
}

func TestAppExportError(t *testing.T) {
	app := newTestApp(&mockCmd{})
	model, _ := app.Update(ExportDone{Err: errors.New("disk full")})
	if model.(App).err == nil {
		t.Error("export errors should be shown")
	}
}

func TestAppRefresh(t *testing.T) {
	mock := &mockCmd{}
	app := newTestApp(mock)

	model, cmd := app.Update(keyMsg("r"))
	if cmd == nil || mock.refreshed != 1 {
		t.Fatal("r should call refresh")
	}
	if !model.(App).loading {
		t.Error("r should mark the app as loading")
	}

	noRefresh := NewApp(nil, nil, Options{})
	if _, cmd := noRefresh.Update(keyMsg("r")); cmd != nil {
		t.Error("r without a refresh func should do nothing")
	}
}

func TestAppGuidedFilter(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "G")
	if app.mode != modeGuidedTopic {
		t.Fatal("G should open the guided filter")
	}
	// Any topic, Cloud, Phishing, Ransomware
	app = press(app, "j", "enter")
	if app.mode != modeGuidedDate || app.guidedTopic != "Cloud" {
		t.Fatalf("mode %d topic %q", app.mode, app.guidedTopic)
	}
	if len(app.guidedOptions) != 2 {
		t.Fatalf("date options = %v", app.guidedOptions)
	}

	app = press(app, "j", "enter")
	sel := app.Selection()
	if sel.Tag != "Cloud" || sel.DateBucket != "2024-09" {
		t.Errorf("selection = %+v", sel)
	}
	if app.Page().Total != 1 {
		t.Errorf("guided filter should leave 1 record, got %d", app.Page().Total)
	}
}

func TestAppGuidedFilterEscape(t *testing.T) {
	app := newTestApp(&mockCmd{})
	app = press(app, "G", "j", "esc")
	if app.mode != modeBrowse || app.Selection().Active() {
		t.Error("esc should leave the guided filter without changes")
	}
}

func TestAppInsightsAsk(t *testing.T) {
	app := newTestApp(&mockCmd{})

	app = press(app, "i")
	if app.mode != modeInsights {
		t.Fatal("i should open insights")
	}
	if !strings.Contains(app.View(), "12 stats match the current filters.") {
		t.Error("insights should show the summary")
	}

	app = press(app, "?", "how many", "enter")
	if app.mode != modeInsights {
		t.Fatal("enter should return to insights")
	}
	if want := "There are 12 stats in view after applying the filters."; app.answer != want {
		t.Errorf("answer = %q, want %q", app.answer, want)
	}

	app = press(app, "i")
	if app.mode != modeBrowse {
		t.Error("i should close insights")
	}
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(&mockCmd{})
	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
