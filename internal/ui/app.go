package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/insight"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// View names accepted by Options.View.
const (
	ViewCards = "cards"
	ViewTable = "table"
	ViewChart = "chart"
)

var viewOrder = []string{ViewCards, ViewTable, ViewChart}

var sortOrder = []filter.SortKey{filter.SortDate, filter.SortSource, filter.SortTopic}

type mode int

const (
	modeBrowse mode = iota
	modeKeyword
	modeDetail
	modeInsights
	modeAsk
	modeGuidedTopic
	modeGuidedDate
)

// Options configures a new App.
type Options struct {
	PageSize  int
	View      string
	ChartSize int
	NewWindow time.Duration
	Now       func() time.Time
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the coordinator. Datasets arrive as messages,
// and everything shown is derived from the dataset and the selection on each
// render.
type App struct {
	refresh func() tea.Cmd
	export  func(records []trend.Record) tea.Cmd

	dataset   *trend.Dataset
	sel       filter.Selection
	sortKey   filter.SortKey
	sortDir   filter.Direction
	page      int
	pageSize  int
	view      string
	chartSize int
	monthMode bool
	newWindow time.Duration
	now       func() time.Time

	cursor int
	marked map[string]bool
	mode   mode

	keyword  textinput.Model
	question textinput.Model
	answer   string
	detail   viewport.Model
	pager    paginator.Model
	spinner  spinner.Model

	guidedTopic   string
	guidedOptions []string
	guidedKeys    []string
	guidedCursor  int

	err     error
	notice  string
	width   int
	height  int
	ready   bool
	loading bool
}

// NewApp creates a new App.
// refresh: returns a Cmd that reloads every source
// export: returns a Cmd that writes records out and reports ExportDone
func NewApp(refresh func() tea.Cmd, export func(records []trend.Record) tea.Cmd, opts Options) App {
	if opts.PageSize != 5 && opts.PageSize != 10 {
		opts.PageSize = filter.DefaultPageSize
	}
	if opts.View != ViewTable && opts.View != ViewChart {
		opts.View = ViewCards
	}
	if opts.ChartSize < 1 {
		opts.ChartSize = 10
	}
	if opts.NewWindow <= 0 {
		opts.NewWindow = filter.NewWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	kw := textinput.New()
	kw.Prompt = "/ "
	kw.Placeholder = "keyword"
	kw.PromptStyle = FilterBarPrompt
	kw.CharLimit = 80

	q := textinput.New()
	q.Prompt = "? "
	q.Placeholder = "ask about the stats in view"
	q.PromptStyle = FilterBarPrompt
	q.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot

	p := paginator.New()
	p.Type = paginator.Arabic

	return App{
		refresh:   refresh,
		export:    export,
		sortKey:   filter.SortDate,
		sortDir:   filter.Desc,
		page:      1,
		pageSize:  opts.PageSize,
		view:      opts.View,
		chartSize: opts.ChartSize,
		newWindow: opts.NewWindow,
		now:       opts.Now,
		marked:    map[string]bool{},
		keyword:   kw,
		question:  q,
		detail:    viewport.New(80, 20),
		pager:     p,
		spinner:   s,
		loading:   true,
	}
}

// Init starts the loading spinner. The first load is started by whoever
// owns the program.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.detail.Width = msg.Width - 6
		a.detail.Height = msg.Height - 6
		a.keyword.Width = msg.Width - 10
		a.question.Width = msg.Width - 10
		return a, nil

	case LoadStarted:
		a.loading = true
		return a, a.spinner.Tick

	case DatasetLoaded:
		a.loading = false
		a.err = nil
		a.dataset = msg.Dataset
		a.page = filter.ClampPage(a.page, a.currentPage().TotalPages)
		a.clampCursor()
		return a, nil

	case LoadFailed:
		// Keep whatever dataset is on screen.
		a.loading = false
		a.err = msg.Err
		return a, nil

	case ExportDone:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.notice = exportNotice(msg)
		a.marked = map[string]bool{}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a.updateInputs(msg)
}

// updateInputs forwards non-key messages such as cursor blinks to the
// focused text input.
func (a App) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.mode {
	case modeKeyword:
		a.keyword, cmd = a.keyword.Update(msg)
	case modeAsk:
		a.question, cmd = a.question.Update(msg)
	}
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing error or notice on key press
	a.err = nil
	a.notice = ""

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeKeyword:
		return a.handleKeywordKey(msg)
	case modeAsk:
		return a.handleAskKey(msg)
	case modeDetail:
		return a.handleDetailKey(msg)
	case modeInsights:
		return a.handleInsightsKey(msg)
	case modeGuidedTopic, modeGuidedDate:
		return a.handleGuidedKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Down):
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.NextPage):
		if a.view != ViewChart && a.currentPage().HasNext() {
			a.page++
			a.cursor = 0
		}
		return a, nil

	case key.Matches(msg, keys.PrevPage):
		if a.view != ViewChart && a.page > 1 {
			a.page--
			a.cursor = 0
		}
		return a, nil

	case key.Matches(msg, keys.Search):
		a.mode = modeKeyword
		a.keyword.SetValue(a.sel.Keyword)
		a.keyword.CursorEnd()
		return a, a.keyword.Focus()

	case key.Matches(msg, keys.Escape):
		return a.setSelection(a.sel.With("keyword", "")), nil

	case key.Matches(msg, keys.Publisher):
		return a.setSelection(a.sel.With("publisher", cycle(a.vocabulary().Publishers, a.sel.Publisher))), nil

	case key.Matches(msg, keys.Tag):
		return a.setSelection(a.sel.With("tag", cycle(a.vocabulary().Tags, a.sel.Tag))), nil

	case key.Matches(msg, keys.Location):
		return a.setSelection(a.sel.With("location", cycle(a.vocabulary().Locations, a.sel.Location))), nil

	case key.Matches(msg, keys.Date):
		return a.setSelection(a.sel.With("date", cycle(bucketKeys(a.vocabulary().DateBuckets), a.sel.DateBucket))), nil

	case key.Matches(msg, keys.Clear):
		return a.setSelection(filter.Selection{}), nil

	case key.Matches(msg, keys.Sort):
		a.sortKey = nextSortKey(a.sortKey)
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.SortDir):
		if a.sortDir == filter.Asc {
			a.sortDir = filter.Desc
		} else {
			a.sortDir = filter.Asc
		}
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.View):
		a.view = cycle(viewOrder, a.view)
		if a.view == "" {
			a.view = ViewCards
		}
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.PageSize):
		if a.pageSize == 5 {
			a.pageSize = 10
		} else {
			a.pageSize = 5
		}
		a.page = 1
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Month):
		a.monthMode = !a.monthMode
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Enter):
		return a.handleEnter()

	case key.Matches(msg, keys.Mark):
		if r, ok := a.selectedRecord(); ok {
			a.marked = toggle(a.marked, r.ID)
		}
		return a, nil

	case key.Matches(msg, keys.Export):
		if a.export == nil {
			return a, nil
		}
		records := a.exportRecords()
		a.notice = "Exporting..."
		return a, a.export(records)

	case key.Matches(msg, keys.Insights):
		a.mode = modeInsights
		a.answer = ""
		return a, nil

	case key.Matches(msg, keys.Guided):
		a.mode = modeGuidedTopic
		a.guidedOptions = append([]string{"Any topic"}, a.vocabulary().Tags...)
		a.guidedKeys = append([]string{filter.Wildcard}, a.vocabulary().Tags...)
		a.guidedCursor = 0
		return a, nil

	case key.Matches(msg, keys.Refresh):
		if a.refresh == nil {
			return a, nil
		}
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.refresh())
	}

	return a, nil
}

func (a App) handleEnter() (tea.Model, tea.Cmd) {
	if a.view == ViewChart {
		bars := a.chartBars()
		if a.cursor < len(bars) {
			a = a.setSelection(a.sel.Select(filter.FieldTag, bars[a.cursor].Value))
			a.view = ViewCards
		}
		return a, nil
	}

	r, ok := a.selectedRecord()
	if !ok {
		return a, nil
	}
	a.mode = modeDetail
	a.detail.SetContent(RenderDetail(r, a.detail.Width, filter.IsNew(r, a.now(), a.newWindow)))
	a.detail.GotoTop()
	return a, nil
}

func (a App) handleKeywordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.keyword.Blur()
		a.keyword.SetValue("")
		a.mode = modeBrowse
		return a.setSelection(a.sel.With("keyword", "")), nil
	case key.Matches(msg, keys.Enter):
		a.keyword.Blur()
		a.mode = modeBrowse
		return a, nil
	}

	var cmd tea.Cmd
	a.keyword, cmd = a.keyword.Update(msg)
	// Results follow the input on every keystroke.
	return a.setSelection(a.sel.With("keyword", a.keyword.Value())), cmd
}

func (a App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter), key.Matches(msg, keys.Quit):
		a.mode = modeBrowse
		return a, nil
	case key.Matches(msg, keys.Mark):
		if r, ok := a.selectedRecord(); ok {
			a.marked = toggle(a.marked, r.ID)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.detail, cmd = a.detail.Update(msg)
	return a, cmd
}

func (a App) handleInsightsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Insights), key.Matches(msg, keys.Quit):
		a.mode = modeBrowse
		return a, nil
	case key.Matches(msg, keys.Ask):
		a.mode = modeAsk
		a.question.SetValue("")
		return a, a.question.Focus()
	}
	return a, nil
}

func (a App) handleAskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.question.Blur()
		a.mode = modeInsights
		return a, nil
	case key.Matches(msg, keys.Enter):
		a.question.Blur()
		a.mode = modeInsights
		a.answer = insight.Answer(a.question.Value(), a.filtered())
		return a, nil
	}
	var cmd tea.Cmd
	a.question, cmd = a.question.Update(msg)
	return a, cmd
}

func (a App) handleGuidedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		a.mode = modeBrowse
		return a, nil
	case key.Matches(msg, keys.Down):
		if a.guidedCursor < len(a.guidedOptions)-1 {
			a.guidedCursor++
		}
		return a, nil
	case key.Matches(msg, keys.Up):
		if a.guidedCursor > 0 {
			a.guidedCursor--
		}
		return a, nil
	case !key.Matches(msg, keys.Enter) || a.guidedCursor >= len(a.guidedKeys):
		return a, nil
	}

	choice := a.guidedKeys[a.guidedCursor]
	if a.mode == modeGuidedTopic {
		a.guidedTopic = choice
		buckets := filter.GuidedOptions(a.records(), choice)
		a.guidedOptions = []string{"Any date"}
		a.guidedKeys = []string{filter.Wildcard}
		for _, b := range buckets {
			a.guidedOptions = append(a.guidedOptions, b.Label)
			a.guidedKeys = append(a.guidedKeys, b.Key)
		}
		a.guidedCursor = 0
		a.mode = modeGuidedDate
		return a, nil
	}

	a.mode = modeBrowse
	sel := a.sel.With("tag", a.guidedTopic).With("date", choice)
	return a.setSelection(sel), nil
}

// setSelection replaces the selection and returns to the first page.
func (a App) setSelection(sel filter.Selection) App {
	a.sel = sel
	a.page = 1
	a.cursor = 0
	return a
}

// records returns every record of the current dataset.
func (a App) records() []trend.Record {
	if a.dataset == nil {
		return nil
	}
	return a.dataset.Records
}

func (a App) vocabulary() trend.Vocabulary {
	if a.dataset == nil {
		return trend.Vocabulary{}
	}
	return a.dataset.Vocabulary
}

// filtered applies the selection to the dataset.
func (a App) filtered() []trend.Record {
	return filter.Apply(a.records(), a.sel)
}

// visible applies the selection and the sort.
func (a App) visible() []trend.Record {
	return filter.Sort(a.filtered(), a.sortKey, a.sortDir)
}

func (a App) currentPage() filter.Page {
	return filter.Paginate(a.visible(), a.page, a.pageSize)
}

// chartBars counts tags over the filtered set, or over the current month
// of it in month mode.
func (a App) chartBars() []filter.Count {
	records := a.filtered()
	if a.monthMode {
		records = filter.InMonth(records, a.now())
	}
	return filter.TopN(records, filter.FieldTag, a.chartSize)
}

func (a App) rowCount() int {
	if a.view == ViewChart {
		return len(a.chartBars())
	}
	return len(a.currentPage().Items)
}

func (a *App) clampCursor() {
	if n := a.rowCount(); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
}

func (a App) selectedRecord() (trend.Record, bool) {
	if a.view == ViewChart {
		return trend.Record{}, false
	}
	items := a.currentPage().Items
	if a.cursor < 0 || a.cursor >= len(items) {
		return trend.Record{}, false
	}
	return items[a.cursor], true
}

// exportRecords returns the marked records in dataset order, or the
// filtered and sorted view when nothing is marked.
func (a App) exportRecords() []trend.Record {
	if len(a.marked) == 0 {
		return a.visible()
	}
	out := make([]trend.Record, 0, len(a.marked))
	for _, r := range a.records() {
		if a.marked[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func (a App) isNew(r trend.Record) bool {
	return filter.IsNew(r, a.now(), a.newWindow)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	filterBar := RenderFilterBar(a.sel, a.sortKey, a.sortDir, len(a.filtered()), a.dataset.Len(), a.width)

	// Content height: filter bar, status bar, and the error bar if present
	contentHeight := a.height - 2
	if a.err != nil {
		contentHeight--
	}

	var content string
	switch a.mode {
	case modeKeyword:
		content = FilterBar.Width(a.width).Render(a.keyword.View()) + "\n" + a.renderBrowse(contentHeight-1)
	case modeDetail:
		content = Panel.Width(a.width - 2).Render(a.detail.View())
	case modeInsights, modeAsk:
		content = a.renderInsights()
	case modeGuidedTopic:
		content = RenderOptions("Guided filter: pick a topic", a.guidedOptions, a.guidedCursor, contentHeight)
	case modeGuidedDate:
		content = RenderOptions("Guided filter: pick a date for "+topicLabel(a.guidedTopic), a.guidedOptions, a.guidedCursor, contentHeight)
	default:
		content = a.renderBrowse(contentHeight)
	}
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	// Render error bar if there's an error (shown above status bar)
	errorBar := ""
	if a.err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)") + "\n"
	}

	return filterBar + "\n" + content + "\n" + errorBar + RenderStatusBar(a.statusInfo(), a.width)
}

func (a App) renderBrowse(height int) string {
	if a.dataset == nil {
		return HelpStyle.Render(a.spinner.View() + " Loading stats...")
	}
	switch a.view {
	case ViewTable:
		return RenderTable(a.currentPage().Items, a.cursor, a.width, a.marked)
	case ViewChart:
		title := "Top tags"
		if a.monthMode {
			title += " this month"
		}
		return RenderChart(a.chartBars(), a.cursor, a.width, title)
	default:
		return RenderCards(a.currentPage().Items, a.cursor, a.width, height, a.marked, a.isNew)
	}
}

func (a App) renderInsights() string {
	records := a.filtered()
	body := SectionHeader.Render("Insights") + "\n" +
		lipgloss.NewStyle().Width(a.width-8).Render(insight.Summarize(records).String())
	if a.mode == modeAsk {
		body += "\n\n" + a.question.View()
	} else if a.answer != "" {
		body += "\n\n" + FilterBarPrompt.Render("? ") + a.question.Value() + "\n" +
			lipgloss.NewStyle().Width(a.width-8).Render(a.answer)
	}
	body += "\n\n" + StatusBarText.Render("? ask  esc back")
	return Panel.Width(a.width - 2).Render(body)
}

func (a App) statusInfo() StatusInfo {
	p := a.currentPage()
	a.pager.PerPage = p.Size
	a.pager.TotalPages = p.TotalPages
	a.pager.Page = p.Number - 1

	info := StatusInfo{
		Position: (p.Number-1)*p.Size + a.cursor + 1,
		Total:    p.Total,
		Page:     a.pager.View(),
		Notice:   a.notice,
	}
	if a.view == ViewChart {
		info.Position = a.cursor + 1
		info.Total = len(a.chartBars())
		info.Page = ""
	}
	if a.loading {
		info.Loading = a.spinner.View()
	}
	if a.dataset != nil {
		info.LoadedAt = a.dataset.LoadedAt
		info.LoadID = a.dataset.LoadID.String()
	}
	return info
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Selection returns the active filters (for testing).
func (a App) Selection() filter.Selection {
	return a.sel
}

// Page returns the current page of visible records (for testing).
func (a App) Page() filter.Page {
	return a.currentPage()
}

// cycle returns the option after current, wrapping to "" (no constraint)
// after the last one.
func cycle(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if filter.IsWildcard(current) {
		return options[0]
	}
	for i, o := range options {
		if o == current && i+1 < len(options) {
			return options[i+1]
		}
	}
	return ""
}

func nextSortKey(k filter.SortKey) filter.SortKey {
	for i, s := range sortOrder {
		if s == k {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return filter.SortDate
}

func bucketKeys(buckets []trend.DateBucket) []string {
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}

// toggle returns a copy of set with id flipped.
func toggle(set map[string]bool, id string) map[string]bool {
	out := make(map[string]bool, len(set)+1)
	for k := range set {
		out[k] = true
	}
	if set[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

func topicLabel(topic string) string {
	if filter.IsWildcard(topic) {
		return "any topic"
	}
	return topic
}

func exportNotice(msg ExportDone) string {
	if msg.Path == "" {
		return fmt.Sprintf("Exported %d stats", msg.Count)
	}
	return fmt.Sprintf("Exported %d stats to %s", msg.Count, msg.Path)
}
