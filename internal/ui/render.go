package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Drominaman/cybertrend-dashboard/internal/filter"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// cardHeight is the number of lines one card takes, including the gap.
const cardHeight = 5

// RenderCards renders one page of stats as cards. cursor indexes records.
func RenderCards(records []trend.Record, cursor, width, height int, marked map[string]bool, isNew func(trend.Record) bool) string {
	if len(records) == 0 {
		return HelpStyle.Render("No stats match the current filters. Press 'c' to clear them.")
	}

	visible := height / cardHeight
	if visible < 1 {
		visible = 1
	}
	offset := calcScrollOffset(cursor, len(records), visible)

	var b strings.Builder
	for i := offset; i < len(records) && i < offset+visible; i++ {
		b.WriteString(renderCard(records[i], i == cursor, width, marked[records[i].ID], isNew != nil && isNew(records[i])))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(r trend.Record, selected bool, width int, marked, isNew bool) string {
	mark := "  "
	if marked {
		mark = MarkedItem.Render("● ")
	}

	stat := truncate(r.Stat, width-6)
	style := NormalItem
	if selected {
		style = SelectedItem
	}
	lines := []string{mark + style.Render(stat)}

	meta := []string{r.ResourceName, r.Publisher}
	if d := trend.DisplayDate(r); d != "" {
		meta = append(meta, d)
	}
	metaLine := MetaItem.Render(truncate(strings.Join(meta, " · "), width-12))
	if isNew {
		metaLine += NewBadge.Render("NEW")
	}
	lines = append(lines, "  "+metaLine)

	var tags []string
	for _, t := range r.Tags {
		tags = append(tags, TagBadge.Render(t))
	}
	lines = append(lines, "  "+strings.Join(tags, ""))

	link := ""
	if r.SourceURL != "" {
		link = LinkStyle.Render(truncate(r.SourceURL, width-6))
	}
	lines = append(lines, "  "+link)
	return strings.Join(lines, "\n")
}

// tableColumns are the table view headers in display order.
var tableColumns = []string{"Stat", "Resource", "Topic", "Company", "Date"}

// tableWidths splits width between the table columns. The stat column takes
// what the fixed columns leave.
func tableWidths(width int) []int {
	widths := []int{0, 22, 14, 16, 18}
	fixed := len(widths) * 1 // separators
	for _, w := range widths[1:] {
		fixed += w
	}
	widths[0] = width - fixed - 4
	if widths[0] < 20 {
		widths[0] = 20
	}
	return widths
}

// RenderTable renders one page of stats as aligned rows. Cells are measured
// in terminal columns so wide runes do not break alignment.
func RenderTable(records []trend.Record, cursor, width int, marked map[string]bool) string {
	if len(records) == 0 {
		return HelpStyle.Render("No stats match the current filters. Press 'c' to clear them.")
	}

	widths := tableWidths(width)
	var b strings.Builder
	b.WriteString("  " + TableHeader.Render(tableRow(tableColumns, widths)))
	b.WriteString("\n")
	for i, r := range records {
		mark := "  "
		if marked[r.ID] {
			mark = MarkedItem.Render("● ")
		}
		cells := []string{r.Stat, r.ResourceName, r.Topic(), r.Publisher, trend.DisplayDate(r)}
		style := NormalItem
		if i == cursor {
			style = SelectedItem
		}
		b.WriteString(mark + style.Render(tableRow(cells, widths)))
		b.WriteString("\n")
	}
	return b.String()
}

// tableRow pads or truncates each cell to its column width.
func tableRow(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = runewidth.FillRight(runewidth.Truncate(c, widths[i], "…"), widths[i])
	}
	return strings.Join(out, " ")
}

// RenderChart draws top-N counts as horizontal bars scaled to the largest.
func RenderChart(bars []filter.Count, cursor, width int, title string) string {
	header := SectionHeader.Render(title)
	if len(bars) == 0 {
		return header + "\n" + HelpStyle.Render("Nothing to chart for the current filters.")
	}

	labelWidth := 0
	maxCount := 0
	for _, c := range bars {
		if w := runewidth.StringWidth(c.Value); w > labelWidth {
			labelWidth = w
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}
	barSpace := width - labelWidth - 12
	if barSpace < 10 {
		barSpace = 10
	}

	lines := []string{header}
	for i, c := range bars {
		n := c.Count * barSpace / maxCount
		if n < 1 {
			n = 1
		}
		label := runewidth.FillRight(runewidth.Truncate(c.Value, labelWidth, "…"), labelWidth)
		bar := strings.Repeat("█", n)
		count := fmt.Sprintf(" %d", c.Count)
		if i == cursor {
			lines = append(lines, SelectedItem.Render(label+" "+bar+count))
			continue
		}
		lines = append(lines, NormalItem.Render(label+" ")+ChartBar.Render(bar)+StatusBarText.Render(count))
	}
	return strings.Join(lines, "\n")
}

// RenderDetail renders every field of one stat for the detail viewport.
func RenderDetail(r trend.Record, width int, isNew bool) string {
	wrap := lipgloss.NewStyle().Width(width)
	var lines []string
	stat := wrap.Bold(true).Render(r.Stat)
	if isNew {
		stat += " " + NewBadge.Render("NEW")
	}
	lines = append(lines, stat, "")

	field := func(name, value string) {
		if value == "" {
			return
		}
		lines = append(lines, FilterBarPrompt.Render(runewidth.FillRight(name, 11))+wrap.Render(value))
	}
	field("Resource", r.ResourceName)
	field("Company", r.Publisher)
	date := trend.DisplayDate(r)
	if r.HasDate() && r.OriginalDateText != date {
		date += " (" + r.OriginalDateText + ")"
	}
	field("Date", date)
	field("Tags", strings.Join(r.Tags, ", "))
	field("Locations", strings.Join(r.Locations, ", "))
	field("Notes", r.Notes)
	if r.SourceURL != "" {
		lines = append(lines, FilterBarPrompt.Render(runewidth.FillRight("Link", 11))+LinkStyle.Padding(0).Render(r.SourceURL))
	}
	lines = append(lines, "", StatusBarText.Render("id "+r.ID))
	return strings.Join(lines, "\n")
}

// RenderFilterBar summarizes the active facets, the sort and the match count.
func RenderFilterBar(sel filter.Selection, key filter.SortKey, dir filter.Direction, filtered, total, width int) string {
	var parts []string
	add := func(name, value string) {
		if filter.IsWildcard(value) {
			return
		}
		parts = append(parts, FilterBarPrompt.Render(name+":")+FilterBarText.Render(value))
	}
	add("company", sel.Publisher)
	add("topic", sel.Tag)
	add("location", sel.Location)
	add("date", sel.DateBucket)
	if kw := strings.TrimSpace(sel.Keyword); kw != "" {
		parts = append(parts, FilterBarPrompt.Render("/")+FilterBarText.Render(kw))
	}
	if len(parts) == 0 {
		parts = append(parts, FilterBarCount.Render("no filters"))
	}

	content := strings.Join(parts, " ") +
		FilterBarCount.Render(fmt.Sprintf("  sort %s %s  %d/%d stats", key, dir, filtered, total))
	padding := width - lipgloss.Width(content) - 2
	if padding < 0 {
		padding = 0
	}
	return FilterBar.Width(width).Render(content + strings.Repeat(" ", padding))
}

// RenderOptions renders a pick list for the guided filter.
func RenderOptions(title string, options []string, cursor, height int) string {
	lines := []string{SectionHeader.Render(title)}
	visible := height - 3
	if visible < 1 {
		visible = 1
	}
	offset := calcScrollOffset(cursor, len(options), visible)
	for i := offset; i < len(options) && i < offset+visible; i++ {
		if i == cursor {
			lines = append(lines, SelectedItem.Render(options[i]))
		} else {
			lines = append(lines, NormalItem.Render(options[i]))
		}
	}
	if len(options) == 0 {
		lines = append(lines, HelpStyle.Render("No options for this step."))
	}
	return strings.Join(lines, "\n")
}

// StatusInfo carries what the status bar shows.
type StatusInfo struct {
	Position int // 1-based record position within the filtered set
	Total    int
	Page     string
	LoadedAt time.Time
	LoadID   string
	Loading  string // spinner frame while a load is in flight
	Notice   string
}

// RenderStatusBar renders the bottom status bar with key hints and position.
func RenderStatusBar(info StatusInfo, width int) string {
	var left string
	switch {
	case info.Loading != "":
		left = " " + info.Loading + " Loading stats... "
	case info.Total == 0:
		left = " 0/0 "
	default:
		left = fmt.Sprintf(" %d/%d ", info.Position, info.Total)
	}
	if info.Page != "" {
		left += StatusBarText.Render("page ") + info.Page + " "
	}
	if !info.LoadedAt.IsZero() {
		id := info.LoadID
		if len(id) > 8 {
			id = id[:8]
		}
		left += StatusBarText.Render(fmt.Sprintf("loaded %s %s ", info.LoadedAt.Local().Format("Jan 2 15:04"), id))
	}
	if info.Notice != "" {
		left += NoticeStyle.Render(info.Notice)
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("←/→") + StatusBarText.Render(":page"),
		StatusBarKey.Render("/") + StatusBarText.Render(":search"),
		StatusBarKey.Render("v") + StatusBarText.Render(":view"),
		StatusBarKey.Render("i") + StatusBarText.Render(":insights"),
		StatusBarKey.Render("G") + StatusBarText.Render(":guide"),
		StatusBarKey.Render("r") + StatusBarText.Render(":refresh"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(keyHints) - 2
	if padding < 0 {
		// Narrow terminals drop the hints before the position.
		keyHints = ""
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + keyHints)
}

// calcScrollOffset keeps the cursor inside a window of visible entries.
func calcScrollOffset(cursor, total, visible int) int {
	if total <= visible || cursor < visible/2 {
		return 0
	}
	offset := cursor - visible/2
	if offset > total-visible {
		offset = total - visible
	}
	return offset
}

// truncate shortens s to at most width terminal columns.
func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	return runewidth.Truncate(s, width, "…")
}
