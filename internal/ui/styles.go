package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorLink      = lipgloss.Color("39")  // Blue
)

// SelectedItem style for the highlighted card, row or bar.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected stats.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MetaItem style for the resource, company and date line under a stat.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// SectionHeader style for view titles ("Top tags", "Insights").
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginBottom(1).
	Padding(0, 1)

// TagBadge style for topic badges on cards.
var TagBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// NewBadge marks stats published within the "new" window.
var NewBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("16")).
	Background(colorSuccess).
	Bold(true).
	Padding(0, 1)

// MarkedItem is the export mark beside a stat.
var MarkedItem = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// LinkStyle for source links.
var LinkStyle = lipgloss.NewStyle().
	Foreground(colorLink).
	Underline(true).
	Padding(0, 1)

// TableHeader style for the table view header row.
var TableHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// ChartBar style for unselected chart bars.
var ChartBar = lipgloss.NewStyle().
	Foreground(colorPrimary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// NoticeStyle for one-shot confirmations such as a finished export.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// FilterBar style for the active filter line.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// FilterBarPrompt style for the "/" prompt and facet names.
var FilterBarPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// FilterBarText style for facet values.
var FilterBarText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// FilterBarCount style for the filtered count.
var FilterBarCount = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Panel frames the detail, insights and guided-filter overlays.
var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)
