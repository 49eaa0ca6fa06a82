package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/activity"
)

// Dark palette matched to the heatmap's empty cell.
var (
	colorPrimary   = lipgloss.Color("#58A6FF")
	colorMuted     = lipgloss.Color("#7D8590")
	colorSuccess   = lipgloss.Color("#3FB950")
	colorWarning   = lipgloss.Color("#D29922")
	colorError     = lipgloss.Color("#F85149")
	colorFg        = lipgloss.Color("#E6EDF3")
	colorSubtle    = lipgloss.Color("#30363D")
	colorHighlight = lipgloss.Color("#A5D6FF")
)

// Intensity ramps, level 0 through 4.
var levelColors = map[activity.Source][activity.MaxLevel + 1]lipgloss.Color{
	activity.GitHub:  {"#2D333B", "#0E4429", "#006D32", "#26A641", "#39D353"},
	activity.YouTube: {"#2D333B", "#5C1A1A", "#8F2424", "#C92A2A", "#FF4D4D"},
}

// levelStyle colours one heatmap cell. Unknown sources use the GitHub ramp
// and out-of-range levels are clamped.
func levelStyle(src activity.Source, level int) lipgloss.Style {
	ramp, ok := levelColors[src]
	if !ok {
		ramp = levelColors[activity.GitHub]
	}
	level = max(0, min(level, activity.MaxLevel))
	return lipgloss.NewStyle().Foreground(ramp[level])
}

func sourceColor(src activity.Source) lipgloss.Color {
	return levelColors[src][3]
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bordered(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(1, 2)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = bordered(colorSubtle)
	activePanelStyle = bordered(colorPrimary)

	statValueStyle = fg(colorFg).Bold(true)
	titleStyle     = fg(colorFg).Bold(true)
	subtitleStyle  = fg(colorMuted)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)
)
