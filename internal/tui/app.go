package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/export"
)

// App is the root Bubble Tea model.
type App struct {
	env    *Env
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	heatmap  heatmapModel
	reports  reportsModel
	refresh  refreshModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(env Env) App {
	h := help.New()
	h.ShowAll = false

	e := &env
	return App{
		env:        e,
		activeView: viewHeatmap,
		heatmap:    newHeatmapModel(e),
		reports:    newReportsModel(e),
		refresh:    newRefreshModel(e),
		settings:   newSettingsModel(e),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.heatmap.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.heatmap.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.refresh.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHeatmap
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			return a, a.reports.refresh(a.heatmap.win)
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewRefresh
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.env.Logger.Warn().Msg(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case prefsChangedMsg:
		// The heatmap owns the window; reload it wherever the change came from.
		var cmd tea.Cmd
		a.heatmap, cmd = a.heatmap.update(msg)
		return a, cmd

	case heatmapDataMsg:
		var cmd tea.Cmd
		a.heatmap, cmd = a.heatmap.update(msg)
		if msg.err != nil {
			a.status = "Sync failed: " + msg.err.Error()
		}
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id.
		var hc, rc tea.Cmd
		a.heatmap, hc = a.heatmap.update(msg)
		a.refresh, rc = a.refresh.update(msg)
		return a, tea.Batch(hc, rc)

	case refreshDoneMsg:
		var cmd tea.Cmd
		a.refresh, cmd = a.refresh.update(msg)
		a.status = "Refresh finished"
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHeatmap:
		a.heatmap, cmd = a.heatmap.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewRefresh:
		a.refresh, cmd = a.refresh.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewReports:
		return a.reports.refresh(a.heatmap.win)
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHeatmap:
		content = a.heatmap.view()
	case viewReports:
		content = a.reports.view()
	case viewRefresh:
		content = a.refresh.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("tally")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Sync indicator in footer
	syncInfo := ""
	if a.heatmap.loading || a.refresh.running {
		syncInfo = warningStyle.Render(" ● syncing")
	}

	left := footerStyle.Render(helpView)
	right := syncInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"))
	rng := a.heatmap.win.span(a.env.today())
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%s, %s to %s", sourceLabel(a.heatmap.win.source), rng.Start, rng.End)))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the heatmap's current window from the cache.
func (a App) doExport(format int) tea.Cmd {
	env, win := a.env, a.heatmap.win
	return func() tea.Msg {
		today := env.today()
		rng := win.span(today)
		records, err := env.Store.Read(context.Background(), win.source, rng)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dir := env.ExportDir
		if dir == "" {
			dir, _ = os.UserHomeDir()
		}

		var path string
		if format == 0 {
			path = filepath.Join(dir, export.Filename(win.source, rng, "csv"))
			if err := export.ToCSV(win.source, records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.Filename(win.source, rng, "json"))
			if err := export.ToJSON(win.source, rng, records, today, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
