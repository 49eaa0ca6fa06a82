package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/syncer"
)

// quickRanges are the trailing day counts offered for a forced refresh.
var quickRanges = []struct {
	label string
	days  int
}{
	{"7 days", 7},
	{"30 days", 30},
	{"90 days", 90},
	{"Last year", 365},
}

// refreshModel discards and refetches a trailing range for one or all
// sources.
type refreshModel struct {
	env    *Env
	width  int
	height int

	rangeCursor  int
	targetCursor int
	running      bool
	spinner      spinner.Model
	outcomes     []syncer.Outcome
}

func newRefreshModel(env *Env) refreshModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return refreshModel{env: env, spinner: sp}
}

func (m *refreshModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// targets lists each configured source, then "all" when there are several.
func (m refreshModel) targets() []string {
	var out []string
	for _, o := range m.env.Orchestrators {
		out = append(out, sourceLabel(o.Source()))
	}
	if len(out) > 1 {
		out = append(out, "All sources")
	}
	return out
}

func (m refreshModel) selected() []*syncer.Orchestrator {
	if m.targetCursor >= len(m.env.Orchestrators) {
		return m.env.Orchestrators
	}
	return []*syncer.Orchestrator{m.env.Orchestrators[m.targetCursor]}
}

func (m refreshModel) selectedRange() activity.Range {
	return activity.Trailing(m.env.today(), quickRanges[m.rangeCursor].days)
}

type refreshDoneMsg struct {
	outcomes []syncer.Outcome
}

func (m refreshModel) run() tea.Cmd {
	orchs, rng := m.selected(), m.selectedRange()
	do := func() tea.Msg {
		out := syncer.SyncAll(context.Background(), orchs, syncer.Request{Range: rng, Force: true})
		return refreshDoneMsg{outcomes: out}
	}
	return tea.Batch(m.spinner.Tick, do)
}

func (m refreshModel) update(msg tea.Msg) (refreshModel, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshDoneMsg:
		m.running = false
		m.outcomes = msg.outcomes
		return m, func() tea.Msg { return prefsChangedMsg{} }

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			if m.rangeCursor > 0 {
				m.rangeCursor--
			}
		case key.Matches(msg, keys.Right):
			if m.rangeCursor < len(quickRanges)-1 {
				m.rangeCursor++
			}
		case key.Matches(msg, keys.Up):
			if m.targetCursor > 0 {
				m.targetCursor--
			}
		case key.Matches(msg, keys.Down):
			if m.targetCursor < len(m.targets())-1 {
				m.targetCursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(m.env.Orchestrators) == 0 {
				return m, func() tea.Msg {
					return statusMsg{text: "No sources configured. Set github.user and token, or youtube.handle and api_key, in the config.", isError: true}
				}
			}
			m.running = true
			m.outcomes = nil
			return m, m.run()
		}
	}
	return m, nil
}

func (m refreshModel) view() string {
	w := m.width - 4

	var rows []string
	rows = append(rows, titleStyle.Render("Manual Refresh"))
	rows = append(rows, mutedStyle.Render("Discards cached days in the range and fetches them again."))
	rows = append(rows, "")

	var ranges []string
	for i, r := range quickRanges {
		if i == m.rangeCursor {
			ranges = append(ranges, activeTabStyle.Render(r.label))
		} else {
			ranges = append(ranges, inactiveTabStyle.Render(r.label))
		}
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, ranges...))
	rng := m.selectedRange()
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  Selected range: %s to %s (%d days)", rng.Start, rng.End, rng.Len())))
	rows = append(rows, "")

	for i, t := range m.targets() {
		cursor := "  "
		style := normalItemStyle
		if i == m.targetCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+t))
	}
	if len(m.env.Orchestrators) == 0 {
		rows = append(rows, warningStyle.Render("  No sources configured"))
	}
	rows = append(rows, "")

	switch {
	case m.running:
		rows = append(rows, m.spinner.View()+mutedStyle.Render(" refreshing"))
	case len(m.outcomes) > 0:
		for _, o := range m.outcomes {
			if o.Err != nil {
				rows = append(rows, errorStyle.Render(fmt.Sprintf("  ✗ %s: %v", sourceLabel(o.Source), o.Err)))
				continue
			}
			total := activity.Summarize(o.Result.Records).Total
			rows = append(rows, successStyle.Render(fmt.Sprintf("  ✓ %s: refetched %d days, %s",
				sourceLabel(o.Source), o.Result.Fetched, unit(o.Source, total))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: range  ↑/↓: source  enter: refresh"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
