package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/activity"
)

type reportMode int

const (
	reportMonthly reportMode = iota
	reportWeekday
)

// reportsModel charts cached activity for the heatmap's window. It never
// goes upstream.
type reportsModel struct {
	env    *Env
	width  int
	height int

	mode    reportMode
	win     window
	rng     activity.Range
	records []activity.Record

	chart barchart.Model
}

func newReportsModel(env *Env) reportsModel {
	return reportsModel{
		env:   env,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	win     window
	rng     activity.Range
	records []activity.Record
}

func (r reportsModel) refresh(win window) tea.Cmd {
	env := r.env
	return func() tea.Msg {
		rng := win.span(env.today())
		records, err := env.Store.Read(context.Background(), win.source, rng)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Reports: %v", err), isError: true}
		}
		return reportsDataMsg{win: win, rng: rng, records: records}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.win = msg.win
		r.rng = msg.rng
		r.records = msg.records
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if r.mode == reportMonthly {
				r.mode = reportWeekday
			} else {
				r.mode = reportMonthly
			}
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

type bar struct {
	label string
	value int
}

func (r reportsModel) bars() []bar {
	var out []bar
	switch r.mode {
	case reportWeekday:
		totals := weekdayTotals(r.records)
		for d := time.Sunday; d <= time.Saturday; d++ {
			out = append(out, bar{label: d.String()[:3], value: totals[d]})
		}
	default:
		for _, m := range activity.Monthly(r.records) {
			out = append(out, bar{label: m.Month.String()[:3], value: m.Total})
		}
	}
	return out
}

func weekdayTotals(records []activity.Record) [7]int {
	var out [7]int
	for _, rec := range records {
		out[rec.Date.Weekday()] += rec.Count
	}
	return out
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	style := lipgloss.NewStyle().Foreground(sourceColor(r.win.source))
	var data []barchart.BarData
	for _, b := range r.bars() {
		data = append(data, barchart.BarData{
			Label: b.label,
			Values: []barchart.BarValue{{
				Name:  b.label,
				Value: float64(b.value),
				Style: style,
			}},
		})
	}

	r.chart.PushAll(data)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	monthlyTab := inactiveTabStyle.Render("Monthly")
	weekdayTab := inactiveTabStyle.Render("Weekday")
	if r.mode == reportMonthly {
		monthlyTab = activeTabStyle.Render("Monthly")
	} else {
		weekdayTab = activeTabStyle.Render("Weekday")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, monthlyTab, weekdayTab)

	dateLabel := ""
	if !r.rng.Start.IsZero() {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s  %s to %s", sourceLabel(r.win.source), formatDay(r.rng.Start), formatDay(r.rng.End)))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: switch mode  s/m on the heatmap pick the window")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	bars := r.bars()
	total := 0
	for _, b := range bars {
		total += b.value
	}
	if total == 0 {
		return mutedStyle.Render("  No activity for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %10s %8s", "Period", "Count", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 30))))
	for _, b := range bars {
		share := float64(b.value) / float64(total) * 100
		rows = append(rows, fmt.Sprintf("  %-10s %10d %7.1f%%", b.label, b.value, share))
	}
	return strings.Join(rows, "\n")
}
