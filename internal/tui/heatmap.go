package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/store"
	"github.com/sadopc/tally/internal/syncer"
)

const (
	modeTrailing = "trailing"
	modeYear     = "year"
)

// window is what the heatmap shows: one source over the trailing year or
// one calendar year.
type window struct {
	source activity.Source
	mode   string
	year   int
}

// span is the date range to load for w. Current-year windows stop at today.
func (w window) span(today activity.Date) activity.Range {
	if w.mode == modeTrailing {
		return activity.TrailingGrid(today).Range()
	}
	r := activity.YearRange(w.year)
	if r.End.After(today) {
		r.End = today
	}
	return r
}

func (w window) grid(today activity.Date, records []activity.Record) activity.Grid {
	if w.mode == modeTrailing {
		return activity.TrailingGrid(today)
	}
	var latest activity.Date
	if span, ok := activity.Span(recordDates(records)); ok {
		latest = span.End
	}
	return activity.YearGrid(w.year, today, latest)
}

func (w window) title(total int) string {
	if w.mode == modeTrailing {
		return fmt.Sprintf("%s in the last year", unit(w.source, total))
	}
	return fmt.Sprintf("%s in %d", unit(w.source, total), w.year)
}

func recordDates(records []activity.Record) []activity.Date {
	out := make([]activity.Date, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

// loadWindow reads the persisted view settings, falling back to the
// trailing view of the first configured source.
func loadWindow(env *Env) window {
	today := env.today()
	sources := env.sources()
	w := window{source: sources[0], mode: modeTrailing, year: today.Year()}

	src := activity.Source(env.Store.SettingOr(store.SettingViewSource, string(w.source)))
	for _, s := range sources {
		if s == src {
			w.source = src
		}
	}
	if env.Store.SettingOr(store.SettingViewMode, modeTrailing) == modeYear {
		w.mode = modeYear
	}
	if y, err := strconv.Atoi(env.Store.SettingOr(store.SettingViewYear, "")); err == nil && y > 0 && y <= today.Year() {
		w.year = y
	}
	return w
}

func saveWindow(env *Env, w window) tea.Cmd {
	return func() tea.Msg {
		for k, v := range map[string]string{
			store.SettingViewSource: string(w.source),
			store.SettingViewMode:   w.mode,
			store.SettingViewYear:   strconv.Itoa(w.year),
		} {
			if err := env.Store.SetSetting(k, v); err != nil {
				return statusMsg{text: fmt.Sprintf("Save view: %v", err), isError: true}
			}
		}
		return nil
	}
}

type heatmapModel struct {
	env    *Env
	width  int
	height int

	win     window
	years   []int
	loading bool
	spinner spinner.Model

	rng     activity.Range
	records []activity.Record
	err     error
}

func newHeatmapModel(env *Env) heatmapModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return heatmapModel{
		env:     env,
		win:     loadWindow(env),
		years:   []int{env.today().Year()},
		loading: true,
		spinner: sp,
	}
}

func (h heatmapModel) Init() tea.Cmd {
	return h.loadData()
}

func (h *heatmapModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type heatmapDataMsg struct {
	win     window
	rng     activity.Range
	records []activity.Record
	years   []int
	err     error
}

// loadData syncs the window through the orchestrator, which only goes
// upstream for days the cache lacks. Unconfigured sources read the cache.
func (h heatmapModel) loadData() tea.Cmd {
	env, win := h.env, h.win
	load := func() tea.Msg {
		ctx := context.Background()
		today := env.today()
		rng := win.span(today)
		msg := heatmapDataMsg{win: win, rng: rng, years: availableYears(ctx, env, win.source, today)}

		if o := env.orchestrator(win.source); o != nil {
			res, err := o.Sync(ctx, syncer.Request{Range: rng})
			msg.records, msg.err = res.Records, err
		} else {
			msg.records, msg.err = env.Store.Read(ctx, win.source, rng)
		}
		return msg
	}
	return tea.Batch(h.spinner.Tick, load)
}

// availableYears runs from the first cached year to the current one.
func availableYears(ctx context.Context, env *Env, src activity.Source, today activity.Date) []int {
	first := today.Year()
	if b, ok, err := env.Store.Bounds(ctx, src); err == nil && ok {
		first = b.First.Year()
	}
	return activity.Years(first, today.Year())
}

func (h heatmapModel) update(msg tea.Msg) (heatmapModel, tea.Cmd) {
	switch msg := msg.(type) {
	case heatmapDataMsg:
		if msg.win != h.win {
			return h, nil
		}
		h.loading = false
		h.rng = msg.rng
		h.records = msg.records
		h.years = msg.years
		h.err = msg.err
		return h, nil

	case spinner.TickMsg:
		if !h.loading {
			return h, nil
		}
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case prefsChangedMsg:
		h.win = loadWindow(h.env)
		return h.reload()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Source):
			h.win.source = nextSource(h.env.sources(), h.win.source)
			return h.reload()
		case key.Matches(msg, keys.Mode):
			if h.win.mode == modeTrailing {
				h.win.mode = modeYear
			} else {
				h.win.mode = modeTrailing
			}
			return h.reload()
		case key.Matches(msg, keys.Left):
			if h.win.mode == modeYear && h.win.year > h.oldestYear() {
				h.win.year--
				return h.reload()
			}
		case key.Matches(msg, keys.Right):
			if h.win.mode == modeYear && h.win.year < h.env.today().Year() {
				h.win.year++
				return h.reload()
			}
		case key.Matches(msg, keys.Reload):
			return h.reload()
		}
	}
	return h, nil
}

func (h heatmapModel) oldestYear() int {
	if len(h.years) == 0 {
		return h.win.year
	}
	return h.years[len(h.years)-1]
}

func (h heatmapModel) reload() (heatmapModel, tea.Cmd) {
	h.loading = true
	return h, tea.Batch(h.loadData(), saveWindow(h.env, h.win))
}

func (h heatmapModel) view() string {
	w := h.width - 4
	today := h.env.today()
	sum := activity.Summarize(h.records)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(sourceLabel(h.win.source)), "  ",
		h.renderModeTabs(), "  ",
		subtitleStyle.Render(h.win.title(sum.Total)),
	)
	if h.loading {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, "  ", h.spinner.View(), mutedStyle.Render(" syncing"))
	}

	var body string
	switch {
	case h.err != nil:
		body = errorStyle.Render("  " + h.err.Error())
	default:
		grid := h.win.grid(today, h.records)
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderGrid(grid, activity.LevelsByDate(h.records), h.win.source),
			"",
			renderLegend(h.win.source),
		)
	}

	streaks := activity.Streaks(h.records, today)
	stats := renderStats(h.win.source, sum, streaks)
	latest := renderLatest(h.records)

	nav := mutedStyle.Render("  s: source  m: year/last year  ←/→: change year  r: reload")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", stats, "", latest, "", nav),
	)
}

func (h heatmapModel) renderModeTabs() string {
	last := inactiveTabStyle.Render("Last Year")
	year := inactiveTabStyle.Render(strconv.Itoa(h.win.year))
	if h.win.mode == modeTrailing {
		last = activeTabStyle.Render("Last Year")
	} else {
		year = activeTabStyle.Render(strconv.Itoa(h.win.year))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, last, year)
}

const cellGlyph = "■"

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// renderGrid draws the calendar with weeks as columns and weekdays as rows.
func renderGrid(g activity.Grid, levels map[activity.Date]int, src activity.Source) string {
	if len(g.Weeks) == 0 {
		return mutedStyle.Render("  No days to show")
	}

	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(monthLabels(g))
	b.WriteString("\n")

	for day := 0; day < 7; day++ {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-4s", weekdayLabels[day])))
		for _, week := range g.Weeks {
			c := week[day]
			if c.IsPlaceholder() {
				b.WriteString("  ")
				continue
			}
			b.WriteString(levelStyle(src, levels[c.Date]).Render(cellGlyph))
			b.WriteString(" ")
		}
		if day < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// monthLabels places a month abbreviation above the week holding its 1st,
// or above the first week for the month the grid opens in.
func monthLabels(g activity.Grid) string {
	line := []rune(strings.Repeat(" ", len(g.Weeks)*2+3))
	for i, week := range g.Weeks {
		for _, c := range week {
			if c.IsPlaceholder() || (c.Date.Day() != 1 && !(i == 0 && c.Date == g.First)) {
				continue
			}
			if i == 0 && c.Date.Day() > 21 {
				// Too close to the next month's label.
				continue
			}
			copy(line[i*2:], []rune(c.Date.Format("Jan")))
		}
	}
	return mutedStyle.Render(strings.TrimRight(string(line), " "))
}

func renderLegend(src activity.Source) string {
	var cells []string
	for l := 0; l <= activity.MaxLevel; l++ {
		cells = append(cells, levelStyle(src, l).Render(cellGlyph))
	}
	return mutedStyle.Render("    Less ") + strings.Join(cells, " ") + mutedStyle.Render(" More")
}

func renderStats(src activity.Source, sum activity.Summary, s activity.StreakResult) string {
	stat := func(label, value, sub string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(label),
			statValueStyle.Render(value),
			mutedStyle.Render(sub),
		)
	}
	col := lipgloss.NewStyle().Width(24)
	days := func(n int) string {
		if n == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", n)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ",
		col.Render(stat("Total", unit(src, sum.Total), fmt.Sprintf("%d active days", sum.ActiveDays))),
		col.Render(stat("Current streak", days(s.Current), formatSpan(s.CurrentStart, s.CurrentEnd))),
		col.Render(stat("Longest streak", days(s.Longest), formatSpan(s.LongestStart, s.LongestEnd))),
		col.Render(stat("Busiest day", formatDay(sum.Busiest.Date), busiestSub(src, sum.Busiest))),
	)
}

func busiestSub(src activity.Source, r activity.Record) string {
	if r.Count == 0 {
		return ""
	}
	return unit(src, r.Count)
}

// renderLatest lists what happened on the most recent active day.
func renderLatest(records []activity.Record) string {
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Count <= 0 || r.Detail.IsEmpty() {
			continue
		}
		rows := []string{titleStyle.Render("  Latest: ") + highlightStyle.Render(formatDay(r.Date))}
		for j, line := range detailLines(r.Detail) {
			if j == 5 {
				rows = append(rows, mutedStyle.Render("    ..."))
				break
			}
			rows = append(rows, "    "+line)
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	return mutedStyle.Render("  No recent activity details")
}

func detailLines(d activity.Detail) []string {
	var out []string
	for _, c := range d.Activities {
		out = append(out, mutedStyle.Render(c.Repository)+" "+c.Summary)
	}
	for _, v := range d.Items {
		out = append(out, v.Title)
	}
	if len(out) == 0 {
		out = append(out, d.Repositories...)
	}
	return out
}
