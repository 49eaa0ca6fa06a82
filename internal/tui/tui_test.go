package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/store"
	"github.com/sadopc/tally/internal/syncer"
)

type fakeAdapter struct {
	src activity.Source

	mu    sync.Mutex
	calls [][]activity.Date
}

func (f *fakeAdapter) Source() activity.Source { return f.src }

func (f *fakeAdapter) Fetch(_ context.Context, dates []activity.Date) []activity.Record {
	f.mu.Lock()
	f.calls = append(f.calls, dates)
	f.mu.Unlock()
	out := make([]activity.Record, len(dates))
	for i, d := range dates {
		out[i] = activity.Record{Date: d, Count: d.Day() % 3}
	}
	return out
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type testEnv struct {
	env     *Env
	github  *fakeAdapter
	youtube *fakeAdapter
}

// newTestEnv pins today to 2024-06-15 UTC.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	s := newTestStore(t)
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC))

	gh := &fakeAdapter{src: activity.GitHub}
	yt := &fakeAdapter{src: activity.YouTube}
	opts := syncer.Options{Logger: zerolog.Nop(), Clock: clock}
	return testEnv{
		env: &Env{
			Store: s,
			Orchestrators: []*syncer.Orchestrator{
				syncer.New(s, gh, opts),
				syncer.New(s, yt, opts),
			},
			Clock:     clock,
			Location:  time.UTC,
			Logger:    zerolog.Nop(),
			ExportDir: t.TempDir(),
		},
		github:  gh,
		youtube: yt,
	}
}

// runCmd executes cmd and any batches it returns, collecting the messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Window
// ============================================================

func TestLoadWindowDefaults(t *testing.T) {
	te := newTestEnv(t)
	w := loadWindow(te.env)

	if w.source != activity.GitHub {
		t.Fatalf("source = %q, want github", w.source)
	}
	if w.mode != modeTrailing {
		t.Fatalf("mode = %q, want trailing", w.mode)
	}
	if w.year != 2024 {
		t.Fatalf("year = %d, want 2024", w.year)
	}
}

func TestLoadWindowFromSettings(t *testing.T) {
	te := newTestEnv(t)
	s := te.env.Store
	s.SetSetting(store.SettingViewSource, "youtube")
	s.SetSetting(store.SettingViewMode, "year")
	s.SetSetting(store.SettingViewYear, "2022")

	w := loadWindow(te.env)
	if w != (window{source: activity.YouTube, mode: modeYear, year: 2022}) {
		t.Fatalf("unexpected window %+v", w)
	}

	// Years after today and unknown sources fall back.
	s.SetSetting(store.SettingViewSource, "twitch")
	s.SetSetting(store.SettingViewYear, "2999")
	w = loadWindow(te.env)
	if w.source != activity.GitHub || w.year != 2024 {
		t.Fatalf("expected fallback, got %+v", w)
	}
}

func TestWindowSpan(t *testing.T) {
	today := activity.MustParseDate("2024-06-15")
	tests := []struct {
		win  window
		want string
	}{
		{window{mode: modeTrailing}, "2023-06-16..2024-06-15"},
		{window{mode: modeYear, year: 2024}, "2024-01-01..2024-06-15"},
		{window{mode: modeYear, year: 2023}, "2023-01-01..2023-12-31"},
	}
	for _, tt := range tests {
		if got := tt.win.span(today).String(); got != tt.want {
			t.Errorf("span(%+v) = %s, want %s", tt.win, got, tt.want)
		}
	}
}

func TestWindowGridStopsAtLatestData(t *testing.T) {
	today := activity.MustParseDate("2024-06-15")
	records := []activity.Record{
		{Date: activity.MustParseDate("2023-01-01"), Count: 1},
		{Date: activity.MustParseDate("2023-03-10"), Count: 2},
	}
	g := window{mode: modeYear, year: 2023}.grid(today, records)
	if g.Last != activity.MustParseDate("2023-03-10") {
		t.Fatalf("grid should end at latest data, got %s", g.Last)
	}

	g = window{mode: modeTrailing}.grid(today, records)
	if g.Last != today {
		t.Fatalf("trailing grid should end today, got %s", g.Last)
	}
}

func TestWindowTitle(t *testing.T) {
	w := window{source: activity.GitHub, mode: modeTrailing}
	if got := w.title(12); got != "12 contributions in the last year" {
		t.Fatalf("title = %q", got)
	}
	w = window{source: activity.YouTube, mode: modeYear, year: 2023}
	if got := w.title(1); got != "1 upload in 2023" {
		t.Fatalf("title = %q", got)
	}
}

// ============================================================
// Heatmap model
// ============================================================

func TestHeatmapLoadSyncsWindow(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)
	if !h.loading {
		t.Fatal("heatmap should start loading")
	}

	data := findMsg[heatmapDataMsg](t, runCmd(h.Init()))
	if data.err != nil {
		t.Fatalf("load: %v", data.err)
	}
	if len(data.records) != 366 {
		t.Fatalf("expected 366 trailing days, got %d", len(data.records))
	}
	if len(te.github.calls) != 1 || len(te.youtube.calls) != 0 {
		t.Fatalf("expected one github fetch, got %d/%d", len(te.github.calls), len(te.youtube.calls))
	}

	h, _ = h.update(data)
	if h.loading {
		t.Fatal("loading should clear after data arrives")
	}

	// A second load is served from the cache and sees the cached years.
	h, _ = h.update(findMsg[heatmapDataMsg](t, runCmd(h.loadData())))
	if len(te.github.calls) != 1 {
		t.Fatalf("cached window should not refetch, got %d calls", len(te.github.calls))
	}
	if len(h.years) != 2 || h.years[0] != 2024 || h.years[1] != 2023 {
		t.Fatalf("years = %v, want [2024 2023]", h.years)
	}
}

func TestHeatmapIgnoresStaleData(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)

	stale := heatmapDataMsg{win: window{source: activity.YouTube, mode: modeTrailing, year: 2024}}
	h, _ = h.update(stale)
	if !h.loading {
		t.Fatal("data for another window should be ignored")
	}
}

func TestHeatmapSourceToggleSaves(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)
	h.loading = false

	h, cmd := h.update(keyPress("s"))
	if h.win.source != activity.YouTube {
		t.Fatalf("source = %q, want youtube", h.win.source)
	}
	if !h.loading {
		t.Fatal("toggle should start a load")
	}
	runCmd(cmd)

	if v := te.env.Store.SettingOr(store.SettingViewSource, ""); v != "youtube" {
		t.Fatalf("saved source = %q, want youtube", v)
	}
	if len(te.youtube.calls) != 1 {
		t.Fatal("toggle should sync the new source")
	}

	h, _ = h.update(keyPress("s"))
	if h.win.source != activity.GitHub {
		t.Fatal("toggle should cycle back to github")
	}
}

func TestHeatmapYearNavigation(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)
	h.years = []int{2024, 2023}

	// Left/right do nothing in trailing mode.
	h, _ = h.update(keyPress("left"))
	if h.win.year != 2024 {
		t.Fatal("year should not change in trailing mode")
	}

	h, _ = h.update(keyPress("m"))
	if h.win.mode != modeYear {
		t.Fatal("m should switch to year mode")
	}
	h, _ = h.update(keyPress("left"))
	if h.win.year != 2023 {
		t.Fatalf("year = %d, want 2023", h.win.year)
	}
	h, _ = h.update(keyPress("left"))
	if h.win.year != 2023 {
		t.Fatal("should not go past the oldest year")
	}
	h, _ = h.update(keyPress("right"))
	h, _ = h.update(keyPress("right"))
	if h.win.year != 2024 {
		t.Fatal("should not go past the current year")
	}
}

func TestHeatmapPrefsChangedReloads(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)
	te.env.Store.SetSetting(store.SettingViewMode, modeYear)

	h, cmd := h.update(prefsChangedMsg{})
	if h.win.mode != modeYear {
		t.Fatal("prefs change should reload the window")
	}
	if cmd == nil {
		t.Fatal("prefs change should trigger a load")
	}
}

func TestHeatmapView(t *testing.T) {
	te := newTestEnv(t)
	h := newHeatmapModel(te.env)
	h.setSize(140, 40)
	h, _ = h.update(findMsg[heatmapDataMsg](t, runCmd(h.loadData())))

	out := h.view()
	for _, want := range []string{"GitHub", "in the last year", "Current streak", "Longest streak", "Less", "More"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestRenderGridShape(t *testing.T) {
	g := activity.TrailingGrid(activity.MustParseDate("2024-06-15"))
	out := renderGrid(g, nil, activity.GitHub)
	if lines := strings.Count(out, "\n") + 1; lines != 8 {
		t.Fatalf("expected 8 lines (months + 7 days), got %d", lines)
	}
	if !strings.Contains(out, "Mon") || !strings.Contains(out, "Fri") {
		t.Fatal("weekday labels missing")
	}
	if got := strings.Count(out, cellGlyph); got != 366 {
		t.Fatalf("expected 366 day cells, got %d", got)
	}

	if out := renderGrid(activity.Grid{}, nil, activity.GitHub); !strings.Contains(out, "No days") {
		t.Fatal("empty grid should say so")
	}
}

func TestMonthLabels(t *testing.T) {
	g := activity.YearGrid(2023, activity.MustParseDate("2024-06-15"), activity.Date{})
	labels := monthLabels(g)
	for _, m := range []string{"Jan", "Jun", "Dec"} {
		if !strings.Contains(labels, m) {
			t.Fatalf("labels missing %s: %q", m, labels)
		}
	}
}

func TestRenderLatest(t *testing.T) {
	records := []activity.Record{
		{Date: activity.MustParseDate("2024-01-01"), Count: 1, Detail: activity.Detail{
			Activities: []activity.Commit{{Repository: "octocat/old", Summary: "old work"}},
		}},
		{Date: activity.MustParseDate("2024-01-02"), Count: 2, Detail: activity.Detail{
			Items: []activity.Video{{ID: "v", Title: "New video"}},
		}},
		{Date: activity.MustParseDate("2024-01-03"), Count: 0},
	}
	out := renderLatest(records)
	if !strings.Contains(out, "New video") || strings.Contains(out, "old work") {
		t.Fatalf("latest should show the most recent active day, got %q", out)
	}
	if out := renderLatest(nil); !strings.Contains(out, "No recent") {
		t.Fatal("empty records should say so")
	}
}

// ============================================================
// Reports model
// ============================================================

func TestReportsBars(t *testing.T) {
	te := newTestEnv(t)
	r := newReportsModel(te.env)
	r.setSize(120, 40)
	r, _ = r.update(reportsDataMsg{
		win: window{source: activity.GitHub, mode: modeYear, year: 2024},
		records: []activity.Record{
			{Date: activity.MustParseDate("2024-01-07"), Count: 3}, // Sunday
			{Date: activity.MustParseDate("2024-01-08"), Count: 1}, // Monday
			{Date: activity.MustParseDate("2024-02-04"), Count: 2}, // Sunday
		},
	})

	bars := r.bars()
	if len(bars) != 2 || bars[0].label != "Jan" || bars[0].value != 4 || bars[1].value != 2 {
		t.Fatalf("monthly bars = %+v", bars)
	}

	r, _ = r.update(keyPress("right"))
	bars = r.bars()
	if len(bars) != 7 || bars[0].label != "Sun" || bars[0].value != 5 || bars[1].value != 1 {
		t.Fatalf("weekday bars = %+v", bars)
	}

	out := r.view()
	if !strings.Contains(out, "Reports") || !strings.Contains(out, "Share") {
		t.Fatal("reports view missing header or table")
	}
}

func TestReportsRefreshReadsCacheOnly(t *testing.T) {
	te := newTestEnv(t)
	te.env.Store.Upsert(context.Background(), activity.GitHub, []activity.Record{
		{Date: activity.MustParseDate("2024-06-01"), Count: 5},
	})
	r := newReportsModel(te.env)

	msg := findMsg[reportsDataMsg](t, runCmd(r.refresh(window{source: activity.GitHub, mode: modeTrailing})))
	if len(msg.records) != 1 {
		t.Fatalf("expected 1 cached record, got %d", len(msg.records))
	}
	if len(te.github.calls) != 0 {
		t.Fatal("reports should never fetch upstream")
	}
}

func TestReportsEmpty(t *testing.T) {
	te := newTestEnv(t)
	r := newReportsModel(te.env)
	r.setSize(120, 40)
	if !strings.Contains(r.renderSummaryTable(100), "No activity") {
		t.Fatal("empty reports should say so")
	}
}

// ============================================================
// Refresh model
// ============================================================

func TestRefreshTargets(t *testing.T) {
	te := newTestEnv(t)
	m := newRefreshModel(te.env)

	targets := m.targets()
	if len(targets) != 3 || targets[2] != "All sources" {
		t.Fatalf("targets = %v", targets)
	}

	m, _ = m.update(keyPress("down"))
	m, _ = m.update(keyPress("down"))
	m, _ = m.update(keyPress("down"))
	if m.targetCursor != 2 || len(m.selected()) != 2 {
		t.Fatalf("cursor %d should select both sources", m.targetCursor)
	}

	m, _ = m.update(keyPress("right"))
	if got := m.selectedRange().Len(); got != 30 {
		t.Fatalf("range = %d days, want 30", got)
	}
}

func TestRefreshRunForcesRange(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	te.env.Store.Upsert(ctx, activity.GitHub, []activity.Record{
		{Date: activity.MustParseDate("2024-06-14"), Count: 40},
	})
	m := newRefreshModel(te.env)

	m, cmd := m.update(keyPress("enter"))
	if !m.running {
		t.Fatal("enter should start a refresh")
	}
	done := findMsg[refreshDoneMsg](t, runCmd(cmd))
	if len(done.outcomes) != 1 || done.outcomes[0].Err != nil {
		t.Fatalf("unexpected outcomes %+v", done.outcomes)
	}
	if len(te.github.calls) != 1 || len(te.github.calls[0]) != 7 {
		t.Fatal("forced refresh should refetch all 7 days")
	}

	recs, _ := te.env.Store.Read(ctx, activity.GitHub, activity.Range{
		Start: activity.MustParseDate("2024-06-14"), End: activity.MustParseDate("2024-06-14"),
	})
	if len(recs) != 1 || recs[0].Count != 14%3 {
		t.Fatalf("stale count should be replaced, got %+v", recs)
	}

	m, next := m.update(done)
	if m.running {
		t.Fatal("refresh should finish")
	}
	findMsg[prefsChangedMsg](t, runCmd(next))
	if !strings.Contains(m.view(), "refetched 7 days") {
		t.Fatal("view should report the outcome")
	}
}

func TestRefreshWithoutSources(t *testing.T) {
	te := newTestEnv(t)
	te.env.Orchestrators = nil
	m := newRefreshModel(te.env)

	m, cmd := m.update(keyPress("enter"))
	if m.running {
		t.Fatal("refresh should not start without sources")
	}
	status := findMsg[statusMsg](t, runCmd(cmd))
	if !status.isError {
		t.Fatal("expected an error status")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsValidateYear(t *testing.T) {
	te := newTestEnv(t)
	s := newSettingsModel(te.env)

	for _, v := range []string{"2024", "2008", "2020"} {
		if err := s.validateYear(v); err != nil {
			t.Errorf("validateYear(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"", "abc", "2007", "2025"} {
		if err := s.validateYear(v); err == nil {
			t.Errorf("validateYear(%q) should fail", v)
		}
	}
}

func TestSettingsSave(t *testing.T) {
	te := newTestEnv(t)
	s := newSettingsModel(te.env)
	*s.viewSource = "youtube"
	*s.viewMode = modeYear
	*s.viewYear = "2023"

	findMsg[prefsChangedMsg](t, runCmd(s.saveSettings()))
	if w := loadWindow(te.env); w != (window{source: activity.YouTube, mode: modeYear, year: 2023}) {
		t.Fatalf("saved window = %+v", w)
	}
}

func TestSettingsShowFormAndCancel(t *testing.T) {
	te := newTestEnv(t)
	s := newSettingsModel(te.env)
	s.setSize(120, 40)

	s, _ = s.update(keyPress("enter"))
	if !s.formActive || s.form == nil {
		t.Fatal("enter should open the form")
	}
	if *s.viewSource != "github" || *s.viewYear != "2024" {
		t.Fatal("form should be seeded with the current window")
	}

	s, _ = s.update(keyPress("esc"))
	if s.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{store.SettingViewMode, "year", "calendar year"},
		{store.SettingViewMode, "trailing", "last year"},
		{store.SettingViewYear, "", "current"},
		{store.SettingViewYear, "2023", "2023"},
		{store.SettingViewSource, "github", "github"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
	if settingLabel("unknown_key") != "unknown_key" {
		t.Fatal("unknown keys should render as-is")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestUnit(t *testing.T) {
	if unit(activity.GitHub, 1) != "1 contribution" || unit(activity.YouTube, 3) != "3 uploads" {
		t.Fatal("unexpected unit text")
	}
}

func TestNextSource(t *testing.T) {
	list := []activity.Source{activity.GitHub, activity.YouTube}
	if nextSource(list, activity.GitHub) != activity.YouTube {
		t.Fatal("github -> youtube")
	}
	if nextSource(list, activity.YouTube) != activity.GitHub {
		t.Fatal("youtube -> github")
	}
	if nextSource([]activity.Source{activity.YouTube}, activity.GitHub) != activity.YouTube {
		t.Fatal("unknown current should pick the first")
	}
}

func TestFormatSpan(t *testing.T) {
	d := activity.MustParseDate("2024-03-05")
	if formatSpan(d, d) != "Mar 5" {
		t.Fatal("single day span")
	}
	if formatSpan(d, d.AddDays(2)) != "Mar 5 - Mar 7" {
		t.Fatal("multi day span")
	}
	if formatSpan(activity.Date{}, activity.Date{}) != "" {
		t.Fatal("empty span")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewHeatmap] != "Heatmap" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	te := newTestEnv(t)
	app := NewApp(*te.env)

	if app.activeView != viewHeatmap {
		t.Fatal("default view should be heatmap")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	te := newTestEnv(t)
	app := NewApp(*te.env)
	app.width = 120
	app.height = 40

	for v := viewHeatmap; v <= viewSettings; v++ {
		app.activeView = v
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	te := newTestEnv(t)
	var m tea.Model = NewApp(*te.env)

	for i := 0; i < len(viewNames); i++ {
		m, _ = m.Update(keyPress("tab"))
	}
	if m.(App).activeView != viewHeatmap {
		t.Fatal("tab should wrap around to the heatmap")
	}

	m, _ = m.Update(keyPress("3"))
	if m.(App).activeView != viewRefresh {
		t.Fatal("3 should open refresh")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	te := newTestEnv(t)
	app := NewApp(*te.env)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	te := newTestEnv(t)
	app := NewApp(*te.env)
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	te := newTestEnv(t)
	var m tea.Model = NewApp(*te.env)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(statusMsg{text: "test status"})

	if !strings.Contains(m.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExport(t *testing.T) {
	te := newTestEnv(t)
	var m tea.Model = NewApp(*te.env)
	runCmd(m.Init())

	m, _ = m.Update(keyPress("e"))
	if !m.(App).exportPicking {
		t.Fatal("e should open the export picker")
	}
	m, _ = m.Update(keyPress("down"))
	m, cmd := m.Update(keyPress("enter"))
	if m.(App).exportPicking {
		t.Fatal("enter should close the picker")
	}

	done := findMsg[exportDoneMsg](t, runCmd(cmd))
	if filepath.Ext(done.path) != ".json" {
		t.Fatalf("expected a json export, got %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	m, _ = m.Update(done)
	if !strings.Contains(m.(App).status, "Exported to") {
		t.Fatal("status should report the export")
	}
}

func TestAppExportCancel(t *testing.T) {
	te := newTestEnv(t)
	var m tea.Model = NewApp(*te.env)
	m, _ = m.Update(keyPress("e"))
	m, _ = m.Update(keyPress("esc"))
	if m.(App).exportPicking {
		t.Fatal("esc should cancel the export picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"statValue", func() string { return statValueStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"level", func() string { return levelStyle(activity.YouTube, 9).Render("test") }},
	}

	for _, s := range styles {
		if result := s.fn(); result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
