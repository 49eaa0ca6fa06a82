package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tally/internal/store"
)

type settingsModel struct {
	env    *Env
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	viewSource *string
	viewMode   *string
	viewYear   *string
}

func newSettingsModel(env *Env) settingsModel {
	src, mode, year := "", "", ""
	return settingsModel{
		env:        env,
		viewSource: &src,
		viewMode:   &mode,
		viewYear:   &year,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.env.Store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	w := loadWindow(s.env)
	*s.viewSource = string(w.source)
	*s.viewMode = w.mode
	*s.viewYear = strconv.Itoa(w.year)

	var sources []huh.Option[string]
	for _, src := range s.env.sources() {
		sources = append(sources, huh.NewOption(sourceLabel(src), string(src)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Source").
				Options(sources...).
				Value(s.viewSource),
			huh.NewSelect[string]().Title("Heatmap window").
				Options(
					huh.NewOption("Last year (trailing 365 days)", modeTrailing),
					huh.NewOption("Calendar year", modeYear),
				).Value(s.viewMode),
			huh.NewInput().Title("Calendar year").
				Value(s.viewYear).
				Validate(s.validateYear),
		).Title("Heatmap"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) validateYear(v string) error {
	y, err := strconv.Atoi(v)
	if err != nil {
		return errors.New("enter a year like 2024")
	}
	if now := s.env.today().Year(); y < 2008 || y > now {
		return fmt.Errorf("year must be between 2008 and %d", now)
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Sequence(s.saveSettings(), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	values := map[string]string{
		store.SettingViewSource: *s.viewSource,
		store.SettingViewMode:   *s.viewMode,
		store.SettingViewYear:   *s.viewYear,
	}
	return func() tea.Msg {
		for k, v := range values {
			if err := s.env.Store.SetSetting(k, v); err != nil {
				return statusMsg{text: fmt.Sprintf("Save settings: %v", err), isError: true}
			}
		}
		return prefsChangedMsg{}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.SettingViewSource:
		return "Source"
	case store.SettingViewMode:
		return "Heatmap window"
	case store.SettingViewYear:
		return "Calendar year"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingViewMode:
		if v == modeYear {
			return "calendar year"
		}
		return "last year"
	case store.SettingViewYear:
		if v == "" {
			return "current"
		}
	}
	return v
}
