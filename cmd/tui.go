package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/tally/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEngine(cmd.Context(), engineOptions{LogFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(tui.Env{
		Store:         e.store,
		Orchestrators: e.orchestrators,
		Clock:         e.clock,
		Location:      e.cfg.Location(),
		Logger:        e.logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
