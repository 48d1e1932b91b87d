package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/internal/tui"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive scenario forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected models.Scenario
			if a.cfg.Display.DefaultScenario != "" {
				s, err := scenario.Parse(a.cfg.Display.DefaultScenario)
				if err != nil {
					return fmt.Errorf("invalid DEFAULT_SCENARIO: %w", err)
				}
				selected = s
			}

			ctrl, err := a.newController(nil, selected)
			if err != nil {
				return err
			}

			// Console logs would draw over the alternate screen.
			zerolog.SetGlobalLevel(zerolog.Disabled)

			p := tea.NewProgram(tui.New(cmd.Context(), ctrl), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("terminal UI failed: %w", err)
			}
			return nil
		},
	}
}
