package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/config"
	"github.com/RMahshie/wirelesscalc/internal/controller"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries the global flags and the configuration loaded before each command
type app struct {
	apiBaseURL string
	lang       string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wirelessctl",
		Short: "Client for the wireless network calculation service",
		Long: `wirelessctl submits scenario inputs to the wireless calculation service
and prints the formatted results.

Scenarios:
  wireless     Wireless communication system chain
  ofdm         OFDM resource block capacity
  linkbudget   AP and client link budget
  cellular     Cellular system dimensioning

Run "wirelessctl tui" for the interactive forms.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.apiBaseURL, "api-base-url", "", "calculation service base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "display language for messages: en or ar (overrides DISPLAY_LANGUAGE)")

	root.AddCommand(
		a.calcCmd(),
		a.scenariosCmd(),
		a.healthCmd(),
		a.tuiCmd(),
	)
	return root
}

// setup loads configuration and applies flag overrides
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.apiBaseURL != "" {
		cfg.API.BaseURL = a.apiBaseURL
	}
	if a.lang != "" {
		cfg.Display.Language = a.lang
	}
	config.SetupLogging(cfg.Log.Level)
	a.cfg = cfg
	return nil
}

func (a *app) newClient() (client.CalculationClient, error) {
	calc, err := client.NewClient(client.Config{BaseURL: a.cfg.API.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create calculation client: %w", err)
	}
	return calc, nil
}

func (a *app) newController(indicator controller.Indicator, selected models.Scenario) (*controller.Controller, error) {
	calc, err := a.newClient()
	if err != nil {
		return nil, err
	}
	return controller.New(controller.Options{
		Client:    calc,
		Indicator: indicator,
		Language:  a.cfg.Display.Language,
		Default:   selected,
	})
}
