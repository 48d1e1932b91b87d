package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the calculation service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := a.newClient()
			if err != nil {
				return err
			}
			health, err := calc.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("calculation service at %s is unreachable: %w", a.cfg.API.BaseURL, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "service: %s\n", a.cfg.API.BaseURL)
			fmt.Fprintf(out, "status:  %s\n", health.Status)
			if health.Message != "" {
				fmt.Fprintf(out, "message: %s\n", health.Message)
			}
			if health.Version != "" {
				fmt.Fprintf(out, "version: %s\n", health.Version)
			}
			return nil
		},
	}
}
