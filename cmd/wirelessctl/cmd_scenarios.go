package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

func (a *app) scenariosCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List scenarios with their endpoints and fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := scenario.All()
			out := cmd.OutOrStdout()

			switch output {
			case outputYAML:
				infos := make([]models.ScenarioInfo, 0, len(defs))
				for _, def := range defs {
					infos = append(infos, def.Info())
				}
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(infos); err != nil {
					return err
				}
				return enc.Close()
			case outputText:
			default:
				return fmt.Errorf("unknown output format %q", output)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, def := range defs {
				if i > 0 {
					fmt.Fprintln(tw)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Scenario, def.Title, def.Path)
				for _, f := range def.Fields {
					fmt.Fprintf(tw, "  %s\t%s\t%s %s\n", f.Name, f.InputID, f.Kind, f.Unit)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or yaml")
	return cmd
}
