package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/wirelesscalc/internal/render"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func (a *app) calcCmd() *cobra.Command {
	var (
		sets   []string
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "calc <scenario>",
		Short: "Run one calculation and print the results",
		Long: `Collects the scenario's fields from --file and --set, validates that every
field is numeric and posts them to the calculation service.

Fields may be named by their JSON key or their form input id. Values given
with --set override values read from the file.

Example:
  wirelessctl calc linkbudget --file link.yaml --set distance=2.5
  wirelessctl calc ofdm --set bw_resource_block=180 --set subcarrier-spacing=15 ... -o json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: scenarioNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalc(cmd, args[0], file, sets, output)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file mapping field names to values")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func (a *app) runCalc(cmd *cobra.Command, name, file string, sets []string, output string) error {
	s, err := scenario.Parse(name)
	if err != nil {
		return err
	}
	switch output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	src, err := loadInputs(file, sets)
	if err != nil {
		return err
	}

	indicator := &terminalIndicator{w: cmd.ErrOrStderr()}
	ctrl, err := a.newController(indicator, s)
	if err != nil {
		return err
	}

	view, err := ctrl.Submit(cmd.Context(), s, src)
	if err != nil {
		// The controller already logged the detail; show the inline message only.
		fmt.Fprintln(cmd.ErrOrStderr(), ctrl.State().Error)
		cmd.SilenceErrors = true
		return err
	}

	body := models.CalculateResponseBody{
		Scenario:    s,
		Rows:        view.Rows,
		Explanation: view.Explanation,
	}
	out := cmd.OutOrStdout()
	switch output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(body)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(body); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeView(out, view)
	}
}

// writeView prints the results as aligned label/value lines followed by the explanation
func writeView(w io.Writer, view render.View) error {
	width := view.Width()
	for _, row := range view.Rows {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, row.Label, row.Value); err != nil {
			return err
		}
	}
	if view.Explanation == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, "\n"+markdown(view.Explanation))
	return err
}

// markdown renders the explanation for the terminal, falling back to plain text
func markdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// terminalIndicator prints a status line on stderr while a request is pending
type terminalIndicator struct {
	w io.Writer
}

func (t *terminalIndicator) Show() {
	fmt.Fprint(t.w, "Calculating...")
}

func (t *terminalIndicator) Hide() {
	fmt.Fprint(t.w, "\r\x1b[K")
}

func scenarioNames() []string {
	defs := scenario.All()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, string(def.Scenario))
	}
	return names
}
