package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RMahshie/wirelesscalc/internal/scenario"
)

// loadInputs merges the fields of a YAML file with name=value pairs.
// Pairs win over file values for the same key.
func loadInputs(path string, sets []string) (scenario.MapSource, error) {
	src := scenario.MapSource{}
	if path != "" {
		fromFile, err := readInputFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			src[k] = v
		}
	}
	for _, s := range sets {
		k, v, err := parseSet(s)
		if err != nil {
			return nil, err
		}
		src[k] = v
	}
	return src, nil
}

func parseSet(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid --set %q: expected name=value", s)
	}
	return k, v, nil
}

// readInputFile reads a flat YAML mapping of field names to scalar values
func readInputFile(path string) (scenario.MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse inputs file %s: %w", path, err)
	}

	src := make(scenario.MapSource, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			src[k] = ""
		case map[string]any, []any:
			return nil, fmt.Errorf("inputs file %s: field %s must be a scalar", path, k)
		default:
			src[k] = fmt.Sprint(v)
		}
	}
	return src, nil
}
