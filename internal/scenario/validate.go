package scenario

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/RMahshie/wirelesscalc/pkg/models"
)

// FieldSource supplies raw form values. A field may be looked up by its
// JSON name or its form input identifier.
type FieldSource interface {
	Lookup(key string) (string, bool)
}

// MapSource is a FieldSource backed by a plain map
type MapSource map[string]string

// Lookup implements FieldSource
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// FormSource adapts submitted HTML form values
type FormSource url.Values

// Lookup implements FieldSource
func (f FormSource) Lookup(key string) (string, bool) {
	vals, ok := f[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Reason says why a field was rejected
type Reason string

const (
	ReasonMissing    Reason = "missing"
	ReasonEmpty      Reason = "empty"
	ReasonNotNumeric Reason = "not a number"
	ReasonNotFinite  Reason = "not finite"
)

// ValidationError reports the first field that failed numeric parsing
type ValidationError struct {
	Scenario models.Scenario
	Field    string
	Reason   Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %s is %s", e.Scenario, e.Field, e.Reason)
}

// Collect reads every declared field of the definition from src and parses it
// according to its kind. Integer fields are truncated toward zero.
func Collect(def Definition, src FieldSource) (models.InputRecord, error) {
	record := make(models.InputRecord, 0, len(def.Fields))
	for _, f := range def.Fields {
		raw, ok := src.Lookup(f.Name)
		if !ok {
			raw, ok = src.Lookup(f.InputID)
		}
		if !ok {
			return nil, &ValidationError{Scenario: def.Scenario, Field: f.Name, Reason: ReasonMissing}
		}

		v, reason := parseNumber(raw, f.Kind)
		if reason != "" {
			return nil, &ValidationError{Scenario: def.Scenario, Field: f.Name, Reason: reason}
		}
		record = append(record, models.InputValue{Name: f.Name, Kind: f.Kind, Value: v})
	}
	return record, nil
}

func parseNumber(raw string, kind models.FieldKind) (float64, Reason) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ReasonEmpty
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ReasonNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ReasonNotFinite
	}
	if kind == models.FieldInteger {
		v = math.Trunc(v)
		// float64(math.MaxInt64) is 2^63, which does not fit in an int64
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, ReasonNotFinite
		}
	}
	return v, ""
}
