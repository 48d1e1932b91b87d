package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// InputValue is a single validated field value
type InputValue struct {
	Name  string
	Kind  FieldKind
	Value float64
}

// InputRecord is the validated field set submitted for one calculation.
// It marshals to a flat JSON object with keys in declared field order.
type InputRecord []InputValue

// Keys returns the field names in declared order
func (r InputRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, v := range r {
		keys = append(keys, v.Name)
	}
	return keys
}

// Get returns the value for a field name
func (r InputRecord) Get(name string) (float64, bool) {
	for _, v := range r {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// MarshalJSON writes integer fields as JSON integers and float fields as JSON numbers
func (r InputRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if v.Kind == FieldInteger {
			buf.WriteString(strconv.FormatInt(int64(v.Value), 10))
			continue
		}
		num, err := json.Marshal(v.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", v.Name, err)
		}
		buf.Write(num)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResultValue is a result that is either a number or text
type ResultValue struct {
	Number   float64
	Text     string
	IsNumber bool
}

// NumberValue builds a numeric result value
func NumberValue(v float64) ResultValue {
	return ResultValue{Number: v, IsNumber: true}
}

// TextValue builds a text result value
func TextValue(s string) ResultValue {
	return ResultValue{Text: s}
}

// ResultEntry is one key/value pair of a Result Record
type ResultEntry struct {
	Key   string
	Value ResultValue
}

// ResultRecord holds the service's outputs in the order they were received
type ResultRecord []ResultEntry

// UnmarshalJSON decodes a JSON object while preserving key order.
// Strings and numbers keep their type; any other JSON value is kept as its raw text.
func (r *ResultRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("results must be a JSON object, got %v", tok)
	}

	entries := ResultRecord{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected results key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("results[%s]: %w", key, err)
		}
		value, err := decodeResultValue(raw)
		if err != nil {
			return fmt.Errorf("results[%s]: %w", key, err)
		}
		// A repeated key keeps its first position and takes the last value.
		if i, ok := index[key]; ok {
			entries[i].Value = value
			continue
		}
		index[key] = len(entries)
		entries = append(entries, ResultEntry{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = entries
	return nil
}

func decodeResultValue(raw json.RawMessage) (ResultValue, error) {
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ResultValue{}, err
		}
		return TextValue(s), nil
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return ResultValue{}, err
		}
		return NumberValue(f), nil
	default:
		return TextValue(string(raw)), nil
	}
}

// MarshalJSON writes the record as a JSON object in entry order
func (r ResultRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if e.Value.IsNumber {
			val, err = json.Marshal(e.Value.Number)
		} else {
			val, err = json.Marshal(e.Value.Text)
		}
		if err != nil {
			return nil, fmt.Errorf("results[%s]: %w", e.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CalculationResponse is the body returned by the calculation service
type CalculationResponse struct {
	Success     *bool        `json:"success,omitempty"`
	Results     ResultRecord `json:"results"`
	Explanation string       `json:"explanation,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// ServiceHealth is the body of the calculation service's health endpoint
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}
