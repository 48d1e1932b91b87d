package models

// Scenario identifies one of the supported calculation modes.
// The zero value means no scenario has been selected yet.
type Scenario string

const (
	ScenarioWireless   Scenario = "wireless"
	ScenarioOFDM       Scenario = "ofdm"
	ScenarioLinkBudget Scenario = "linkbudget"
	ScenarioCellular   Scenario = "cellular"
)

// FieldKind is the numeric kind a form field is parsed as
type FieldKind string

const (
	FieldInteger FieldKind = "integer"
	FieldFloat   FieldKind = "float"
)

// Field describes a single numeric input of a scenario form
type Field struct {
	Name    string    `json:"name" yaml:"name" doc:"JSON key sent to the calculation service"`
	InputID string    `json:"input_id" yaml:"input_id" doc:"Form input identifier"`
	Label   string    `json:"label" yaml:"label" doc:"Human-readable field label"`
	Unit    string    `json:"unit,omitempty" yaml:"unit,omitempty" doc:"Unit of measure"`
	Kind    FieldKind `json:"kind" yaml:"kind" enum:"integer,float" doc:"Numeric kind"`
}
