package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status   string    `json:"status" example:"healthy" doc:"Front-end health status"`
		Version  string    `json:"version" example:"1.0.0" doc:"Front-end version"`
		Upstream string    `json:"upstream" example:"healthy" doc:"Calculation service status, or unreachable"`
		Time     time.Time `json:"time" doc:"Current server time"`
	}
}

// ScenarioInfo describes one scenario form and its endpoint
type ScenarioInfo struct {
	Scenario Scenario `json:"scenario" yaml:"scenario" enum:"wireless,ofdm,linkbudget,cellular" doc:"Scenario identifier"`
	Title    string   `json:"title" yaml:"title" doc:"Display title"`
	Path     string   `json:"path" yaml:"path" doc:"Calculation service endpoint path"`
	Fields   []Field  `json:"fields" yaml:"fields" doc:"Declared input fields in submission order"`
}

// ListScenariosResponse represents the scenario catalog
type ListScenariosResponse struct {
	Body struct {
		Scenarios []ScenarioInfo `json:"scenarios" doc:"Supported scenarios"`
	}
}

// CalculateRequest represents a request to run a calculation through the front end
type CalculateRequest struct {
	Scenario string `path:"scenario" enum:"wireless,ofdm,linkbudget,cellular" doc:"Scenario identifier"`
	Body     struct {
		Fields map[string]any `json:"fields" required:"true" doc:"Field values keyed by field name; numbers or numeric strings"`
	}
}

// ResultRow is one rendered label/value pair
type ResultRow struct {
	Key   string `json:"key" yaml:"key" doc:"Result key as returned by the service"`
	Label string `json:"label" yaml:"label" doc:"Display label"`
	Value string `json:"value" yaml:"value" doc:"Formatted display value"`
}

// CalculateResponseBody is the body of the calculate response
type CalculateResponseBody struct {
	Scenario    Scenario    `json:"scenario" yaml:"scenario" doc:"Scenario identifier"`
	Rows        []ResultRow `json:"rows" yaml:"rows" doc:"Rendered results in service order"`
	Explanation string      `json:"explanation,omitempty" yaml:"explanation,omitempty" doc:"Explanation text block"`
}

// CalculateResponse represents the rendered calculation results
type CalculateResponse struct {
	Body CalculateResponseBody
}
