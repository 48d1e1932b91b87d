package api

import (
	"net/http"

	"github.com/RMahshie/wirelesscalc/internal/api/handlers"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes sets up the HTML pages, the JSON API and the metrics endpoint
func RegisterRoutes(router chi.Router, api huma.API, calcHandler *handlers.CalculationHandler, pageHandler *handlers.PageHandler, collector *metrics.Collector) {
	// HTML front end
	router.Get("/", pageHandler.Index)
	router.Get("/scenarios/{scenario}", pageHandler.ShowScenario)
	router.Post("/scenarios/{scenario}", pageHandler.SubmitScenario)

	router.Handle("/metrics", collector.Handler())

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the front end and the calculation service",
	}, calcHandler.Health)

	huma.Register(api, huma.Operation{
		OperationID: "listScenarios",
		Method:      http.MethodGet,
		Path:        "/api/scenarios",
		Summary:     "List scenarios",
		Description: "Returns every scenario with its endpoint path and declared input fields",
		Tags:        []string{"Scenarios"},
	}, calcHandler.ListScenarios)

	huma.Register(api, huma.Operation{
		OperationID:   "calculateScenario",
		Method:        http.MethodPost,
		Path:          "/api/scenarios/{scenario}/calculate",
		Summary:       "Run a calculation",
		Description:   "Validates the field values, forwards them to the calculation service and returns the rendered results",
		Tags:          []string{"Scenarios"},
		DefaultStatus: http.StatusOK,
	}, calcHandler.Calculate)
}
