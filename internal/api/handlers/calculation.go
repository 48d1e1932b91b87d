package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/controller"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// CalculationHandler handles the JSON API of the front end
type CalculationHandler struct {
	client   client.CalculationClient
	metrics  *metrics.Collector
	language string
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(calc client.CalculationClient, collector *metrics.Collector, language string) *CalculationHandler {
	return &CalculationHandler{
		client:   calc,
		metrics:  collector,
		language: language,
	}
}

// Health reports front-end health and whether the calculation service answers
func (h *CalculationHandler) Health(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Time = time.Now()

	upstream, err := h.client.Health(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Calculation service health check failed")
		resp.Body.Upstream = "unreachable"
		return resp, nil
	}
	resp.Body.Upstream = upstream.Status
	return resp, nil
}

// ListScenarios returns the scenario catalog
func (h *CalculationHandler) ListScenarios(ctx context.Context, input *struct{}) (*models.ListScenariosResponse, error) {
	resp := &models.ListScenariosResponse{}
	for _, def := range scenario.All() {
		resp.Body.Scenarios = append(resp.Body.Scenarios, def.Info())
	}
	return resp, nil
}

// Calculate validates the submitted fields, forwards them to the calculation
// service and returns the rendered rows
func (h *CalculationHandler) Calculate(ctx context.Context, req *models.CalculateRequest) (*models.CalculateResponse, error) {
	s, err := scenario.Parse(req.Scenario)
	if err != nil {
		return nil, huma.Error404NotFound("Scenario not found", err)
	}

	ctrl, err := controller.New(controller.Options{
		Client:   h.client,
		Metrics:  h.metrics,
		Language: h.language,
		Default:  s,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to prepare calculation", err)
	}

	view, err := ctrl.Submit(ctx, s, fieldSource(req.Body.Fields))
	if err != nil {
		msg := ctrl.State().Error
		var verr *scenario.ValidationError
		if errors.As(err, &verr) {
			return nil, huma.Error400BadRequest(msg, &huma.ErrorDetail{
				Location: "body.fields." + verr.Field,
				Message:  string(verr.Reason),
			})
		}
		return nil, huma.Error502BadGateway(msg)
	}

	return &models.CalculateResponse{
		Body: models.CalculateResponseBody{
			Scenario:    s,
			Rows:        view.Rows,
			Explanation: view.Explanation,
		},
	}, nil
}

// fieldSource converts decoded JSON values into raw form strings
func fieldSource(fields map[string]any) scenario.MapSource {
	src := make(scenario.MapSource, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			src[k] = val
		case float64:
			src[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case json.Number:
			src[k] = val.String()
		case nil:
			src[k] = ""
		default:
			src[k] = fmt.Sprint(val)
		}
	}
	return src
}
