package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxResponseBytes = 4 << 20

var (
	// ErrTransport wraps connection-level failures (DNS, refused, reset, cancelled)
	ErrTransport = errors.New("calculation service unreachable")
	// ErrMalformedResponse is returned when a success response is not a JSON object
	ErrMalformedResponse = errors.New("malformed calculation response")
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	// Message is the service's "error" field when the body carried one
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// CalculationClient talks to the remote calculation service
type CalculationClient interface {
	Calculate(ctx context.Context, path string, input models.InputRecord) (*models.CalculationResponse, error)
	Health(ctx context.Context) (*models.ServiceHealth, error)
}

// Config holds configuration for the calculation client
type Config struct {
	BaseURL string
	// HTTPClient defaults to a client with no timeout beyond the transport defaults
	HTTPClient *http.Client
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new calculation service client
func NewClient(cfg Config) (CalculationClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL scheme %q", u.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
	}, nil
}

// Calculate posts the input record to the scenario endpoint and decodes the response
func (c *httpClient) Calculate(ctx context.Context, path string, input models.InputRecord) (*models.CalculationResponse, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	requestID := uuid.New().String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	log.Debug().Str("requestID", requestID).Str("path", path).Msg("Sending calculation request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("requestID", requestID).Str("path", path).Msg("Calculation request failed")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}

	log.Info().
		Str("requestID", requestID).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Calculation response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}
	var out models.CalculationResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if out.Error != "" {
		log.Warn().Str("requestID", requestID).Str("serviceError", out.Error).Msg("Calculation service reported an error")
	}
	return &out, nil
}

// Health fetches the calculation service's health endpoint
func (c *httpClient) Health(ctx context.Context) (*models.ServiceHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	var health models.ServiceHealth
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &health, nil
}

// errorMessage extracts the "error" field of a failure envelope, if any
func errorMessage(data []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}
