// Package controller holds the view state of the scenario forms and runs
// calculation submissions against the remote service.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/RMahshie/wirelesscalc/internal/render"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrSubmissionInFlight is returned when a scenario already has a pending request
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrInactiveScenario is returned when submitting a scenario whose form is not shown
	ErrInactiveScenario = errors.New("scenario is not active")
)

// Indicator is the loading overlay shown while a request is pending.
// Its methods are called with the controller locked and must not call back into it.
type Indicator interface {
	Show()
	Hide()
}

type noopIndicator struct{}

func (noopIndicator) Show() {}
func (noopIndicator) Hide() {}

// Options configures a Controller
type Options struct {
	Client    client.CalculationClient
	Indicator Indicator
	Metrics   *metrics.Collector
	Language  string
	// Default is selected on construction when set
	Default models.Scenario
}

// State is a snapshot of the view state
type State struct {
	Active         models.Scenario
	Loading        bool
	ResultsVisible bool
	View           render.View
	Error          string
}

// FormVisible reports whether the form of s is the one shown
func (s State) FormVisible(sc models.Scenario) bool {
	return s.Active != "" && s.Active == sc
}

// Controller owns the active scenario, the results panel and the inline
// error region. It is safe for concurrent use.
type Controller struct {
	client    client.CalculationClient
	indicator Indicator
	metrics   *metrics.Collector
	messages  Messages
	guards    map[models.Scenario]*semaphore.Weighted

	mu         sync.Mutex
	state      State
	generation uint64
	pending    int
}

// New creates a controller with no scenario selected, or with opts.Default selected
func New(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("calculation client is required")
	}
	indicator := opts.Indicator
	if indicator == nil {
		indicator = noopIndicator{}
	}

	guards := make(map[models.Scenario]*semaphore.Weighted)
	for _, def := range scenario.All() {
		guards[def.Scenario] = semaphore.NewWeighted(1)
	}

	c := &Controller{
		client:    opts.Client,
		indicator: indicator,
		metrics:   opts.Metrics,
		messages:  MessagesFor(opts.Language),
		guards:    guards,
	}
	if opts.Default != "" {
		if err := c.Select(opts.Default); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Select makes s the active scenario and hides the results panel.
// Any response still pending for the previous selection is discarded when it settles.
func (c *Controller) Select(s models.Scenario) error {
	if _, err := scenario.Lookup(s); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state.Active = s
	c.state.ResultsVisible = false
	c.state.View = render.View{}
	c.state.Error = ""
	return nil
}

// State returns a snapshot of the current view state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.View.Rows = append([]models.ResultRow(nil), c.state.View.Rows...)
	return st
}

// Submit validates the form values of s, posts them to the scenario endpoint
// and renders the response into the results panel.
func (c *Controller) Submit(ctx context.Context, s models.Scenario, src scenario.FieldSource) (render.View, error) {
	def, err := scenario.Lookup(s)
	if err != nil {
		return render.View{}, err
	}

	c.mu.Lock()
	if c.state.Active != s {
		c.state.Error = c.messages.Inactive
		c.mu.Unlock()
		return render.View{}, fmt.Errorf("%w: %s", ErrInactiveScenario, s)
	}
	c.mu.Unlock()

	record, err := scenario.Collect(def, src)
	if err != nil {
		log.Warn().Err(err).Str("scenario", string(s)).Msg("Rejected calculation input")
		c.metrics.Observe(string(s), metrics.OutcomeInvalid, 0)
		c.setError(c.messages.Validation)
		return render.View{}, err
	}

	guard := c.guards[s]
	if !guard.TryAcquire(1) {
		c.metrics.Observe(string(s), metrics.OutcomeRejected, 0)
		c.setError(c.messages.Busy)
		return render.View{}, fmt.Errorf("%w: %s", ErrSubmissionInFlight, s)
	}
	defer guard.Release(1)

	gen := c.begin()
	c.metrics.Pending(string(s), 1)
	defer func() {
		c.metrics.Pending(string(s), -1)
		c.end()
	}()

	start := time.Now()
	resp, err := c.client.Calculate(ctx, def.Path, record)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("scenario", string(s)).Msg("Calculation failed")
		c.metrics.Observe(string(s), outcome(err), elapsed)
		c.settleError(s, gen, c.messages.Failure)
		return render.View{}, err
	}
	c.metrics.Observe(string(s), metrics.OutcomeSuccess, elapsed)

	view := render.Render(resp)
	if !c.showResults(s, gen, view) {
		log.Debug().Str("scenario", string(s)).Msg("Discarding results for a scenario that is no longer shown")
	}
	return view, nil
}

// showResults replaces the results panel content unless the selection changed
// since the request started.
func (c *Controller) showResults(s models.Scenario, gen uint64, view render.View) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.state.Active != s {
		return false
	}
	c.state.View = view
	c.state.ResultsVisible = true
	c.state.Error = ""
	return true
}

// begin shows the loading indicator and returns the current selection generation.
// The indicator is shown once for overlapping submissions of different scenarios.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending++
	c.state.Loading = true
	c.state.Error = ""
	if c.pending == 1 {
		c.indicator.Show()
	}
	return c.generation
}

// end hides the loading indicator once no submission is pending.
// It runs on every exit path of a submission.
func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	c.state.Loading = c.pending > 0
	if c.pending == 0 {
		c.indicator.Hide()
	}
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

func (c *Controller) settleError(s models.Scenario, gen uint64, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation && c.state.Active == s {
		c.state.Error = msg
	}
}

func outcome(err error) string {
	var se *client.StatusError
	switch {
	case errors.As(err, &se):
		return metrics.OutcomeHTTPError
	case errors.Is(err, client.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeNetwork
	}
}
