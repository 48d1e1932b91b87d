package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockCalculationClient implements client.CalculationClient for testing
type MockCalculationClient struct {
	mock.Mock
}

func (m *MockCalculationClient) Calculate(ctx context.Context, path string, input models.InputRecord) (*models.CalculationResponse, error) {
	args := m.Called(ctx, path, input)
	resp, _ := args.Get(0).(*models.CalculationResponse)
	return resp, args.Error(1)
}

func (m *MockCalculationClient) Health(ctx context.Context) (*models.ServiceHealth, error) {
	args := m.Called(ctx)
	health, _ := args.Get(0).(*models.ServiceHealth)
	return health, args.Error(1)
}

// blockingClient holds every Calculate call until a result is sent on release
type blockingClient struct {
	started chan struct{}
	release chan blockingResult
	calls   atomic.Int32
}

type blockingResult struct {
	resp *models.CalculationResponse
	err  error
}

func newBlockingClient() *blockingClient {
	return &blockingClient{
		started: make(chan struct{}, 4),
		release: make(chan blockingResult),
	}
}

func (b *blockingClient) Calculate(ctx context.Context, path string, input models.InputRecord) (*models.CalculationResponse, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	r := <-b.release
	return r.resp, r.err
}

func (b *blockingClient) Health(ctx context.Context) (*models.ServiceHealth, error) {
	return &models.ServiceHealth{Status: "healthy"}, nil
}

// recordingIndicator tracks overlay visibility
type recordingIndicator struct {
	visible atomic.Bool
	shows   atomic.Int32
	hides   atomic.Int32
}

func (r *recordingIndicator) Show() {
	r.visible.Store(true)
	r.shows.Add(1)
}

func (r *recordingIndicator) Hide() {
	r.visible.Store(false)
	r.hides.Add(1)
}

func validSource(t *testing.T, s models.Scenario) scenario.MapSource {
	t.Helper()
	def, err := scenario.Lookup(s)
	require.NoError(t, err)
	src := scenario.MapSource{}
	for _, f := range def.Fields {
		src[f.Name] = "2"
	}
	return src
}

func okResponse() *models.CalculationResponse {
	return &models.CalculationResponse{
		Results: models.ResultRecord{
			{Key: "free_space_loss", Value: models.NumberValue(95.32)},
			{Key: "status", Value: models.TextValue("Link OK")},
		},
	}
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	c, err := New(Options{Client: &MockCalculationClient{}})
	require.NoError(t, err)
	st := c.State()
	assert.Equal(t, models.Scenario(""), st.Active)
	assert.False(t, st.ResultsVisible)
	for _, def := range scenario.All() {
		assert.False(t, st.FormVisible(def.Scenario))
	}

	c, err = New(Options{Client: &MockCalculationClient{}, Default: models.ScenarioOFDM})
	require.NoError(t, err)
	assert.Equal(t, models.ScenarioOFDM, c.State().Active)

	_, err = New(Options{Client: &MockCalculationClient{}, Default: "satellite"})
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
}

func TestSelect(t *testing.T) {
	c, err := New(Options{Client: &MockCalculationClient{}})
	require.NoError(t, err)

	require.NoError(t, c.Select(models.ScenarioCellular))
	st := c.State()
	assert.True(t, st.FormVisible(models.ScenarioCellular))
	for _, s := range []models.Scenario{models.ScenarioWireless, models.ScenarioOFDM, models.ScenarioLinkBudget} {
		assert.False(t, st.FormVisible(s))
	}

	err = c.Select("satellite")
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
	assert.Equal(t, models.ScenarioCellular, c.State().Active)
}

func TestSubmit_AllScenarios(t *testing.T) {
	for _, def := range scenario.All() {
		t.Run(string(def.Scenario), func(t *testing.T) {
			mockClient := &MockCalculationClient{}
			mockClient.On("Calculate", mock.Anything, def.Path, mock.MatchedBy(func(in models.InputRecord) bool {
				return len(in) == len(def.Fields)
			})).Return(okResponse(), nil).Once()

			c, err := New(Options{Client: mockClient, Default: def.Scenario})
			require.NoError(t, err)

			view, err := c.Submit(context.Background(), def.Scenario, validSource(t, def.Scenario))
			require.NoError(t, err)
			assert.Len(t, view.Rows, 2)

			st := c.State()
			assert.True(t, st.ResultsVisible)
			assert.Empty(t, st.Error)
			assert.False(t, st.Loading)
			mockClient.AssertExpectations(t)

			input := mockClient.Calls[0].Arguments.Get(2).(models.InputRecord)
			want := make([]string, 0, len(def.Fields))
			for _, f := range def.Fields {
				want = append(want, f.Name)
			}
			assert.Equal(t, want, input.Keys())
		})
	}
}

func TestSubmit_ValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(scenario.MapSource)
	}{
		{name: "empty", mutate: func(s scenario.MapSource) { s["distance"] = "" }},
		{name: "missing", mutate: func(s scenario.MapSource) { delete(s, "frequency") }},
		{name: "non numeric", mutate: func(s scenario.MapSource) { s["cable_loss_each_side"] = "two" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockCalculationClient{}
			indicator := &recordingIndicator{}
			c, err := New(Options{Client: mockClient, Indicator: indicator, Default: models.ScenarioLinkBudget})
			require.NoError(t, err)

			src := validSource(t, models.ScenarioLinkBudget)
			tt.mutate(src)

			_, err = c.Submit(context.Background(), models.ScenarioLinkBudget, src)
			var verr *scenario.ValidationError
			require.ErrorAs(t, err, &verr)

			mockClient.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, int32(0), indicator.shows.Load())
			assert.Equal(t, MessagesFor("en").Validation, c.State().Error)
		})
	}
}

func TestSubmit_InactiveScenario(t *testing.T) {
	mockClient := &MockCalculationClient{}
	c, err := New(Options{Client: mockClient, Default: models.ScenarioOFDM})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), models.ScenarioCellular, validSource(t, models.ScenarioCellular))
	assert.ErrorIs(t, err, ErrInactiveScenario)
	mockClient.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_LoadingIndicator(t *testing.T) {
	outcomes := []struct {
		name   string
		result blockingResult
	}{
		{name: "success", result: blockingResult{resp: okResponse()}},
		{name: "http error", result: blockingResult{err: &client.StatusError{StatusCode: http.StatusBadRequest}}},
		{name: "network error", result: blockingResult{err: client.ErrTransport}},
	}

	for _, tt := range outcomes {
		t.Run(tt.name, func(t *testing.T) {
			bc := newBlockingClient()
			indicator := &recordingIndicator{}
			c, err := New(Options{Client: bc, Indicator: indicator, Default: models.ScenarioWireless})
			require.NoError(t, err)

			src := validSource(t, models.ScenarioWireless)
			done := make(chan error, 1)
			go func() {
				_, err := c.Submit(context.Background(), models.ScenarioWireless, src)
				done <- err
			}()

			<-bc.started
			assert.True(t, indicator.visible.Load())
			assert.True(t, c.State().Loading)

			bc.release <- tt.result
			err = <-done

			assert.False(t, indicator.visible.Load())
			assert.Equal(t, int32(1), indicator.shows.Load())
			assert.Equal(t, int32(1), indicator.hides.Load())
			assert.False(t, c.State().Loading)
			if tt.result.err != nil {
				assert.Error(t, err)
				assert.Equal(t, MessagesFor("en").Failure, c.State().Error)
				assert.False(t, c.State().ResultsVisible)
			} else {
				assert.NoError(t, err)
				assert.True(t, c.State().ResultsVisible)
			}
		})
	}
}

func TestSubmit_RecoversAfterFailure(t *testing.T) {
	mockClient := &MockCalculationClient{}
	mockClient.On("Calculate", mock.Anything, "/api/calculate/ofdm", mock.Anything).
		Return(nil, &client.StatusError{StatusCode: http.StatusInternalServerError}).Once()
	mockClient.On("Calculate", mock.Anything, "/api/calculate/ofdm", mock.Anything).
		Return(okResponse(), nil).Once()

	c, err := New(Options{Client: mockClient, Default: models.ScenarioOFDM})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), models.ScenarioOFDM, validSource(t, models.ScenarioOFDM))
	require.Error(t, err)
	assert.NotContains(t, c.State().Error, "500")

	_, err = c.Submit(context.Background(), models.ScenarioOFDM, validSource(t, models.ScenarioOFDM))
	require.NoError(t, err)
	assert.True(t, c.State().ResultsVisible)
	assert.Empty(t, c.State().Error)
	mockClient.AssertExpectations(t)
}

func TestSubmit_InFlightGuard(t *testing.T) {
	bc := newBlockingClient()
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	c, err := New(Options{Client: bc, Metrics: collector, Default: models.ScenarioCellular})
	require.NoError(t, err)

	src := validSource(t, models.ScenarioCellular)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Submit(context.Background(), models.ScenarioCellular, src)
		assert.NoError(t, err)
	}()
	<-bc.started

	_, err = c.Submit(context.Background(), models.ScenarioCellular, src)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, int32(1), bc.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.InFlight.WithLabelValues("cellular")))

	bc.release <- blockingResult{resp: okResponse()}
	wg.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Requests.WithLabelValues("cellular", metrics.OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Requests.WithLabelValues("cellular", metrics.OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.InFlight.WithLabelValues("cellular")))
}

func TestSubmit_StaleResultDiscarded(t *testing.T) {
	bc := newBlockingClient()
	c, err := New(Options{Client: bc, Default: models.ScenarioLinkBudget})
	require.NoError(t, err)

	src := validSource(t, models.ScenarioLinkBudget)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(context.Background(), models.ScenarioLinkBudget, src)
	}()
	<-bc.started

	require.NoError(t, c.Select(models.ScenarioOFDM))
	bc.release <- blockingResult{resp: okResponse()}
	<-done

	st := c.State()
	assert.Equal(t, models.ScenarioOFDM, st.Active)
	assert.False(t, st.ResultsVisible)
	assert.Empty(t, st.View.Rows)
}

func TestSelect_HidesDisplayedResults(t *testing.T) {
	mockClient := &MockCalculationClient{}
	mockClient.On("Calculate", mock.Anything, mock.Anything, mock.Anything).Return(okResponse(), nil)

	c, err := New(Options{Client: mockClient, Default: models.ScenarioLinkBudget})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), models.ScenarioLinkBudget, validSource(t, models.ScenarioLinkBudget))
	require.NoError(t, err)
	require.True(t, c.State().ResultsVisible)

	require.NoError(t, c.Select(models.ScenarioWireless))
	st := c.State()
	assert.False(t, st.ResultsVisible)
	assert.Empty(t, st.View.Rows)
}

func TestSubmit_EndToEnd_LinkBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/calculate/linkbudget", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": {"free_space_loss": 95.32, "status": "Link OK"}}`))
	}))
	defer srv.Close()

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	calc, err := client.NewClient(client.Config{BaseURL: srv.URL, HTTPClient: &http.Client{Transport: transport}})
	require.NoError(t, err)

	c, err := New(Options{Client: calc, Language: "ar"})
	require.NoError(t, err)
	require.NoError(t, c.Select(models.ScenarioLinkBudget))

	src := validSource(t, models.ScenarioLinkBudget)
	src["distance"] = "500"
	src["frequency"] = "2400"
	src["access_point_transmit_power"] = "20"

	_, err = c.Submit(context.Background(), models.ScenarioLinkBudget, src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	st := c.State()
	require.Len(t, st.View.Rows, 2)
	assert.Equal(t, "Free Space Loss", st.View.Rows[0].Label)
	assert.Equal(t, "95.32", st.View.Rows[0].Value)
	assert.Equal(t, "Status", st.View.Rows[1].Label)
	assert.Equal(t, "Link OK", st.View.Rows[1].Value)
}

func TestMessagesFor(t *testing.T) {
	assert.Equal(t, messages["ar"], MessagesFor("AR"))
	assert.Equal(t, messages["en"], MessagesFor("fr"))
}
