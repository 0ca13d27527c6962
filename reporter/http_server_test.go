package reporter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/bridge-federator/federator"
	"github.com/TEENet-io/bridge-federator/metrics"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunner) State() federator.State {
	return m.Called().Get(0).(federator.State)
}

func newTestServer(t *testing.T, runner Runner, onFatal func(error)) (*HttpReader, *metrics.Metrics) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	h := NewHttpReporter("127.0.0.1", "0", runner, reg, onFatal)
	srv := httptest.NewServer(h.SetupRouter())
	t.Cleanup(srv.Close)

	return NewHttpReader(srv.URL), m
}

func TestRunRoute(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything).Return(true, nil).Once()
	runner.On("Run", mock.Anything).Return(false, nil).Once()
	reader, _ := newTestServer(t, runner, nil)

	processed, code, err := reader.TriggerRun()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, processed)

	processed, code, err = reader.TriggerRun()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, processed)

	runner.AssertExpectations(t)
}

func TestRunRouteErrors(t *testing.T) {
	fatal := &federator.FatalError{Attempts: 3, Err: errors.New("rpc down")}

	runner := new(MockRunner)
	runner.On("Run", mock.Anything).Return(false, federator.ErrPassInProgress).Once()
	runner.On("Run", mock.Anything).Return(false, errors.New("canceled")).Once()
	runner.On("Run", mock.Anything).Return(false, fatal).Once()

	reported := make(chan error, 3)
	reader, _ := newTestServer(t, runner, func(err error) {
		reported <- err
	})

	_, code, err := reader.TriggerRun()
	assert.Equal(t, http.StatusConflict, code)
	assert.EqualError(t, err, federator.ErrPassInProgress.Error())

	_, code, err = reader.TriggerRun()
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.EqualError(t, err, "canceled")
	assert.Len(t, reported, 0)

	_, code, err = reader.TriggerRun()
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Error(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, fatal, <-reported)
}

func TestStatusHealthAndMetrics(t *testing.T) {
	runner := new(MockRunner)
	runner.On("State").Return(federator.StateFailedRetryable)
	reader, m := newTestServer(t, runner, nil)

	state, err := reader.GetState()
	require.NoError(t, err)
	assert.Equal(t, "failed_retryable", state)

	_, err = reader.get(ROUTE_HEALTH)
	assert.NoError(t, err)

	m.CheckpointSaved(1990)
	body, err := reader.GetMetrics()
	require.NoError(t, err)
	assert.Contains(t, body, "federator_checkpoint_height 1990")

	_, err = reader.get("/missing")
	assert.Error(t, err)
}

func TestServeStopsWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHttpReporter("127.0.0.1", "0", new(MockRunner), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
