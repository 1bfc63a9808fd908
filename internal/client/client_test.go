package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/GriffinCanCode/codejudge/internal/api/http"
	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/tracing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.RetryCount = 2
	cfg.RetryWait = time.Millisecond
	cfg.RetryMaxWait = 5 * time.Millisecond
	cfg.TripAfter = 2
	cfg.OpenFor = time.Minute
	return cfg
}

func newJudgeServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	problems, err := catalog.New(&catalog.Problem{
		ID:           "square",
		Title:        "Square",
		Category:     "math",
		FunctionName: "square",
		TestCases: []evaluator.TestCase{
			{Input: 3.0, ExpectedOutput: 9.0},
			{Input: -2.0, ExpectedOutput: 4.0},
		},
	})
	require.NoError(t, err)

	router := gin.New()
	apihttp.NewHandlers(evaluator.New(evaluator.DefaultConfig()), problems).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestEvaluate(t *testing.T) {
	c := New(newJudgeServer(t).URL, testConfig())

	report, err := c.Evaluate(context.Background(), "function add(a, b) { return a + b }", []evaluator.TestCase{
		{Input: []any{1.0, 2.0}, ExpectedOutput: 3.0},
		{Input: []any{2.0, 2.0}, ExpectedOutput: 5.0},
	}, "")
	require.NoError(t, err)

	assert.False(t, report.AllPassed)
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Passed)
	assert.Equal(t, 4.0, report.Results[1].ActualOutput)
}

func TestProblems(t *testing.T) {
	c := New(newJudgeServer(t).URL, testConfig())
	ctx := context.Background()

	summaries, err := c.Problems(ctx, "math")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "square", summaries[0].ID)

	summaries, err = c.Problems(ctx, "strings")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	problem, err := c.Problem(ctx, "square")
	require.NoError(t, err)
	assert.Len(t, problem.TestCases, 2)

	_, err = c.Problem(ctx, "cube")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestEvaluateProblem(t *testing.T) {
	c := New(newJudgeServer(t).URL, testConfig())

	report, err := c.EvaluateProblem(context.Background(), "square", "const square = (x) => x * x", "")
	require.NoError(t, err)
	assert.True(t, report.AllPassed)

	_, err = c.EvaluateProblem(context.Background(), "cube", "const cube = (x) => x ** 3", "")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// A 404 is not the server's fault
	assert.Equal(t, resilience.StateClosed, c.Breaker().State())
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"problems":[{"id":"a","title":"A","testCount":1}]}`))
	}))
	defer srv.Close()

	summaries, err := New(srv.URL, testConfig()).Problems(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.RetryCount = 0
	c := New(srv.URL, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Problems(ctx, "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "boom", apiErr.Message)
	}

	_, err := c.Problems(ctx, "")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL, testConfig()).Evaluate(context.Background(), "x", nil, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPropagatesTrace(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get(tracing.HeaderTraceID))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"problems":[]}`))
	}))
	defer srv.Close()

	ctx := tracing.ContextWithTrace(context.Background(), "trace-42", "span-1")
	_, err := New(srv.URL, testConfig()).Problems(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "trace-42", got.Load())
}
