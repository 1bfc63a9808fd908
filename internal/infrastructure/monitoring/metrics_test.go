package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

func TestObserveEvaluation(t *testing.T) {
	m := NewMetrics()

	m.ObserveEvaluation(&evaluator.Report{
		AllPassed:  false,
		DurationMs: 12,
		Results: []evaluator.TestCaseResult{
			{Passed: true},
			{Passed: false},
			{Passed: false, Error: "boom"},
		},
	}, []evaluator.SafetyFinding{{Pattern: "innerHTML", Severity: evaluator.SeverityWarn}})

	m.ObserveEvaluation(&evaluator.Report{Stage: evaluator.KindSafety, Results: []evaluator.TestCaseResult{}},
		[]evaluator.SafetyFinding{{Pattern: "eval", Severity: evaluator.SeverityBlock}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("safety")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TestCasesTotal.WithLabelValues("passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TestCasesTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TestCasesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SafetyFindings.WithLabelValues("eval", "block")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Evaluations)
	assert.Equal(t, int64(1), snap.Aborted)
	assert.Equal(t, 6.0, snap.AverageLatencyMs)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "passed", Outcome(&evaluator.Report{AllPassed: true}))
	assert.Equal(t, "failed", Outcome(&evaluator.Report{}))
	assert.Equal(t, "timeout", Outcome(&evaluator.Report{Stage: evaluator.KindTimeout}))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/problems/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/problems/a", "/problems/b", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/problems/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, int64(3), m.Snapshot().TotalErrors)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "judge_http_requests_total"))
	assert.True(t, strings.Contains(body, "judge_uptime_seconds"))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.RecordHTTPRequest("GET", "/", "200", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RequestsTotal.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestsTotal.WithLabelValues("GET", "/", "200")))
}
