package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/config"
)

const problem = `id: double
title: Double
functionName: double
testCases:
  - input: 2
    expectedOutput: 4
  - input: -3
    expectedOutput: -6
`

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Logging.Development = true
	cfg.Catalog.Dir = dir
	cfg.Evaluation.PoolSize = 2
	cfg.RateLimit.Enabled = false

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestServerRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "double.yaml"), []byte(problem), 0o644))
	srv := newTestServer(t, dir)

	req := httptest.NewRequest(http.MethodPost, "/problems/double/evaluate",
		bytes.NewBufferString(`{"code":"const double = (n) => n * 2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report evaluator.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.AllPassed)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `judge_evaluations_total{outcome="passed"} 1`))
	assert.True(t, strings.Contains(w.Body.String(), `judge_http_requests_total{method="POST",path="/problems/:id/evaluate",status="200"} 1`))
}

func TestServerMissingCatalog(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "absent"))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body["problems"])
}

func TestServerInvalidLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"

	_, err := NewServer(context.Background(), cfg)
	assert.Error(t, err)
}
