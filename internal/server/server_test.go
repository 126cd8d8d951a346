package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeflow-sentinel/pipesim/internal/runner"
	"github.com/codeflow-sentinel/pipesim/internal/simulate"
)

const pipelineBody = `{
  "id": "api-test",
  "name": "API test",
  "stages": [
    {"id": "build", "type": "docker-build", "timeout": 10000, "successRate": 1,
     "durationRange": {"min": 1, "max": 2}, "config": {"image": "app:api"}},
    {"id": "deploy", "type": "deploy", "dependencies": ["build"], "timeout": 10000,
     "successRate": 1, "durationRange": {"min": 1, "max": 2}}
  ],
  "settings": {"mode": "deterministic", "maxConcurrency": 2, "failFast": true, "timeout": 600000}
}`

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := runner.New(simulate.New(simulate.WithSeed(5), simulate.WithoutDelay()))
	return New(logger, r)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded
}

// executeAndWait submits a pipeline and polls status until the run reaches a
// terminal state.
func executeAndWait(t *testing.T, srv *Server) (string, map[string]any) {
	t.Helper()
	code, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/pipeline/execute", pipelineBody)
	require.Equal(t, http.StatusAccepted, code)
	require.Equal(t, true, body["success"])
	executionID := body["execution_id"].(string)
	require.NotEmpty(t, executionID)

	var execution map[string]any
	require.Eventually(t, func() bool {
		_, status := doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/status/"+executionID, "")
		execution = status["execution"].(map[string]any)
		return execution["status"] != statusRunning
	}, 5*time.Second, 5*time.Millisecond)

	return executionID, execution
}

func TestExecuteStatusLifecycle(t *testing.T) {
	srv := newTestServer()
	executionID, execution := executeAndWait(t, srv)

	assert.Equal(t, "success", execution["status"])
	assert.Equal(t, executionID, execution["id"])
	assert.Equal(t, "api-test", execution["pipelineId"])

	result := execution["result"].(map[string]any)
	assert.Equal(t, executionID, result["executionId"])
	assert.Len(t, result["stages"], 2)
}

func TestStatusUnknownExecution(t *testing.T) {
	srv := newTestServer()

	code, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/status/invalid-id", "")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "unknown execution")
}

func TestExecuteRejectsMalformedBody(t *testing.T) {
	srv := newTestServer()

	code, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/pipeline/execute", "{not json")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestExecuteRejectsInvalidDefinition(t *testing.T) {
	srv := newTestServer()

	code, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/pipeline/execute",
		`{"id": "bad", "stages": [], "settings": {"maxConcurrency": 1, "timeout": 1000}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "no stages")
}

func TestStageLogs(t *testing.T) {
	srv := newTestServer()
	executionID, _ := executeAndWait(t, srv)

	code, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/logs/"+executionID+"/build", "")
	require.Equal(t, http.StatusOK, code)

	stage := body["stage"].(map[string]any)
	assert.Equal(t, "build", stage["id"])
	assert.NotEmpty(t, stage["logs"])

	code, body = doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/logs/"+executionID+"/ghost", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body["error"], "unknown stage")
}

func TestResultsListing(t *testing.T) {
	srv := newTestServer()

	_, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/results", "")
	assert.Empty(t, body["results"])

	first, _ := executeAndWait(t, srv)
	second, _ := executeAndWait(t, srv)

	_, body = doJSON(t, srv.Handler(), http.MethodGet, "/api/pipeline/results", "")
	results := body["results"].([]any)
	require.Len(t, results, 2)

	// Oldest first.
	assert.Equal(t, first, results[0].(map[string]any)["executionId"])
	assert.Equal(t, second, results[1].(map[string]any)["executionId"])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	code, body := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()
	executeAndWait(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pipesim_runs_started_total")
}
