package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/twoway/internal/runtime"
	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/machine"
	"github.com/aretw0/twoway/pkg/observability"
	"github.com/aretw0/twoway/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	m, err := machine.Validate(testutils.ScenarioDefinition())
	require.NoError(t, err)
	return NewHandler(runtime.NewEngine(m, runtime.WithMaxSteps(100)), opts...)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	w := do(newTestHandler(t), "GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Preflight(t *testing.T) {
	w := do(newTestHandler(t), "OPTIONS", "/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestServer_Info(t *testing.T) {
	w := do(newTestHandler(t, WithName("scenario.txt")), "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "twoway-http", info["app"])
	assert.Equal(t, "scenario.txt", info["machine"])
	assert.EqualValues(t, 3, info["states"])
	assert.NotEmpty(t, info["version"])
}

func TestServer_Machine(t *testing.T) {
	w := do(newTestHandler(t), "GET", "/machine", "")
	require.Equal(t, http.StatusOK, w.Code)

	var def domain.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, testutils.ScenarioDefinition(), def)
}

func TestServer_Evaluate(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/evaluate", `{"words":["0","1","0x"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Entries, 3)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, domain.VerdictError, report.Entries[2].Outcome.Verdict)
	assert.Contains(t, report.Entries[2].Error, `symbol "x"`)
}

func TestServer_Evaluate_Empty(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/evaluate", `{"words":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"entries":[]`)
}

func TestServer_BadRequests(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"Malformed JSON", "/evaluate", `{"words":`},
		{"Unknown Field", "/evaluate", `{"word":"0"}`},
		{"Wrong Type", "/trace", `{"word":7}`},
		{"Word Too Long", "/trace", `{"word":"` + strings.Repeat("0", domain.MaxWordLength+1) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, "POST", tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestServer_Trace(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/trace", `{"word":"1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TraceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1", resp.Word)
	require.Len(t, resp.Steps, 3)
	assert.Equal(t, "qR", resp.Steps[1].State)
	assert.True(t, resp.Steps[2].Halted)
	assert.Equal(t, domain.VerdictRejected, resp.Outcome.Verdict)
	assert.Empty(t, resp.Error)
}

func TestServer_Trace_Failure(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/trace", `{"word":"02"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp TraceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Steps, 2, "observations before the failure are kept")
	assert.Equal(t, domain.VerdictError, resp.Outcome.Verdict)
	assert.Contains(t, resp.Error, `symbol "2"`)
}

func TestServer_Graph(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "GET", "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))
	assert.NotContains(t, w.Body.String(), "classDef current")

	w = do(h, "GET", "/graph?word=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classDef current")
	assert.Contains(t, w.Body.String(), "class qA current")
}

func TestServer_Metrics(t *testing.T) {
	w := do(newTestHandler(t), "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are opt-in")

	metrics := observability.NewMetrics()
	m, err := machine.Validate(testutils.ScenarioDefinition())
	require.NoError(t, err)
	h := NewHandler(runtime.NewEngine(m, runtime.WithLifecycleHooks(metrics.Hooks())), WithMetrics(metrics.Handler()))

	do(h, "POST", "/evaluate", `{"words":["0"]}`)
	w = do(h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `twoway_traces_total{verdict="accepted"} 1`)
}

func newSessionHandler(t *testing.T) http.Handler {
	t.Helper()
	m, err := machine.Validate(testutils.ScenarioDefinition())
	require.NoError(t, err)
	eng := runtime.NewEngine(m)
	factory := func(word string) session.Trace { return eng.NewTrace(word) }
	return NewHandler(eng, WithSessions(session.NewManager(), factory))
}

func TestServer_Traces_Disabled(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/traces", `{"word":"0"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Traces_Stepwise(t *testing.T) {
	h := newSessionHandler(t)

	w := do(h, "POST", "/traces", `{"word":"0"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap domain.TraceSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, domain.StatusReady, snap.Status)
	assert.Equal(t, "/traces/"+snap.ID, w.Header().Get("Location"))

	var step StepResponse
	for i := 0; i < 3; i++ {
		w = do(h, "POST", "/traces/"+snap.ID+"/step", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
	}
	require.NotNil(t, step.Observation)
	assert.True(t, step.Observation.Halted)
	assert.Equal(t, domain.StatusHalted, step.Trace.Status)
	assert.True(t, step.Trace.Outcome.Accepted())

	w = do(h, "POST", "/traces/"+snap.ID+"/step", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(h, "GET", "/traces/"+snap.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, "DELETE", "/traces/"+snap.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(h, "GET", "/traces/"+snap.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Traces_Failure(t *testing.T) {
	h := newSessionHandler(t)

	w := do(h, "POST", "/traces", `{"word":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var snap domain.TraceSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))

	w = do(h, "POST", "/traces/"+snap.ID+"/step", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, "POST", "/traces/"+snap.ID+"/step", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var step StepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
	assert.Nil(t, step.Observation)
	assert.Equal(t, domain.StatusFailed, step.Trace.Status)
	assert.Contains(t, step.Error, `symbol "x"`)
}

func TestServer_Traces_Unknown(t *testing.T) {
	h := newSessionHandler(t)

	assert.Equal(t, http.StatusNotFound, do(h, "GET", "/traces/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, "POST", "/traces/nope/step", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, "DELETE", "/traces/nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/traces", `{"word":"\xff"}`).Code)
}
