package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphboot/adapters/corrmat"
	"graphboot/adapters/graphmetrics"
	"graphboot/internal/logging"
	"graphboot/internal/testkit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(corrmat.NewBuilder(), graphmetrics.NewRegistry(), nil, logging.Nop())
}

func runPayload(t *testing.T) []byte {
	t.Helper()
	a, b := testkit.TwoGroups(testkit.Options{Subjects: 25, Regions: 8, Factors: 2, Noise: 0.5, Seed: 3})

	req := runRequest{
		Measure:    "mean-strength",
		Densities:  []float64{0.2, 0.4},
		Replicates: 30,
		Seed:       11,
		Workers:    2,
		Regions:    a.Regions(),
	}
	for _, ds := range []*struct {
		name string
		rows [][]float64
	}{
		{"A", rowsOf(a.Rows(), a.Row)},
		{"B", rowsOf(b.Rows(), b.Row)},
	} {
		req.Groups = append(req.Groups, groupPayload{Name: ds.name, Rows: ds.rows})
	}

	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func rowsOf(n int, row func(int) []float64) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = row(i)
	}
	return out
}

func postRun(t *testing.T, srv *Server, body []byte) (*httptest.ResponseRecorder, runResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp runResponse
	if rec.Code == http.StatusCreated {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestCreateRun(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postRun(t, srv, runPayload(t))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "mean-strength", resp.Measure)
	assert.Equal(t, []string{"A", "B"}, resp.Groups)
	require.Len(t, resp.Summary, 4)
	for _, row := range resp.Summary {
		assert.Greater(t, row.StdError, 0.0)
		assert.Less(t, row.CILow, row.CIHigh)
	}
}

func TestCreateRunBadConfig(t *testing.T) {
	srv := newTestServer(t)

	var req runRequest
	require.NoError(t, json.Unmarshal(runPayload(t), &req))
	req.Measure = "eigenvector-centrality"
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec, _ := postRun(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "eigenvector-centrality")
}

func TestCreateRunMissingDependency(t *testing.T) {
	srv := NewServer(nil, graphmetrics.NewRegistry(), nil, logging.Nop())
	rec, _ := postRun(t, srv, runPayload(t))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateRunMalformedBody(t *testing.T) {
	rec, _ := postRun(t, newTestServer(t), []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRunRaggedRows(t *testing.T) {
	srv := newTestServer(t)

	var req runRequest
	require.NoError(t, json.Unmarshal(runPayload(t), &req))
	req.Groups[0].Rows[3] = req.Groups[0].Rows[3][:2]
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec, _ := postRun(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunAndSummary(t *testing.T) {
	srv := newTestServer(t)
	rec, created := postRun(t, srv, runPayload(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	get := httptest.NewRecorder()
	srv.Handler().ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/runs/"+created.RunID, nil))
	require.Equal(t, http.StatusOK, get.Code)
	var fetched runResponse
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	summary := httptest.NewRecorder()
	srv.Handler().ServeHTTP(summary, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/runs/%s/summary", created.RunID), nil))
	require.Equal(t, http.StatusOK, summary.Code)
	assert.Contains(t, summary.Body.String(), `"std_error"`)
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{
		"/api/runs/does-not-exist",
		"/api/runs/does-not-exist/summary",
		"/api/runs/does-not-exist/report",
	} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestGetReport(t *testing.T) {
	srv := newTestServer(t)
	rec, created := postRun(t, srv, runPayload(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	report := httptest.NewRecorder()
	srv.Handler().ServeHTTP(report, httptest.NewRequest(http.MethodGet, "/api/runs/"+created.RunID+"/report", nil))
	require.Equal(t, http.StatusOK, report.Code)
	assert.True(t, strings.HasPrefix(report.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, report.Body.String(), "mean-strength")
	assert.Contains(t, report.Body.String(), "<table>")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := postRun(t, srv, runPayload(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	metrics := httptest.NewRecorder()
	srv.Handler().ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "graphboot_runs_total")
}
