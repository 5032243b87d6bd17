package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwlim/signalpipe/internal/history"
	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/logger"
)

func newTestHandler(t *testing.T) *RunsHandler {
	t.Helper()
	store := history.NewStore(10)
	recorder := history.NewRecorder(store, nil, logger.Nop())
	return NewRunsHandler(pipeline.New(logger.Nop()), recorder, logger.Nop())
}

func writeFixtures(t *testing.T) (input, config string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "data.csv")
	config = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(input, []byte("close\n1\n2\n3\n"), 0o644))
	require.NoError(t, os.WriteFile(config, []byte("seed: 42\nwindow: 3\nversion: \"v1\"\n"), 0o644))
	return input, config
}

func postRun(t *testing.T, h *RunsHandler, input, config string) *httptest.ResponseRecorder {
	t.Helper()
	body := bytes.NewBufferString(fmt.Sprintf(`{"input":%q,"config":%q}`, input, config))
	req := httptest.NewRequest(http.MethodPost, "/api/runs", body)
	w := httptest.NewRecorder()
	h.CreateRun(w, req)
	return w
}

func TestCreateRun(t *testing.T) {
	h := newTestHandler(t)
	input, config := writeFixtures(t)

	w := postRun(t, h, input, config)
	assert.Equal(t, http.StatusOK, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "signal_rate", payload["metric"])
	assert.Equal(t, float64(3), payload["rows_processed"])
}

func TestCreateRunPipelineFailure(t *testing.T) {
	h := newTestHandler(t)
	_, config := writeFixtures(t)

	w := postRun(t, h, filepath.Join(t.TempDir(), "missing.csv"), config)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Equal(t, "v1", payload["version"])
	assert.Contains(t, payload["error_message"], "missing input file")
}

func TestCreateRunBadRequests(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{"},
		{name: "missing paths", body: `{"input":"","config":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			h.CreateRun(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetLatest(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil)
	w := httptest.NewRecorder()
	h.GetLatest(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	input, config := writeFixtures(t)
	postRun(t, h, input, config)

	w = httptest.NewRecorder()
	h.GetLatest(w, httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var rec history.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "success", rec.Status)
}

func TestListRuns(t *testing.T) {
	h := newTestHandler(t)
	input, config := writeFixtures(t)
	postRun(t, h, input, config)
	postRun(t, h, input, config)

	w := httptest.NewRecorder()
	h.ListRuns(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var recs []history.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)
}

func TestListRunsBadLimit(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ListRuns(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
