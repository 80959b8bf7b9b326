package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/internal/config"
	"github.com/djvirus9/secops-dashboard/internal/ingest"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

func testServer() (*Server, *store.Memory) {
	mem := store.NewMemory()
	engine := ingest.NewEngine(mem, nil, config.IngestConfig{
		DefaultExposure:    "internal",
		DefaultCriticality: "medium",
	}, zap.NewNop())
	return New(config.ServerConfig{MaxBodyBytes: 1 << 20}, mem, engine, zap.NewNop()), mem
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func ingestOne(t *testing.T, h http.Handler, body string) map[string]any {
	t.Helper()
	rec, payload := doJSON(t, h, http.MethodPost, "/ingest/signal", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return payload
}

func TestHealth(t *testing.T) {
	s, _ := testServer()
	rec, payload := doJSON(t, s.Router(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
}

func TestIngestSignalEndpoint(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	payload := ingestOne(t, h, `{"tool":"nuclei","severity":"high","title":"Open redirect","asset":"api.prod.example.com","exposure":"internet"}`)
	assert.Equal(t, true, payload["accepted"])
	assert.Equal(t, false, payload["deduped"])
	assert.Equal(t, float64(150), payload["risk_score"])
	assert.Len(t, payload["fingerprint"], 64)

	again := ingestOne(t, h, `{"tool":"nuclei","severity":"high","title":"Open redirect","asset":"api.prod.example.com","exposure":"internet"}`)
	assert.Equal(t, true, again["deduped"])
	assert.Equal(t, float64(2), again["occurrences"])

	rec, _ := doJSON(t, h, http.MethodPost, "/ingest/signal", `{"severity":"high"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestScanEndpoint(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	body := `{"parser":"generic-json","filename":"report.json","content":"{\"findings\":[{\"title\":\"XSS\",\"severity\":\"high\",\"asset\":\"web\"}]}"}`
	rec, payload := doJSON(t, h, http.MethodPost, "/ingest/scan", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "generic-json", payload["parser"])
	assert.Equal(t, float64(1), payload["accepted"])

	rec, payload = doJSON(t, h, http.MethodPost, "/ingest/scan", `{"parser":"bogus","content":"{}"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, payload["error"], "Unknown parser")

	rec, _ = doJSON(t, h, http.MethodPost, "/ingest/scan", `{"parser":"generic-json"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindingLifecycle(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	created := ingestOne(t, h, `{"tool":"zap","severity":"critical","title":"SQLi","asset":"web"}`)
	id := created["finding_id"].(string)

	// Triage it.
	rec, payload := doJSON(t, h, http.MethodPatch, "/findings/"+id, `{"status":"investigating","assignee":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["ok"])
	finding := payload["finding"].(map[string]any)
	assert.Equal(t, "investigating", finding["status"])
	assert.Equal(t, "alice", finding["assignee"])
	changes := payload["changes"].([]any)
	require.Len(t, changes, 2)

	// Human comment on top of the system audit comment.
	rec, _ = doJSON(t, h, http.MethodPost, "/findings/"+id+"/comments", `{"author":"alice","content":"confirmed, fix in review"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload = doJSON(t, h, http.MethodGet, "/findings/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, payload["id"])
	comments := payload["comments"].([]any)
	require.Len(t, comments, 2)
	newest := comments[0].(map[string]any)
	assert.Equal(t, "alice", newest["author"])
	audit := comments[1].(map[string]any)
	assert.Equal(t, "system", audit["author"])
	assert.Equal(t, "update", audit["action_type"])
}

func TestUpdateFindingValidation(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	rec, payload := doJSON(t, h, http.MethodPatch, "/findings/whatever", `{"status":"snoozed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status 'snoozed'. Allowed: closed, investigating, open, resolved", payload["error"])

	rec, payload = doJSON(t, h, http.MethodPatch, "/findings/missing", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Finding not found", payload["error"])
}

func TestAssetEndpoints(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	rec, _ := doJSON(t, h, http.MethodPost, "/assets/upsert", `{"name":"orphan"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload := doJSON(t, h, http.MethodPost, "/assets/upsert", `{"key":"API.Prod.Example.Com","criticality":"high","exposure":"internet"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	asset := payload["asset"].(map[string]any)
	assert.Equal(t, "api.prod.example.com", asset["key"])
	assert.Equal(t, "high", asset["criticality"])

	rec, payload = doJSON(t, h, http.MethodGet, "/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["count"])
}

func TestRiskEndpoints(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	ingestOne(t, h, `{"tool":"zap","severity":"critical","title":"SQLi","asset":"web","exposure":"internet"}`)
	ingestOne(t, h, `{"tool":"trivy","severity":"low","title":"old curl","asset":"web"}`)
	ingestOne(t, h, `{"tool":"trivy","severity":"medium","title":"weak cipher","asset":"db"}`)

	rec, payload := doJSON(t, h, http.MethodGet, "/risks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), payload["count"])
	results := payload["results"].([]any)
	top := results[0].(map[string]any)
	assert.Equal(t, "web", top["asset"])
	assert.Equal(t, float64(2), top["total_findings"])

	rec, payload = doJSON(t, h, http.MethodGet, "/risks/assets?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["count"])
}

func TestListParsers(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	rec, payload := doJSON(t, h, http.MethodGet, "/parsers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Greater(t, payload["count"], float64(90))

	rec, payload = doJSON(t, h, http.MethodGet, "/parsers?category=network", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := payload["results"].([]any)
	require.NotEmpty(t, results)
	for _, v := range results {
		info := v.(map[string]any)
		assert.Equal(t, "network", info["category"])
	}
}

func TestFindingListEndpoint(t *testing.T) {
	s, _ := testServer()
	h := s.Router()

	ingestOne(t, h, `{"tool":"zap","severity":"high","title":"XSS","asset":"web"}`)

	rec, payload := doJSON(t, h, http.MethodGet, "/findings?limit=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["count"])
	results := payload["results"].([]any)
	f := results[0].(map[string]any)
	assert.Equal(t, "zap", f["tool"])
	assert.Equal(t, "open", f["status"])
}

func TestRunShutsDownGracefully(t *testing.T) {
	s, _ := testServer()
	s.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	err := <-done
	if err != nil && !strings.Contains(err.Error(), "address already in use") {
		assert.NoError(t, err)
	}
}
