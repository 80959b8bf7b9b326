package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/api/schemas"
	"github.com/djvirus9/secops-dashboard/internal/config"
	"github.com/djvirus9/secops-dashboard/internal/notify"
	"github.com/djvirus9/secops-dashboard/internal/parsers"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

func testEngine() (*Engine, *store.Memory) {
	mem := store.NewMemory()
	cfg := config.IngestConfig{
		DefaultExposure:    "internal",
		DefaultCriticality: "medium",
		NotifyMinSeverity:  "medium",
	}
	return NewEngine(mem, nil, cfg, zap.NewNop()), mem
}

func TestIngestSignalCreatesFinding(t *testing.T) {
	e, mem := testEngine()
	ctx := context.Background()

	res, err := e.IngestSignal(ctx, schemas.SignalIn{
		Tool:     "trivy",
		Severity: "HIGH",
		Title:    "CVE-2024-1234 in libssl",
		Asset:    "  API.Example.Com ",
		Exposure: "internet",
	})
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.False(t, res.Deduped)
	assert.NotEmpty(t, res.SignalID)
	assert.NotEmpty(t, res.FindingID)
	assert.Equal(t, 1, res.Occurrences)
	// high (10) * internet (1.5) * medium (1.0) * 10
	assert.Equal(t, 150, res.RiskScore)
	assert.Len(t, res.Fingerprint, 64)

	f, err := mem.GetFinding(ctx, res.FindingID)
	require.NoError(t, err)
	assert.Equal(t, schemas.SeverityHigh, f.Severity, "severity is normalized on the way in")
	assert.Equal(t, "api.example.com", f.Asset)
	assert.Equal(t, "medium", f.Criticality, "config default fills missing criticality")

	assets, err := mem.ListAssets(ctx, 10)
	require.NoError(t, err)
	require.Len(t, assets, 1, "asset is auto-registered")
	assert.Equal(t, "api.example.com", assets[0].Key)
	assert.Equal(t, assets[0].ID, f.AssetID)
}

func TestIngestSignalDedupsByFingerprint(t *testing.T) {
	e, _ := testEngine()
	ctx := context.Background()

	in := schemas.SignalIn{Tool: "trivy", Severity: "medium", Title: "weak cipher", Asset: "db"}
	first, err := e.IngestSignal(ctx, in)
	require.NoError(t, err)

	in.Severity = "critical"
	second, err := e.IngestSignal(ctx, in)
	require.NoError(t, err)

	assert.True(t, second.Deduped)
	assert.Equal(t, first.FindingID, second.FindingID)
	assert.Equal(t, first.Fingerprint, second.Fingerprint, "severity does not participate in identity")
	assert.Equal(t, 2, second.Occurrences)
	assert.Greater(t, second.RiskScore, first.RiskScore, "risk raises to the new maximum")
	assert.NotEqual(t, first.SignalID, second.SignalID, "every submission stores its own signal")
}

func TestIngestSignalMissingAssetFallsBackToUnknown(t *testing.T) {
	e, mem := testEngine()

	res, err := e.IngestSignal(context.Background(), schemas.SignalIn{
		Tool: "gitleaks", Severity: "low", Title: "aws key in repo",
	})
	require.NoError(t, err)

	f, err := mem.GetFinding(context.Background(), res.FindingID)
	require.NoError(t, err)
	assert.Equal(t, "unknown", f.Asset)
}

func TestIngestSignalRejectsIncomplete(t *testing.T) {
	e, _ := testEngine()

	_, err := e.IngestSignal(context.Background(), schemas.SignalIn{Tool: "trivy"})
	assert.Error(t, err)
	_, err = e.IngestSignal(context.Background(), schemas.SignalIn{Title: "orphan finding"})
	assert.Error(t, err)
}

func TestIngestScanWithExplicitParser(t *testing.T) {
	e, _ := testEngine()

	content := `{"findings": [
		{"title": "XSS in search", "severity": "high", "asset": "web.example.com"},
		{"title": "Verbose banner", "severity": "info", "asset": "web.example.com"},
		{"severity": "high"}
	]}`

	res, err := e.IngestScan(context.Background(), content, "generic-json", "report.json")
	require.NoError(t, err)

	assert.Equal(t, "generic-json", res.Parser)
	assert.Equal(t, 2, res.Findings, "records without a title are dropped by the parser")
	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 0, res.Deduped)
	require.Len(t, res.Results, 2)
	assert.True(t, res.Results[0].Accepted)
}

func TestIngestScanAutoDetect(t *testing.T) {
	e, _ := testEngine()

	content := `{
		"generated_at": "2026-03-01T12:00:00Z",
		"results": [{
			"test_id": "B602",
			"test_name": "subprocess_popen_with_shell_equals_true",
			"issue_severity": "HIGH",
			"issue_text": "subprocess call with shell=True identified.",
			"filename": "app/tasks.py",
			"line_number": 42
		}]
	}`

	res, err := e.IngestScan(context.Background(), content, "", "bandit.json")
	require.NoError(t, err)
	assert.Equal(t, "bandit", res.Parser)
	assert.Equal(t, 1, res.Accepted)
}

func TestIngestNotifySeverityGate(t *testing.T) {
	mem := store.NewMemory()
	cfg := config.IngestConfig{
		DefaultExposure:    "internal",
		DefaultCriticality: "medium",
		NotifyMinSeverity:  "high",
	}
	d := notify.NewDispatcher(config.NotifyConfig{
		Timeout: time.Second,
		Slack:   config.SlackConfig{WebhookURL: "http://webhook.invalid"},
	}, zap.NewNop())
	e := NewEngine(mem, d, cfg, zap.NewNop())

	var events []notify.Event
	e.dispatch = func(ev notify.Event) { events = append(events, ev) }
	ctx := context.Background()

	_, err := e.IngestSignal(ctx, schemas.SignalIn{Tool: "nikto", Severity: "low", Title: "server banner", Asset: "web"})
	require.NoError(t, err)
	assert.Empty(t, events, "below-threshold severities stay quiet")

	_, err = e.IngestSignal(ctx, schemas.SignalIn{Tool: "zap", Severity: "critical", Title: "SQLi", Asset: "web"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsNew)
	assert.Equal(t, "critical", events[0].Severity)

	_, err = e.IngestSignal(ctx, schemas.SignalIn{Tool: "zap", Severity: "critical", Title: "SQLi", Asset: "web"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[1].IsNew)
	assert.Equal(t, 2, events[1].Occurrences)
}

func TestIngestScanUnknownParser(t *testing.T) {
	e, _ := testEngine()

	_, err := e.IngestScan(context.Background(), "{}", "no-such-scanner", "x.json")
	assert.ErrorIs(t, err, parsers.ErrUnknownParser)
}

func TestIngestScanUndetectable(t *testing.T) {
	e, _ := testEngine()

	_, err := e.IngestScan(context.Background(), "completely opaque text", "", "notes.txt")
	assert.ErrorIs(t, err, parsers.ErrNoParserDetected)
}
