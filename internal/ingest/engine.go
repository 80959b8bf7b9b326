// Package ingest is the dedup engine: it turns normalized signals (posted
// directly or extracted from raw scanner output by the parser registry) into
// persisted findings, merging repeat detections by fingerprint.
package ingest

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/api/schemas"
	"github.com/djvirus9/secops-dashboard/internal/config"
	"github.com/djvirus9/secops-dashboard/internal/fingerprint"
	"github.com/djvirus9/secops-dashboard/internal/notify"
	"github.com/djvirus9/secops-dashboard/internal/parsers"
	"github.com/djvirus9/secops-dashboard/internal/risk"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine wires the store, the risk model and the notifiers into the single
// ingest pipeline shared by the HTTP API and the CLI.
type Engine struct {
	store    store.Store
	notifier *notify.Dispatcher
	cfg      config.IngestConfig
	log      *zap.Logger

	// dispatch decouples notification delivery from the request path.
	// Swapped for a synchronous version in tests.
	dispatch func(ev notify.Event)
}

// NewEngine builds the ingest engine. notifier may be nil when no channel is
// configured.
func NewEngine(st store.Store, notifier *notify.Dispatcher, cfg config.IngestConfig, logger *zap.Logger) *Engine {
	e := &Engine{
		store:    st,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.Named("ingest"),
	}
	e.dispatch = func(ev notify.Event) {
		go e.notifier.Dispatch(context.Background(), ev)
	}
	return e
}

// ScanResult summarizes one raw scanner report pushed through the pipeline.
type ScanResult struct {
	Parser   string                 `json:"parser"`
	Findings int                    `json:"findings"`
	Accepted int                    `json:"accepted"`
	Deduped  int                    `json:"deduped"`
	Results  []schemas.IngestResult `json:"results"`
}

// IngestSignal runs one normalized signal through the pipeline: the asset is
// auto-registered, the raw signal stored, the risk score computed, and the
// finding created or merged by fingerprint.
func (e *Engine) IngestSignal(ctx context.Context, in schemas.SignalIn) (schemas.IngestResult, error) {
	return e.ingest(ctx, in, "")
}

// IngestScan resolves a parser (explicitly by name, otherwise by content
// detection), extracts findings from the raw report and ingests each one.
// Per-finding storage failures are logged and skipped so one bad record does
// not discard the rest of the report.
func (e *Engine) IngestScan(ctx context.Context, content, parserName, filename string) (ScanResult, error) {
	var (
		p   parsers.Parser
		err error
	)
	if parserName != "" {
		p, err = parsers.Get(parserName)
	} else {
		p, err = parsers.Detect(content, filename)
	}
	if err != nil {
		return ScanResult{}, err
	}

	findings := p.Parse(content, filename)
	res := ScanResult{
		Parser:   p.Info().Name,
		Findings: len(findings),
		Results:  make([]schemas.IngestResult, 0, len(findings)),
	}

	for _, pf := range findings {
		in := schemas.SignalIn{
			Tool:     pf.Tool,
			Severity: string(pf.Severity),
			Title:    pf.Title,
			Asset:    pf.Asset,
		}
		r, err := e.ingest(ctx, in, pf.Description)
		if err != nil {
			e.log.Warn("Failed to ingest parsed finding",
				zap.String("parser", res.Parser),
				zap.String("title", pf.Title),
				zap.Error(err))
			continue
		}
		res.Accepted++
		if r.Deduped {
			res.Deduped++
		}
		res.Results = append(res.Results, r)
	}
	return res, nil
}

func (e *Engine) ingest(ctx context.Context, in schemas.SignalIn, description string) (schemas.IngestResult, error) {
	if strings.TrimSpace(in.Tool) == "" || strings.TrimSpace(in.Title) == "" {
		return schemas.IngestResult{}, fmt.Errorf("signal requires both tool and title")
	}

	severity := schemas.NormalizeSeverity(in.Severity)
	exposure := fallback(in.Exposure, e.cfg.DefaultExposure, "internal")
	criticality := fallback(in.Criticality, e.cfg.DefaultCriticality, "medium")

	assetKey := store.NormalizeKey(in.Asset)
	if assetKey == "" {
		assetKey = "unknown"
	}

	asset, err := e.store.EnsureAsset(ctx, assetKey, criticality, exposure)
	if err != nil {
		return schemas.IngestResult{}, fmt.Errorf("failed to ensure asset: %w", err)
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return schemas.IngestResult{}, fmt.Errorf("failed to encode signal payload: %w", err)
	}
	sig, err := e.store.InsertSignal(ctx, in.Tool, string(payload))
	if err != nil {
		return schemas.IngestResult{}, fmt.Errorf("failed to store signal: %w", err)
	}

	score := risk.Score(string(severity), exposure, criticality)
	fp := fingerprint.Compute(in.Tool, in.Title, assetKey)

	finding, deduped, err := e.store.MergeFinding(ctx, schemas.Finding{
		Fingerprint: fp,
		Tool:        in.Tool,
		Title:       in.Title,
		Severity:    severity,
		Asset:       assetKey,
		AssetID:     asset.ID,
		Exposure:    exposure,
		Criticality: criticality,
		RiskScore:   score,
		SignalID:    sig.ID,
	})
	if err != nil {
		return schemas.IngestResult{}, fmt.Errorf("failed to merge finding: %w", err)
	}

	e.log.Info("Signal ingested",
		zap.String("tool", in.Tool),
		zap.String("asset", assetKey),
		zap.String("severity", string(severity)),
		zap.Int("risk_score", finding.RiskScore),
		zap.Bool("deduped", deduped))

	e.maybeNotify(finding, deduped, description)

	return schemas.IngestResult{
		Accepted:    true,
		Deduped:     deduped,
		SignalID:    sig.ID,
		FindingID:   finding.ID,
		RiskScore:   finding.RiskScore,
		Occurrences: finding.Occurrences,
		Fingerprint: finding.Fingerprint,
	}, nil
}

func (e *Engine) maybeNotify(f schemas.Finding, deduped bool, description string) {
	if e.notifier == nil || !e.notifier.Enabled() {
		return
	}
	if severityRank(string(f.Severity)) < severityRank(e.cfg.NotifyMinSeverity) {
		return
	}
	e.dispatch(notify.Event{
		FindingID:   f.ID,
		Title:       f.Title,
		Severity:    string(f.Severity),
		Asset:       f.Asset,
		Tool:        f.Tool,
		RiskScore:   f.RiskScore,
		Description: description,
		IsNew:       !deduped,
		Occurrences: f.Occurrences,
	})
}

// severityRank orders the canonical levels so the notify threshold can be
// compared. An unknown threshold disables no levels.
func severityRank(severity string) int {
	switch strings.ToLower(severity) {
	case "critical":
		return 4
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}

func fallback(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
