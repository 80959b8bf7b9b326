package schemas

import "time"

// -- Persisted Records --

// Status tracks the triage lifecycle of a finding.
type Status string

// Allowed finding statuses.
const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusClosed        Status = "closed"
)

// ValidStatus reports whether s is one of the allowed triage statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Asset is a named resource (host, file, package, cloud object) findings are
// attached to. Identity is the lowercased Key; assets are upserted by key and
// auto-created with defaults when an ingest references an unknown one.
type Asset struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Owner       string `json:"owner"`
	Criticality string `json:"criticality"`
	Exposure    string `json:"exposure"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Signal is one raw ingested scanner report. Signals are append-only and
// immutable once written; they exist purely as an audit trail.
type Signal struct {
	ID        string    `json:"id"`
	Tool      string    `json:"tool"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Finding is a deduplicated, tracked security issue derived from one or more
// signals. Identity for dedup purposes is the Fingerprint (sha256 over the
// normalized tool|title|asset triple); ID exists for addressability.
type Finding struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`

	Tool     string   `json:"tool"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`

	Asset   string `json:"asset"`
	AssetID string `json:"asset_id,omitempty"`

	Exposure    string `json:"exposure"`
	Criticality string `json:"criticality"`
	Status      Status `json:"status"`
	Assignee    string `json:"assignee,omitempty"`

	RiskScore   int `json:"risk_score"`
	Occurrences int `json:"occurrences"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	// SignalID links to the most recent signal that matched this finding.
	SignalID string `json:"signal_id"`
}

// Comment is an append-only note attached to a finding. System-authored
// comments with ActionType "update" are generated automatically when status
// or assignee change.
type Comment struct {
	ID         string    `json:"id"`
	FindingID  string    `json:"finding_id"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	ActionType string    `json:"action_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// -- Ingest API --

// SignalIn is the normalized ingest request consumed by the dedup engine,
// either directly from the API or produced by a parser.
type SignalIn struct {
	Tool        string `json:"tool"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Asset       string `json:"asset,omitempty"`
	Exposure    string `json:"exposure,omitempty"`
	Criticality string `json:"criticality,omitempty"`
}

// IngestResult reports what the dedup engine did with one signal.
type IngestResult struct {
	Accepted    bool   `json:"accepted"`
	Deduped     bool   `json:"deduped"`
	SignalID    string `json:"signal_id"`
	FindingID   string `json:"finding_id"`
	RiskScore   int    `json:"risk_score"`
	Occurrences int    `json:"occurrences"`
	Fingerprint string `json:"fingerprint"`
}

// RiskRow is one row of the per-asset risk aggregation.
type RiskRow struct {
	Asset         string `json:"asset"`
	TotalFindings int    `json:"total_findings"`
	MaxRisk       int    `json:"max_risk"`
	RiskSum       int    `json:"risk_sum"`
	AvgRisk       int    `json:"avg_risk"`
}
