// Package store persists assets, signals, findings and comments. Two
// implementations exist behind the Store interface: Memory for tests and
// database-less runs, and Postgres for real deployments. Both implement the
// same dedup merge contract: concurrent ingests of one fingerprint never
// double-create a finding.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// ErrNotFound is returned when a record addressed by ID does not exist.
var ErrNotFound = errors.New("record not found")

// AssetUpsert carries the writable asset fields for an explicit upsert.
// Empty fields leave the existing value untouched on update and fall back to
// defaults on create.
type AssetUpsert struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Owner       string `json:"owner"`
	Criticality string `json:"criticality"`
	Exposure    string `json:"exposure"`
}

// TriagePatch is a partial update of a finding's triage state. Nil means
// "leave unchanged"; a pointer to the empty string clears the assignee.
type TriagePatch struct {
	Status   *schemas.Status
	Assignee *string
}

// Store is the persistence contract shared by the memory and Postgres
// implementations.
type Store interface {
	Ping(ctx context.Context) error

	// UpsertAsset creates or updates an asset addressed by its normalized key.
	UpsertAsset(ctx context.Context, in AssetUpsert) (schemas.Asset, error)
	// EnsureAsset returns the asset for key, creating a minimal one with the
	// given criticality and exposure when it does not exist. An existing
	// asset is never modified.
	EnsureAsset(ctx context.Context, key, criticality, exposure string) (schemas.Asset, error)
	ListAssets(ctx context.Context, limit int) ([]schemas.Asset, error)

	// InsertSignal appends one immutable raw signal.
	InsertSignal(ctx context.Context, tool, payload string) (schemas.Signal, error)

	// MergeFinding applies the dedup contract for candidate's fingerprint:
	// if no finding exists one is created from candidate; otherwise the
	// existing finding is updated (last_seen, occurrences+1, max risk score,
	// signal relink, asset relink) with status and assignee untouched. The
	// bool result reports whether the signal was deduplicated into an
	// existing finding.
	MergeFinding(ctx context.Context, candidate schemas.Finding) (schemas.Finding, bool, error)
	GetFinding(ctx context.Context, id string) (schemas.Finding, error)
	ListFindings(ctx context.Context, limit int) ([]schemas.Finding, error)
	// UpdateTriage applies patch and records a system audit comment when
	// anything actually changed. It returns the human-readable change list.
	UpdateTriage(ctx context.Context, id string, patch TriagePatch) (schemas.Finding, []string, error)

	AddComment(ctx context.Context, findingID, author, content, actionType string) (schemas.Comment, error)
	ListComments(ctx context.Context, findingID string) ([]schemas.Comment, error)

	// OpenRiskByAsset aggregates open findings grouped by their asset string.
	OpenRiskByAsset(ctx context.Context) ([]schemas.RiskRow, error)
	// OpenRiskByAssetKey aggregates open findings joined to registered assets.
	OpenRiskByAssetKey(ctx context.Context, limit int) ([]schemas.RiskRow, error)

	Close()
}

// NormalizeKey canonicalizes an asset key: trimmed and lowercased.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ClampLimit bounds a caller-supplied page size to [1,200], defaulting to 100
// when the caller passed nothing.
func ClampLimit(limit int) int {
	if limit == 0 {
		return 100
	}
	if limit < 1 {
		return 1
	}
	if limit > 200 {
		return 200
	}
	return limit
}
