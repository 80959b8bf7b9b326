package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

func statusPtr(s schemas.Status) *schemas.Status { return &s }
func strPtr(s string) *string                    { return &s }

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func candidateFinding(fingerprint string, risk int) schemas.Finding {
	return schemas.Finding{
		Fingerprint: fingerprint,
		Tool:        "trivy",
		Title:       "CVE-2024-1234 in libssl",
		Severity:    schemas.SeverityHigh,
		Asset:       "api.example.com",
		AssetID:     "asset-1",
		Exposure:    "internet",
		Criticality: "high",
		RiskScore:   risk,
		SignalID:    "sig-1",
	}
}

func TestMemoryMergeFindingCreates(t *testing.T) {
	m := NewMemory()
	m.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	f, deduped, err := m.MergeFinding(context.Background(), candidateFinding("fp-1", 50))
	require.NoError(t, err)
	assert.False(t, deduped)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, schemas.StatusOpen, f.Status)
	assert.Equal(t, 1, f.Occurrences)
	assert.Equal(t, f.FirstSeen, f.LastSeen)
	assert.Equal(t, 50, f.RiskScore)
}

func TestMemoryMergeFindingDedups(t *testing.T) {
	m := NewMemory()
	m.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 50))
	require.NoError(t, err)

	again := candidateFinding("fp-1", 80)
	again.SignalID = "sig-2"
	again.Asset = "api2.example.com"
	merged, deduped, err := m.MergeFinding(ctx, again)
	require.NoError(t, err)

	assert.True(t, deduped)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 2, merged.Occurrences)
	assert.Equal(t, 80, merged.RiskScore, "risk score keeps the maximum")
	assert.Equal(t, "sig-2", merged.SignalID, "relinks to the latest signal")
	assert.Equal(t, "api2.example.com", merged.Asset)
	assert.Equal(t, first.FirstSeen, merged.FirstSeen)
	assert.True(t, merged.LastSeen.After(first.LastSeen))

	// A lower-risk repeat must not shrink the score.
	lower := candidateFinding("fp-1", 10)
	merged, _, err = m.MergeFinding(ctx, lower)
	require.NoError(t, err)
	assert.Equal(t, 80, merged.RiskScore)
}

func TestMemoryMergeFindingDoesNotReopen(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	f, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 50))
	require.NoError(t, err)

	_, _, err = m.UpdateTriage(ctx, f.ID, TriagePatch{Status: statusPtr(schemas.StatusResolved)})
	require.NoError(t, err)

	merged, deduped, err := m.MergeFinding(ctx, candidateFinding("fp-1", 60))
	require.NoError(t, err)
	assert.True(t, deduped)
	assert.Equal(t, schemas.StatusResolved, merged.Status, "a repeat sighting must not flip triage state")
}

func TestMemoryUpdateTriage(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	f, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 50))
	require.NoError(t, err)

	updated, changes, err := m.UpdateTriage(ctx, f.ID, TriagePatch{
		Status:   statusPtr(schemas.StatusInvestigating),
		Assignee: strPtr("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusInvestigating, updated.Status)
	assert.Equal(t, "alice", updated.Assignee)
	require.Len(t, changes, 2)
	assert.Equal(t, "Status changed from 'open' to 'investigating'", changes[0])
	assert.Equal(t, "Assignee changed from 'unassigned' to 'alice'", changes[1])

	comments, err := m.ListComments(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "system", comments[0].Author)
	assert.Equal(t, "update", comments[0].ActionType)
	assert.Equal(t,
		"Status changed from 'open' to 'investigating'; Assignee changed from 'unassigned' to 'alice'",
		comments[0].Content)
}

func TestMemoryUpdateTriageNoOp(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	f, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 50))
	require.NoError(t, err)

	_, changes, err := m.UpdateTriage(ctx, f.ID, TriagePatch{Status: statusPtr(schemas.StatusOpen)})
	require.NoError(t, err)
	assert.Empty(t, changes)

	comments, err := m.ListComments(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, comments, "no-op patches must not leave audit comments")
}

func TestMemoryUpdateTriageClearsAssignee(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	f, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 50))
	require.NoError(t, err)
	_, _, err = m.UpdateTriage(ctx, f.ID, TriagePatch{Assignee: strPtr("bob")})
	require.NoError(t, err)

	updated, changes, err := m.UpdateTriage(ctx, f.ID, TriagePatch{Assignee: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Assignee)
	require.Len(t, changes, 1)
	assert.Equal(t, "Assignee changed from 'bob' to 'unassigned'", changes[0])
}

func TestMemoryUpdateTriageNotFound(t *testing.T) {
	m := NewMemory()
	_, _, err := m.UpdateTriage(context.Background(), "missing", TriagePatch{Status: statusPtr(schemas.StatusResolved)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAddCommentNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.AddComment(context.Background(), "missing", "alice", "hello", "comment")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpsertAsset(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.UpsertAsset(ctx, AssetUpsert{Key: "  API.Example.Com  ", Owner: "platform"})
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", created.Key, "keys are trimmed and lowercased")
	assert.Equal(t, "api.example.com", created.Name)
	assert.Equal(t, "unknown", created.Environment)
	assert.Equal(t, "medium", created.Criticality)
	assert.Equal(t, "internal", created.Exposure)

	updated, err := m.UpsertAsset(ctx, AssetUpsert{Key: "api.example.com", Criticality: "high"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "high", updated.Criticality)
	assert.Equal(t, "platform", updated.Owner, "empty fields leave existing values untouched")

	_, err = m.UpsertAsset(ctx, AssetUpsert{})
	assert.Error(t, err)
}

func TestMemoryEnsureAssetKeepsExisting(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.EnsureAsset(ctx, "db.internal", "high", "internal")
	require.NoError(t, err)
	assert.Equal(t, "high", created.Criticality)

	same, err := m.EnsureAsset(ctx, "DB.Internal", "low", "internet")
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)
	assert.Equal(t, "high", same.Criticality, "ensure never rewrites an existing asset")

	anon, err := m.EnsureAsset(ctx, "   ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "unknown", anon.Key)
	assert.Equal(t, "medium", anon.Criticality)
	assert.Equal(t, "internal", anon.Exposure)
}

func TestMemoryRiskAggregation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed := func(fp, asset, assetID string, risk int) schemas.Finding {
		c := candidateFinding(fp, risk)
		c.Asset = asset
		c.AssetID = assetID
		f, _, err := m.MergeFinding(ctx, c)
		require.NoError(t, err)
		return f
	}

	a1, err := m.EnsureAsset(ctx, "web", "medium", "internet")
	require.NoError(t, err)
	a2, err := m.EnsureAsset(ctx, "db", "high", "internal")
	require.NoError(t, err)

	seed("fp-1", "web", a1.ID, 120)
	seed("fp-2", "web", a1.ID, 31)
	seed("fp-3", "db", a2.ID, 90)
	resolved := seed("fp-4", "db", a2.ID, 200)
	_, _, err = m.UpdateTriage(ctx, resolved.ID, TriagePatch{Status: statusPtr(schemas.StatusResolved)})
	require.NoError(t, err)

	rows, err := m.OpenRiskByAsset(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "web", rows[0].Asset, "ordered by max risk descending")
	assert.Equal(t, 2, rows[0].TotalFindings)
	assert.Equal(t, 120, rows[0].MaxRisk)
	assert.Equal(t, 151, rows[0].RiskSum)
	assert.Equal(t, 75, rows[0].AvgRisk, "average truncates toward zero")
	assert.Equal(t, "db", rows[1].Asset)
	assert.Equal(t, 1, rows[1].TotalFindings, "resolved findings are excluded")

	byKey, err := m.OpenRiskByAssetKey(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byKey, 1, "limit applies")
	assert.Equal(t, "web", byKey[0].Asset)
}

func TestMemoryListFindingsOrderAndLimit(t *testing.T) {
	m := NewMemory()
	m.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, _, err := m.MergeFinding(ctx, candidateFinding("fp-1", 10))
	require.NoError(t, err)
	newest, _, err := m.MergeFinding(ctx, candidateFinding("fp-2", 20))
	require.NoError(t, err)

	got, err := m.ListFindings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newest.ID, got[0].ID, "newest last_seen first")
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "api.example.com", NormalizeKey("  API.Example.Com "))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 100, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 200, ClampLimit(9999))
	assert.Equal(t, 42, ClampLimit(42))
}
