package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	p, err := NewPostgres(context.Background(), mock, zap.NewNop())
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p, mock
}

func findingRowColumns() []string {
	return []string{
		"id", "fingerprint", "tool", "title", "severity", "asset", "asset_id",
		"exposure", "criticality", "status", "assignee", "risk_score",
		"occurrences", "first_seen", "last_seen", "signal_id",
	}
}

func TestPostgresMergeFindingInsert(t *testing.T) {
	p, mock := newMockStore(t)
	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(append(findingRowColumns(), "inserted")).AddRow(
		"f-1", "fp-1", "trivy", "CVE-2024-1234 in libssl", "high", "api.example.com", "asset-1",
		"internet", "high", "open", "", 50, 1, seen, seen, "sig-1", true)
	mock.ExpectQuery(`INSERT INTO findings`).
		WithArgs(pgxmock.AnyArg(), "fp-1", "trivy", "CVE-2024-1234 in libssl", "high",
			"api.example.com", "asset-1", "internet", "high", 50, pgxmock.AnyArg(), "sig-1").
		WillReturnRows(rows)

	f, deduped, err := p.MergeFinding(context.Background(), candidateFinding("fp-1", 50))
	require.NoError(t, err)
	assert.False(t, deduped)
	assert.Equal(t, "f-1", f.ID)
	assert.Equal(t, schemas.StatusOpen, f.Status)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, 1, f.Occurrences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMergeFindingDedup(t *testing.T) {
	p, mock := newMockStore(t)
	first := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(append(findingRowColumns(), "inserted")).AddRow(
		"f-1", "fp-1", "trivy", "CVE-2024-1234 in libssl", "high", "api.example.com", "asset-1",
		"internet", "high", "resolved", "alice", 80, 4, first, last, "sig-9", false)
	mock.ExpectQuery(`INSERT INTO findings`).
		WithArgs(pgxmock.AnyArg(), "fp-1", "trivy", "CVE-2024-1234 in libssl", "high",
			"api.example.com", "asset-1", "internet", "high", 50, pgxmock.AnyArg(), "sig-1").
		WillReturnRows(rows)

	f, deduped, err := p.MergeFinding(context.Background(), candidateFinding("fp-1", 50))
	require.NoError(t, err)
	assert.True(t, deduped)
	assert.Equal(t, 4, f.Occurrences)
	assert.Equal(t, schemas.StatusResolved, f.Status, "merge must carry triage state through unchanged")
	assert.Equal(t, first, f.FirstSeen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetFindingNotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := p.GetFinding(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnsureAsset(t *testing.T) {
	p, mock := newMockStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "key", "name", "environment", "owner", "criticality", "exposure", "created_at", "updated_at",
	}).AddRow("a-1", "web.example.com", "web.example.com", "unknown", "", "medium", "internet", now, now)
	mock.ExpectQuery(`INSERT INTO assets`).
		WithArgs(pgxmock.AnyArg(), "web.example.com", "medium", "internet", pgxmock.AnyArg()).
		WillReturnRows(rows)

	a, err := p.EnsureAsset(context.Background(), "  Web.Example.Com ", "", "internet")
	require.NoError(t, err)
	assert.Equal(t, "a-1", a.ID)
	assert.Equal(t, "web.example.com", a.Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertAssetCreates(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM assets WHERE key = \$1 FOR UPDATE`).
		WithArgs("db.internal").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO assets`).
		WithArgs(pgxmock.AnyArg(), "db.internal", "db.internal", "unknown", "dba",
			"high", "internal", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	a, err := p.UpsertAsset(context.Background(), AssetUpsert{Key: "DB.Internal", Owner: "dba", Criticality: "high"})
	require.NoError(t, err)
	assert.Equal(t, "db.internal", a.Key)
	assert.Equal(t, "high", a.Criticality)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateTriage(t *testing.T) {
	p, mock := newMockStore(t)
	seen := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \$1 FOR UPDATE`).
		WithArgs("f-1").
		WillReturnRows(pgxmock.NewRows(findingRowColumns()).AddRow(
			"f-1", "fp-1", "trivy", "CVE-2024-1234 in libssl", "high", "api.example.com", "asset-1",
			"internet", "high", "open", "", 50, 1, seen, seen, "sig-1"))
	mock.ExpectExec(`UPDATE findings SET status`).
		WithArgs("f-1", "resolved", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO comments`).
		WithArgs(pgxmock.AnyArg(), "f-1", "system",
			"Status changed from 'open' to 'resolved'; Assignee changed from 'unassigned' to 'alice'",
			"update", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	f, changes, err := p.UpdateTriage(context.Background(), "f-1", TriagePatch{
		Status:   statusPtr(schemas.StatusResolved),
		Assignee: strPtr("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.StatusResolved, f.Status)
	assert.Equal(t, "alice", f.Assignee)
	assert.Len(t, changes, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateTriageNotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM findings WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := p.UpdateTriage(context.Background(), "missing", TriagePatch{Status: statusPtr(schemas.StatusClosed)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertSignal(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO signals`).
		WithArgs(pgxmock.AnyArg(), "trivy", `{"tool":"trivy"}`, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s, err := p.InsertSignal(context.Background(), "trivy", `{"tool":"trivy"}`)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "trivy", s.Tool)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOpenRiskByAsset(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT asset, COUNT`).
		WillReturnRows(pgxmock.NewRows([]string{"asset", "count", "max", "sum", "avg"}).
			AddRow("web", 2, 120, 151, 75.5).
			AddRow("db", 1, 90, 90, 90.0))

	rows, err := p.OpenRiskByAsset(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "web", rows[0].Asset)
	assert.Equal(t, 75, rows[0].AvgRisk, "average truncates toward zero")
	assert.Equal(t, 90, rows[1].MaxRisk)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnsureSchema(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS assets`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, p.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
