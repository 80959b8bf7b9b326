package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// DBPool abstracts pgxpool.Pool so pgxmock can drive the tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// Postgres is the pgx-backed Store implementation.
type Postgres struct {
	pool DBPool
	log  *zap.Logger
	now  func() time.Time
}

// NewPostgres creates a Postgres store and verifies the connection.
func NewPostgres(ctx context.Context, pool DBPool, logger *zap.Logger) (*Postgres, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{
		pool: pool,
		log:  logger.Named("store"),
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Close() { p.pool.Close() }

// EnsureSchema creates the tables when they do not exist yet. It does not
// migrate columns of existing tables.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const assetColumns = "id, key, name, environment, owner, criticality, exposure, created_at, updated_at"

func scanAsset(row pgx.Row) (schemas.Asset, error) {
	var a schemas.Asset
	err := row.Scan(&a.ID, &a.Key, &a.Name, &a.Environment, &a.Owner, &a.Criticality, &a.Exposure, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (p *Postgres) UpsertAsset(ctx context.Context, in AssetUpsert) (schemas.Asset, error) {
	key := NormalizeKey(in.Key)
	if key == "" {
		return schemas.Asset{}, fmt.Errorf("asset key is required")
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return schemas.Asset{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer p.rollback(ctx, tx)

	now := p.now()
	existing, err := scanAsset(tx.QueryRow(ctx, "SELECT "+assetColumns+" FROM assets WHERE key = $1 FOR UPDATE", key))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		existing = schemas.Asset{
			ID:          uuid.NewString(),
			Key:         key,
			Name:        nonEmpty(in.Name, key),
			Environment: nonEmpty(in.Environment, "unknown"),
			Owner:       in.Owner,
			Criticality: nonEmpty(in.Criticality, "medium"),
			Exposure:    nonEmpty(in.Exposure, "internal"),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err = tx.Exec(ctx,
			"INSERT INTO assets ("+assetColumns+") VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)",
			existing.ID, existing.Key, existing.Name, existing.Environment, existing.Owner,
			existing.Criticality, existing.Exposure, existing.CreatedAt, existing.UpdatedAt)
		if err != nil {
			return schemas.Asset{}, fmt.Errorf("failed to insert asset: %w", err)
		}
	case err != nil:
		return schemas.Asset{}, fmt.Errorf("failed to query asset: %w", err)
	default:
		existing.Name = nonEmpty(in.Name, existing.Name)
		existing.Environment = nonEmpty(in.Environment, existing.Environment)
		existing.Owner = nonEmpty(in.Owner, existing.Owner)
		existing.Criticality = nonEmpty(in.Criticality, existing.Criticality)
		existing.Exposure = nonEmpty(in.Exposure, existing.Exposure)
		existing.UpdatedAt = now
		_, err = tx.Exec(ctx,
			"UPDATE assets SET name=$2, environment=$3, owner=$4, criticality=$5, exposure=$6, updated_at=$7 WHERE key=$1",
			key, existing.Name, existing.Environment, existing.Owner, existing.Criticality, existing.Exposure, existing.UpdatedAt)
		if err != nil {
			return schemas.Asset{}, fmt.Errorf("failed to update asset: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return schemas.Asset{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return existing, nil
}

func (p *Postgres) EnsureAsset(ctx context.Context, key, criticality, exposure string) (schemas.Asset, error) {
	key = NormalizeKey(key)
	if key == "" {
		key = "unknown"
	}
	now := p.now()
	// ON CONFLICT DO UPDATE with a no-op assignment so the statement always
	// returns a row, created or pre-existing, in one round trip.
	row := p.pool.QueryRow(ctx, `
        INSERT INTO assets (`+assetColumns+`)
        VALUES ($1, $2, $2, 'unknown', '', $3, $4, $5, $5)
        ON CONFLICT (key) DO UPDATE SET key = EXCLUDED.key
        RETURNING `+assetColumns,
		uuid.NewString(), key, nonEmpty(criticality, "medium"), nonEmpty(exposure, "internal"), now)
	a, err := scanAsset(row)
	if err != nil {
		return schemas.Asset{}, fmt.Errorf("failed to ensure asset: %w", err)
	}
	return a, nil
}

func (p *Postgres) ListAssets(ctx context.Context, limit int) ([]schemas.Asset, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+assetColumns+" FROM assets ORDER BY updated_at DESC LIMIT $1", ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var out []schemas.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertSignal(ctx context.Context, tool, payload string) (schemas.Signal, error) {
	s := schemas.Signal{
		ID:        uuid.NewString(),
		Tool:      tool,
		Payload:   payload,
		CreatedAt: p.now(),
	}
	_, err := p.pool.Exec(ctx,
		"INSERT INTO signals (id, tool, payload, created_at) VALUES ($1,$2,$3,$4)",
		s.ID, s.Tool, s.Payload, s.CreatedAt)
	if err != nil {
		return schemas.Signal{}, fmt.Errorf("failed to insert signal: %w", err)
	}
	return s, nil
}

const findingColumns = "id, fingerprint, tool, title, severity, asset, asset_id, exposure, criticality, status, assignee, risk_score, occurrences, first_seen, last_seen, signal_id"

func scanFinding(row pgx.Row) (schemas.Finding, error) {
	var f schemas.Finding
	var severity, status string
	err := row.Scan(&f.ID, &f.Fingerprint, &f.Tool, &f.Title, &severity, &f.Asset, &f.AssetID,
		&f.Exposure, &f.Criticality, &status, &f.Assignee, &f.RiskScore, &f.Occurrences,
		&f.FirstSeen, &f.LastSeen, &f.SignalID)
	f.Severity = schemas.Severity(severity)
	f.Status = schemas.Status(status)
	return f, err
}

func (p *Postgres) MergeFinding(ctx context.Context, candidate schemas.Finding) (schemas.Finding, bool, error) {
	now := p.now()
	// Single upsert keyed on the fingerprint: concurrent ingests of the same
	// fingerprint serialize on the unique index instead of double-creating.
	// The xmax trick distinguishes a fresh insert from a merge.
	row := p.pool.QueryRow(ctx, `
        INSERT INTO findings (`+findingColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'open','',$10,1,$11,$11,$12)
        ON CONFLICT (fingerprint) DO UPDATE SET
            last_seen   = EXCLUDED.last_seen,
            occurrences = findings.occurrences + 1,
            risk_score  = GREATEST(findings.risk_score, EXCLUDED.risk_score),
            signal_id   = EXCLUDED.signal_id,
            asset       = EXCLUDED.asset,
            asset_id    = EXCLUDED.asset_id
        RETURNING `+findingColumns+`, (xmax = 0) AS inserted`,
		uuid.NewString(), candidate.Fingerprint, candidate.Tool, candidate.Title, string(candidate.Severity),
		candidate.Asset, candidate.AssetID, candidate.Exposure, candidate.Criticality,
		candidate.RiskScore, now, candidate.SignalID)

	var f schemas.Finding
	var severity, status string
	var inserted bool
	err := row.Scan(&f.ID, &f.Fingerprint, &f.Tool, &f.Title, &severity, &f.Asset, &f.AssetID,
		&f.Exposure, &f.Criticality, &status, &f.Assignee, &f.RiskScore, &f.Occurrences,
		&f.FirstSeen, &f.LastSeen, &f.SignalID, &inserted)
	if err != nil {
		return schemas.Finding{}, false, fmt.Errorf("failed to merge finding: %w", err)
	}
	f.Severity = schemas.Severity(severity)
	f.Status = schemas.Status(status)
	return f, !inserted, nil
}

func (p *Postgres) GetFinding(ctx context.Context, id string) (schemas.Finding, error) {
	f, err := scanFinding(p.pool.QueryRow(ctx,
		"SELECT "+findingColumns+" FROM findings WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return schemas.Finding{}, fmt.Errorf("finding %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return schemas.Finding{}, fmt.Errorf("failed to query finding: %w", err)
	}
	return f, nil
}

func (p *Postgres) ListFindings(ctx context.Context, limit int) ([]schemas.Finding, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+findingColumns+" FROM findings ORDER BY last_seen DESC LIMIT $1", ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var out []schemas.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateTriage(ctx context.Context, id string, patch TriagePatch) (schemas.Finding, []string, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return schemas.Finding{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer p.rollback(ctx, tx)

	f, err := scanFinding(tx.QueryRow(ctx,
		"SELECT "+findingColumns+" FROM findings WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return schemas.Finding{}, nil, fmt.Errorf("finding %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return schemas.Finding{}, nil, fmt.Errorf("failed to query finding: %w", err)
	}

	changes := triageChanges(&f, patch)
	if len(changes) > 0 {
		applyTriage(&f, patch)
		if _, err := tx.Exec(ctx,
			"UPDATE findings SET status=$2, assignee=$3 WHERE id=$1",
			id, string(f.Status), f.Assignee); err != nil {
			return schemas.Finding{}, nil, fmt.Errorf("failed to update finding: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO comments (id, finding_id, author, content, action_type, created_at) VALUES ($1,$2,$3,$4,$5,$6)",
			uuid.NewString(), id, "system", joinChanges(changes), "update", p.now()); err != nil {
			return schemas.Finding{}, nil, fmt.Errorf("failed to insert audit comment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return schemas.Finding{}, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return f, changes, nil
}

func (p *Postgres) AddComment(ctx context.Context, findingID, author, content, actionType string) (schemas.Comment, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM findings WHERE id = $1)", findingID).Scan(&exists); err != nil {
		return schemas.Comment{}, fmt.Errorf("failed to check finding: %w", err)
	}
	if !exists {
		return schemas.Comment{}, fmt.Errorf("finding %q: %w", findingID, ErrNotFound)
	}

	c := schemas.Comment{
		ID:         uuid.NewString(),
		FindingID:  findingID,
		Author:     author,
		Content:    content,
		ActionType: actionType,
		CreatedAt:  p.now(),
	}
	_, err := p.pool.Exec(ctx,
		"INSERT INTO comments (id, finding_id, author, content, action_type, created_at) VALUES ($1,$2,$3,$4,$5,$6)",
		c.ID, c.FindingID, c.Author, c.Content, c.ActionType, c.CreatedAt)
	if err != nil {
		return schemas.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	return c, nil
}

func (p *Postgres) ListComments(ctx context.Context, findingID string) ([]schemas.Comment, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT id, finding_id, author, content, action_type, created_at FROM comments WHERE finding_id = $1 ORDER BY created_at DESC",
		findingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var out []schemas.Comment
	for rows.Next() {
		var c schemas.Comment
		if err := rows.Scan(&c.ID, &c.FindingID, &c.Author, &c.Content, &c.ActionType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) OpenRiskByAsset(ctx context.Context) ([]schemas.RiskRow, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT asset, COUNT(*), MAX(risk_score), SUM(risk_score), AVG(risk_score)
        FROM findings
        WHERE status = 'open'
        GROUP BY asset
        ORDER BY MAX(risk_score) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk aggregation: %w", err)
	}
	defer rows.Close()
	return scanRiskRows(rows)
}

func (p *Postgres) OpenRiskByAssetKey(ctx context.Context, limit int) ([]schemas.RiskRow, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT a.key, COUNT(f.id), MAX(f.risk_score), SUM(f.risk_score), AVG(f.risk_score)
        FROM assets a
        JOIN findings f ON f.asset_id = a.id
        WHERE f.status = 'open'
        GROUP BY a.key
        ORDER BY MAX(f.risk_score) DESC
        LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query asset risk aggregation: %w", err)
	}
	defer rows.Close()
	return scanRiskRows(rows)
}

func scanRiskRows(rows pgx.Rows) ([]schemas.RiskRow, error) {
	var out []schemas.RiskRow
	for rows.Next() {
		var r schemas.RiskRow
		var avg float64
		if err := rows.Scan(&r.Asset, &r.TotalFindings, &r.MaxRisk, &r.RiskSum, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan risk row: %w", err)
		}
		r.AvgRisk = int(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		p.log.Error("Failed to rollback transaction", zap.Error(err))
	}
}
