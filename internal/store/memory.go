package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// Memory is the in-process Store. It backs tests and CLI runs without a
// configured database. All methods are safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	assets        map[string]*schemas.Asset // by normalized key
	signals       []schemas.Signal
	findings      map[string]*schemas.Finding // by ID
	byFingerprint map[string]*schemas.Finding
	comments      map[string][]schemas.Comment // by finding ID

	// now is swappable so tests can pin time.
	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		assets:        make(map[string]*schemas.Asset),
		findings:      make(map[string]*schemas.Finding),
		byFingerprint: make(map[string]*schemas.Finding),
		comments:      make(map[string][]schemas.Comment),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}

func (m *Memory) UpsertAsset(_ context.Context, in AssetUpsert) (schemas.Asset, error) {
	key := NormalizeKey(in.Key)
	if key == "" {
		return schemas.Asset{}, fmt.Errorf("asset key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	a, ok := m.assets[key]
	if !ok {
		a = &schemas.Asset{
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
		m.assets[key] = a
		return *a, nil
	}

	a.Name = nonEmpty(in.Name, a.Name)
	a.Environment = nonEmpty(in.Environment, a.Environment)
	a.Owner = nonEmpty(in.Owner, a.Owner)
	a.Criticality = nonEmpty(in.Criticality, a.Criticality)
	a.Exposure = nonEmpty(in.Exposure, a.Exposure)
	a.UpdatedAt = now
	return *a, nil
}

func (m *Memory) EnsureAsset(_ context.Context, key, criticality, exposure string) (schemas.Asset, error) {
	key = NormalizeKey(key)
	if key == "" {
		key = "unknown"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.assets[key]; ok {
		return *a, nil
	}
	now := m.now()
	a := &schemas.Asset{
		ID:          uuid.NewString(),
		Key:         key,
		Name:        key,
		Environment: "unknown",
		Criticality: nonEmpty(criticality, "medium"),
		Exposure:    nonEmpty(exposure, "internal"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.assets[key] = a
	return *a, nil
}

func (m *Memory) ListAssets(_ context.Context, limit int) ([]schemas.Asset, error) {
	limit = ClampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schemas.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) InsertSignal(_ context.Context, tool, payload string) (schemas.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := schemas.Signal{
		ID:        uuid.NewString(),
		Tool:      tool,
		Payload:   payload,
		CreatedAt: m.now(),
	}
	m.signals = append(m.signals, s)
	return s, nil
}

func (m *Memory) MergeFinding(_ context.Context, candidate schemas.Finding) (schemas.Finding, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.byFingerprint[candidate.Fingerprint]; ok {
		existing.LastSeen = now
		existing.Occurrences++
		if candidate.RiskScore > existing.RiskScore {
			existing.RiskScore = candidate.RiskScore
		}
		existing.SignalID = candidate.SignalID
		existing.Asset = candidate.Asset
		existing.AssetID = candidate.AssetID
		return *existing, true, nil
	}

	f := candidate
	f.ID = uuid.NewString()
	f.Status = schemas.StatusOpen
	f.Occurrences = 1
	f.FirstSeen = now
	f.LastSeen = now
	m.findings[f.ID] = &f
	m.byFingerprint[f.Fingerprint] = &f
	return f, false, nil
}

func (m *Memory) GetFinding(_ context.Context, id string) (schemas.Finding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.findings[id]
	if !ok {
		return schemas.Finding{}, fmt.Errorf("finding %q: %w", id, ErrNotFound)
	}
	return *f, nil
}

func (m *Memory) ListFindings(_ context.Context, limit int) ([]schemas.Finding, error) {
	limit = ClampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schemas.Finding, 0, len(m.findings))
	for _, f := range m.findings {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UpdateTriage(_ context.Context, id string, patch TriagePatch) (schemas.Finding, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.findings[id]
	if !ok {
		return schemas.Finding{}, nil, fmt.Errorf("finding %q: %w", id, ErrNotFound)
	}

	changes := triageChanges(f, patch)
	applyTriage(f, patch)

	if len(changes) > 0 {
		c := schemas.Comment{
			ID:         uuid.NewString(),
			FindingID:  id,
			Author:     "system",
			Content:    joinChanges(changes),
			ActionType: "update",
			CreatedAt:  m.now(),
		}
		m.comments[id] = append(m.comments[id], c)
	}
	return *f, changes, nil
}

func (m *Memory) AddComment(_ context.Context, findingID, author, content, actionType string) (schemas.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.findings[findingID]; !ok {
		return schemas.Comment{}, fmt.Errorf("finding %q: %w", findingID, ErrNotFound)
	}
	c := schemas.Comment{
		ID:         uuid.NewString(),
		FindingID:  findingID,
		Author:     author,
		Content:    content,
		ActionType: actionType,
		CreatedAt:  m.now(),
	}
	m.comments[findingID] = append(m.comments[findingID], c)
	return c, nil
}

func (m *Memory) ListComments(_ context.Context, findingID string) ([]schemas.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.comments[findingID]
	out := make([]schemas.Comment, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) OpenRiskByAsset(context.Context) ([]schemas.RiskRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return aggregateRisk(m.findings, func(f *schemas.Finding) (string, bool) {
		return f.Asset, true
	}, 0), nil
}

func (m *Memory) OpenRiskByAssetKey(_ context.Context, limit int) ([]schemas.RiskRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byID := make(map[string]string, len(m.assets))
	for key, a := range m.assets {
		byID[a.ID] = key
	}
	return aggregateRisk(m.findings, func(f *schemas.Finding) (string, bool) {
		key, ok := byID[f.AssetID]
		return key, ok
	}, ClampLimit(limit)), nil
}

// aggregateRisk groups open findings by the key groupFn yields and computes
// the count/max/sum/avg rows, ordered by max risk descending. A limit of 0
// means unlimited.
func aggregateRisk(findings map[string]*schemas.Finding, groupFn func(*schemas.Finding) (string, bool), limit int) []schemas.RiskRow {
	type agg struct {
		count, max, sum int
	}
	groups := make(map[string]*agg)
	for _, f := range findings {
		if f.Status != schemas.StatusOpen {
			continue
		}
		key, ok := groupFn(f)
		if !ok {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &agg{}
			groups[key] = g
		}
		g.count++
		g.sum += f.RiskScore
		if f.RiskScore > g.max {
			g.max = f.RiskScore
		}
	}

	rows := make([]schemas.RiskRow, 0, len(groups))
	for asset, g := range groups {
		rows = append(rows, schemas.RiskRow{
			Asset:         asset,
			TotalFindings: g.count,
			MaxRisk:       g.max,
			RiskSum:       g.sum,
			AvgRisk:       g.sum / g.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MaxRisk != rows[j].MaxRisk {
			return rows[i].MaxRisk > rows[j].MaxRisk
		}
		return rows[i].Asset < rows[j].Asset
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
