package store

// schemaDDL bootstraps the four tables. Findings carry a unique index on
// fingerprint; MergeFinding relies on it for its ON CONFLICT upsert.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS assets (
    id          TEXT PRIMARY KEY,
    key         TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL DEFAULT '',
    environment TEXT NOT NULL DEFAULT 'unknown',
    owner       TEXT NOT NULL DEFAULT '',
    criticality TEXT NOT NULL DEFAULT 'medium',
    exposure    TEXT NOT NULL DEFAULT 'internal',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS signals (
    id         TEXT PRIMARY KEY,
    tool       TEXT NOT NULL,
    payload    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
    id          TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL UNIQUE,
    tool        TEXT NOT NULL,
    title       TEXT NOT NULL,
    severity    TEXT NOT NULL,
    asset       TEXT NOT NULL,
    asset_id    TEXT NOT NULL DEFAULT '',
    exposure    TEXT NOT NULL DEFAULT 'internal',
    criticality TEXT NOT NULL DEFAULT 'medium',
    status      TEXT NOT NULL DEFAULT 'open',
    assignee    TEXT NOT NULL DEFAULT '',
    risk_score  INTEGER NOT NULL DEFAULT 1,
    occurrences INTEGER NOT NULL DEFAULT 1,
    first_seen  TIMESTAMPTZ NOT NULL,
    last_seen   TIMESTAMPTZ NOT NULL,
    signal_id   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_findings_status ON findings (status);
CREATE INDEX IF NOT EXISTS idx_findings_asset_id ON findings (asset_id);

CREATE TABLE IF NOT EXISTS comments (
    id          TEXT PRIMARY KEY,
    finding_id  TEXT NOT NULL REFERENCES findings (id) ON DELETE CASCADE,
    author      TEXT NOT NULL,
    content     TEXT NOT NULL,
    action_type TEXT NOT NULL DEFAULT 'comment',
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_finding_id ON comments (finding_id);
`
