package postgres

import "context"

// schemaStatements are applied on startup. Idempotent, so a restart
// against an already-provisioned database is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS iam_users (
		id       TEXT PRIMARY KEY,
		login    TEXT NOT NULL,
		status   TEXT NOT NULL,
		groups   JSONB NOT NULL DEFAULT '[]',
		policies JSONB NOT NULL DEFAULT '[]',
		keys     JSONB NOT NULL DEFAULT '[]',
		metadata JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS iam_groups (
		name        TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		members     JSONB NOT NULL DEFAULT '[]',
		policies    JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS iam_policies (
		name     TEXT PRIMARY KEY,
		document JSONB NOT NULL,
		checksum TEXT NOT NULL,
		version  TEXT NOT NULL DEFAULT '1.0.0',
		labels   JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS iam_keys (
		access_key TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ,
		status     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS iam_profiles (
		id            BIGSERIAL PRIMARY KEY,
		label         TEXT NOT NULL,
		endpoint      TEXT NOT NULL,
		region        TEXT NOT NULL DEFAULT '',
		use_ssl       BOOLEAN NOT NULL DEFAULT FALSE,
		verify_tls    BOOLEAN NOT NULL DEFAULT FALSE,
		auth_mode     TEXT NOT NULL DEFAULT 'aksk',
		issuer_url    TEXT NOT NULL DEFAULT '',
		client_id     TEXT NOT NULL DEFAULT '',
		client_secret TEXT NOT NULL DEFAULT ''
	)`,
}

func (d *Driver) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return mapError(err, "failed to apply schema")
		}
	}
	return nil
}
