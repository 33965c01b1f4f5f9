package mysql

import "context"

// schemaStatements are applied on startup. Idempotent, so a restart
// against an already-provisioned database is a no-op.
//
// "groups" and "keys" are reserved words in recent MySQL releases, so
// the columns carry the user_/access_ prefixes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS iam_users (
		id          VARCHAR(64) PRIMARY KEY,
		login       VARCHAR(255) NOT NULL,
		status      VARCHAR(16) NOT NULL,
		user_groups JSON NOT NULL,
		policies    JSON NOT NULL,
		access_keys JSON NOT NULL,
		metadata    JSON NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS iam_groups (
		name        VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		members     JSON NOT NULL,
		policies    JSON NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS iam_policies (
		name     VARCHAR(255) PRIMARY KEY,
		document JSON NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		version  VARCHAR(16) NOT NULL DEFAULT '1.0.0',
		labels   JSON NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS iam_keys (
		access_key VARCHAR(128) PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NULL,
		status     VARCHAR(16) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS iam_profiles (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		label         VARCHAR(255) NOT NULL,
		endpoint      VARCHAR(512) NOT NULL,
		region        VARCHAR(64) NOT NULL DEFAULT '',
		use_ssl       BOOLEAN NOT NULL DEFAULT FALSE,
		verify_tls    BOOLEAN NOT NULL DEFAULT FALSE,
		auth_mode     VARCHAR(16) NOT NULL DEFAULT 'aksk',
		issuer_url    VARCHAR(512) NOT NULL DEFAULT '',
		client_id     VARCHAR(255) NOT NULL DEFAULT '',
		client_secret VARCHAR(255) NOT NULL DEFAULT ''
	)`,
}

func (d *Driver) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return mapError(err, "failed to apply schema")
		}
	}
	return nil
}
