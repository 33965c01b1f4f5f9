// Package mysql provides a MySQL implementation of iam.Store backed by
// database/sql and the go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
)

// Driver is a MySQL implementation of iam.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

var _ iam.Store = (*Driver)(nil)

// New opens a MySQL connection pool using the provided Config, ensures
// the console schema exists, and validates the connection with a ping.
func New(ctx context.Context, cfg iam.Config) (*Driver, error) {
	db, err := buildPool(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := d.ensureSchema(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// --- iam.Store implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) ListUsers(ctx context.Context) ([]iam.User, error) {
	const q = `
		SELECT id, login, status, user_groups, policies, access_keys, metadata
		FROM iam_users
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list users")
	}
	defer rows.Close()

	var users []iam.User
	for rows.Next() {
		var (
			u                                iam.User
			groups, policies, keys, metadata []byte
		)
		if err := rows.Scan(&u.ID, &u.Login, &u.Status, &groups, &policies, &keys, &metadata); err != nil {
			return nil, mapError(err, "failed to scan user")
		}
		if err := decodeJSON(groups, &u.Groups); err != nil {
			return nil, err
		}
		if err := decodeJSON(policies, &u.Policies); err != nil {
			return nil, err
		}
		if err := decodeJSON(keys, &u.Keys); err != nil {
			return nil, err
		}
		if err := decodeJSON(metadata, &u.Metadata); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate users")
	}
	return users, nil
}

func (d *Driver) CreateUser(ctx context.Context, user iam.User) (iam.User, error) {
	const q = `
		INSERT INTO iam_users (id, login, status, user_groups, policies, access_keys, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	groups, err := encodeJSON(user.Groups)
	if err != nil {
		return iam.User{}, err
	}
	policies, err := encodeJSON(user.Policies)
	if err != nil {
		return iam.User{}, err
	}
	keys, err := encodeJSON(user.Keys)
	if err != nil {
		return iam.User{}, err
	}
	metadata, err := encodeJSON(user.Metadata)
	if err != nil {
		return iam.User{}, err
	}

	if _, err := d.db.ExecContext(ctx, q, user.ID, user.Login, user.Status, groups, policies, keys, metadata); err != nil {
		return iam.User{}, mapError(err, "failed to create user")
	}
	return user, nil
}

func (d *Driver) UpdateUser(ctx context.Context, id string, upd iam.UserUpdate) (iam.User, error) {
	const q = `
		UPDATE iam_users
		SET login = ?, status = ?, user_groups = ?, policies = ?
		WHERE id = ?`

	groups, err := encodeJSON(upd.Groups)
	if err != nil {
		return iam.User{}, err
	}
	policies, err := encodeJSON(upd.Policies)
	if err != nil {
		return iam.User{}, err
	}

	res, err := d.db.ExecContext(ctx, q, upd.Login, upd.Status, groups, policies, id)
	if err != nil {
		return iam.User{}, mapError(err, "failed to update user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports zero affected rows both for a missing id and a
		// no-op update, so confirm existence before deciding.
		if exists, err := d.userExists(ctx, id); err != nil {
			return iam.User{}, err
		} else if !exists {
			return iam.User{}, errs.New(errs.ErrKindNotFound, "user not found")
		}
	}

	return d.getUser(ctx, id)
}

func (d *Driver) userExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM iam_users WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err, "failed to check user")
	}
	return true, nil
}

func (d *Driver) getUser(ctx context.Context, id string) (iam.User, error) {
	const q = `
		SELECT id, login, status, user_groups, policies, access_keys, metadata
		FROM iam_users
		WHERE id = ?`

	var (
		u                                iam.User
		groups, policies, keys, metadata []byte
	)
	err := d.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Login, &u.Status, &groups, &policies, &keys, &metadata)
	if err != nil {
		return iam.User{}, mapError(err, "failed to load user")
	}
	if err := decodeJSON(groups, &u.Groups); err != nil {
		return iam.User{}, err
	}
	if err := decodeJSON(policies, &u.Policies); err != nil {
		return iam.User{}, err
	}
	if err := decodeJSON(keys, &u.Keys); err != nil {
		return iam.User{}, err
	}
	if err := decodeJSON(metadata, &u.Metadata); err != nil {
		return iam.User{}, err
	}
	return u, nil
}

func (d *Driver) DeleteUser(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM iam_users WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "failed to delete user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.ErrKindNotFound, "user not found")
	}
	return nil
}

func (d *Driver) ListGroups(ctx context.Context) ([]iam.Group, error) {
	const q = `
		SELECT name, description, members, policies
		FROM iam_groups
		ORDER BY name`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list groups")
	}
	defer rows.Close()

	var groups []iam.Group
	for rows.Next() {
		var (
			g                 iam.Group
			members, policies []byte
		)
		if err := rows.Scan(&g.Name, &g.Description, &members, &policies); err != nil {
			return nil, mapError(err, "failed to scan group")
		}
		if err := decodeJSON(members, &g.Members); err != nil {
			return nil, err
		}
		if err := decodeJSON(policies, &g.Policies); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate groups")
	}
	return groups, nil
}

func (d *Driver) CreateGroup(ctx context.Context, group iam.Group) (iam.Group, error) {
	const q = `
		INSERT INTO iam_groups (name, description, members, policies)
		VALUES (?, ?, ?, ?)`

	members, err := encodeJSON(group.Members)
	if err != nil {
		return iam.Group{}, err
	}
	policies, err := encodeJSON(group.Policies)
	if err != nil {
		return iam.Group{}, err
	}
	if _, err := d.db.ExecContext(ctx, q, group.Name, group.Description, members, policies); err != nil {
		return iam.Group{}, mapError(err, "failed to create group")
	}
	return group, nil
}

func (d *Driver) UpdateGroup(ctx context.Context, group iam.Group) (iam.Group, error) {
	const q = `
		UPDATE iam_groups
		SET description = ?, members = ?, policies = ?
		WHERE name = ?`

	members, err := encodeJSON(group.Members)
	if err != nil {
		return iam.Group{}, err
	}
	policies, err := encodeJSON(group.Policies)
	if err != nil {
		return iam.Group{}, err
	}
	res, err := d.db.ExecContext(ctx, q, group.Description, members, policies, group.Name)
	if err != nil {
		return iam.Group{}, mapError(err, "failed to update group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if exists, err := d.rowExists(ctx, `SELECT 1 FROM iam_groups WHERE name = ?`, group.Name); err != nil {
			return iam.Group{}, err
		} else if !exists {
			return iam.Group{}, errs.New(errs.ErrKindNotFound, "group not found")
		}
	}
	return group, nil
}

func (d *Driver) DeleteGroup(ctx context.Context, name string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM iam_groups WHERE name = ?`, name)
	if err != nil {
		return mapError(err, "failed to delete group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.ErrKindNotFound, "group not found")
	}
	return nil
}

func (d *Driver) ListPolicies(ctx context.Context) ([]iam.Policy, error) {
	const q = `
		SELECT name, document, checksum, version, labels
		FROM iam_policies
		ORDER BY name`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list policies")
	}
	defer rows.Close()

	var policies []iam.Policy
	for rows.Next() {
		var (
			p                iam.Policy
			document, labels []byte
		)
		if err := rows.Scan(&p.Name, &document, &p.Checksum, &p.Version, &labels); err != nil {
			return nil, mapError(err, "failed to scan policy")
		}
		if err := decodeJSON(document, &p.Document); err != nil {
			return nil, err
		}
		if err := decodeJSON(labels, &p.Labels); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate policies")
	}
	return policies, nil
}

func (d *Driver) CreatePolicy(ctx context.Context, policy iam.Policy) (iam.Policy, error) {
	const q = `
		INSERT INTO iam_policies (name, document, checksum, version, labels)
		VALUES (?, ?, ?, ?, ?)`

	document, err := encodeJSON(policy.Document)
	if err != nil {
		return iam.Policy{}, err
	}
	labels, err := encodeJSON(policy.Labels)
	if err != nil {
		return iam.Policy{}, err
	}
	if _, err := d.db.ExecContext(ctx, q, policy.Name, document, policy.Checksum, policy.Version, labels); err != nil {
		return iam.Policy{}, mapError(err, "failed to create policy")
	}
	return policy, nil
}

func (d *Driver) UpdatePolicy(ctx context.Context, name string, doc iam.PolicyDocument) (iam.Policy, error) {
	const q = `
		UPDATE iam_policies
		SET document = ?, checksum = ?
		WHERE name = ?`

	document, err := encodeJSON(doc)
	if err != nil {
		return iam.Policy{}, err
	}
	res, err := d.db.ExecContext(ctx, q, document, iam.DocumentChecksum(doc), name)
	if err != nil {
		return iam.Policy{}, mapError(err, "failed to update policy")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if exists, err := d.rowExists(ctx, `SELECT 1 FROM iam_policies WHERE name = ?`, name); err != nil {
			return iam.Policy{}, err
		} else if !exists {
			return iam.Policy{}, errs.New(errs.ErrKindNotFound, "policy not found")
		}
	}

	const sel = `
		SELECT name, document, checksum, version, labels
		FROM iam_policies
		WHERE name = ?`

	var (
		p                 iam.Policy
		rawDoc, rawLabels []byte
	)
	err = d.db.QueryRowContext(ctx, sel, name).
		Scan(&p.Name, &rawDoc, &p.Checksum, &p.Version, &rawLabels)
	if err != nil {
		return iam.Policy{}, mapError(err, "failed to load policy")
	}
	if err := decodeJSON(rawDoc, &p.Document); err != nil {
		return iam.Policy{}, err
	}
	if err := decodeJSON(rawLabels, &p.Labels); err != nil {
		return iam.Policy{}, err
	}
	return p, nil
}

func (d *Driver) DeletePolicy(ctx context.Context, name string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM iam_policies WHERE name = ?`, name)
	if err != nil {
		return mapError(err, "failed to delete policy")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.ErrKindNotFound, "policy not found")
	}
	return nil
}

func (d *Driver) ListKeys(ctx context.Context) ([]iam.KeyMeta, error) {
	const q = `
		SELECT access_key, created_at, expires_at, status
		FROM iam_keys
		ORDER BY created_at`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list keys")
	}
	defer rows.Close()

	var keys []iam.KeyMeta
	for rows.Next() {
		var k iam.KeyMeta
		if err := rows.Scan(&k.AccessKey, &k.CreatedAt, &k.ExpiresAt, &k.Status); err != nil {
			return nil, mapError(err, "failed to scan key")
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate keys")
	}
	return keys, nil
}

func (d *Driver) CreateKey(ctx context.Context, key iam.KeyMeta) (iam.KeyMeta, error) {
	const q = `
		INSERT INTO iam_keys (access_key, created_at, expires_at, status)
		VALUES (?, ?, ?, ?)`

	if _, err := d.db.ExecContext(ctx, q, key.AccessKey, key.CreatedAt, key.ExpiresAt, key.Status); err != nil {
		return iam.KeyMeta{}, mapError(err, "failed to create key")
	}
	return key, nil
}

func (d *Driver) ListProfiles(ctx context.Context) ([]iam.Profile, error) {
	const q = `
		SELECT label, endpoint, region, use_ssl, verify_tls, auth_mode,
		       issuer_url, client_id, client_secret
		FROM iam_profiles
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list profiles")
	}
	defer rows.Close()

	var profiles []iam.Profile
	for rows.Next() {
		var p iam.Profile
		if err := rows.Scan(&p.Label, &p.Endpoint, &p.Region, &p.UseSSL, &p.VerifyTLS,
			&p.AuthMode, &p.IssuerURL, &p.ClientID, &p.ClientSecret); err != nil {
			return nil, mapError(err, "failed to scan profile")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate profiles")
	}
	return profiles, nil
}

func (d *Driver) CreateProfile(ctx context.Context, profile iam.Profile) (iam.Profile, error) {
	const q = `
		INSERT INTO iam_profiles
			(label, endpoint, region, use_ssl, verify_tls, auth_mode, issuer_url, client_id, client_secret)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := d.db.ExecContext(ctx, q, profile.Label, profile.Endpoint, profile.Region,
		profile.UseSSL, profile.VerifyTLS, profile.AuthMode,
		profile.IssuerURL, profile.ClientID, profile.ClientSecret); err != nil {
		return iam.Profile{}, mapError(err, "failed to create profile")
	}
	return profile, nil
}

// --- helpers ---

func (d *Driver) rowExists(ctx context.Context, query, arg string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err, "failed to check row")
	}
	return true, nil
}

func encodeJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode JSON column", err)
	}
	return raw, nil
}

func decodeJSON(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errs.Wrap(errs.ErrKindStoreFailed, "failed to decode stored JSON", err)
	}
	return nil
}
