// Package postgres provides a PostgreSQL implementation of iam.Store
// backed by a pgx connection pool.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

// Driver is a PostgreSQL implementation of iam.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	pool *pgxpool.Pool
}

var _ iam.Store = (*Driver)(nil)

// New opens a pgx pool using the provided Config, ensures the console
// schema exists, and validates the connection with a ping.
func New(ctx context.Context, cfg iam.Config) (*Driver, error) {
	pool, err := buildPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{pool: pool}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := d.ensureSchema(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// --- iam.Store implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() error {
	d.pool.Close()
	return nil
}

func (d *Driver) ListUsers(ctx context.Context) ([]iam.User, error) {
	const q = `
		SELECT id, login, status, groups, policies, keys, metadata
		FROM iam_users
		ORDER BY id`

	rows, err := d.pool.Query(ctx, q)
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
		if err := unmarshalAll(map[*[]byte]interface{}{
			&groups: &u.Groups, &policies: &u.Policies, &keys: &u.Keys, &metadata: &u.Metadata,
		}); err != nil {
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
		INSERT INTO iam_users (id, login, status, groups, policies, keys, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	groups, policies, keys, metadata, err := marshalUser(user)
	if err != nil {
		return iam.User{}, err
	}
	if _, err := d.pool.Exec(ctx, q, user.ID, user.Login, user.Status, groups, policies, keys, metadata); err != nil {
		return iam.User{}, mapError(err, "failed to create user")
	}
	return user, nil
}

func (d *Driver) UpdateUser(ctx context.Context, id string, upd iam.UserUpdate) (iam.User, error) {
	const q = `
		UPDATE iam_users
		SET login = $2, status = $3, groups = $4, policies = $5
		WHERE id = $1
		RETURNING id, login, status, groups, policies, keys, metadata`

	groups, err := json.Marshal(upd.Groups)
	if err != nil {
		return iam.User{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode groups", err)
	}
	policies, err := json.Marshal(upd.Policies)
	if err != nil {
		return iam.User{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode policies", err)
	}

	var (
		u                                      iam.User
		rawGroups, rawPolicies, keys, metadata []byte
	)
	row := d.pool.QueryRow(ctx, q, id, upd.Login, upd.Status, groups, policies)
	if err := row.Scan(&u.ID, &u.Login, &u.Status, &rawGroups, &rawPolicies, &keys, &metadata); err != nil {
		return iam.User{}, mapError(err, "failed to update user")
	}
	if err := unmarshalAll(map[*[]byte]interface{}{
		&rawGroups: &u.Groups, &rawPolicies: &u.Policies, &keys: &u.Keys, &metadata: &u.Metadata,
	}); err != nil {
		return iam.User{}, err
	}
	return u, nil
}

func (d *Driver) DeleteUser(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM iam_users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.ErrKindNotFound, "user not found")
	}
	return nil
}

func (d *Driver) ListGroups(ctx context.Context) ([]iam.Group, error) {
	const q = `
		SELECT name, description, members, policies
		FROM iam_groups
		ORDER BY name`

	rows, err := d.pool.Query(ctx, q)
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
		if err := unmarshalAll(map[*[]byte]interface{}{
			&members: &g.Members, &policies: &g.Policies,
		}); err != nil {
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
		VALUES ($1, $2, $3, $4)`

	members, err := json.Marshal(group.Members)
	if err != nil {
		return iam.Group{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode members", err)
	}
	policies, err := json.Marshal(group.Policies)
	if err != nil {
		return iam.Group{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode policies", err)
	}
	if _, err := d.pool.Exec(ctx, q, group.Name, group.Description, members, policies); err != nil {
		return iam.Group{}, mapError(err, "failed to create group")
	}
	return group, nil
}

func (d *Driver) UpdateGroup(ctx context.Context, group iam.Group) (iam.Group, error) {
	const q = `
		UPDATE iam_groups
		SET description = $2, members = $3, policies = $4
		WHERE name = $1`

	members, err := json.Marshal(group.Members)
	if err != nil {
		return iam.Group{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode members", err)
	}
	policies, err := json.Marshal(group.Policies)
	if err != nil {
		return iam.Group{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode policies", err)
	}
	tag, err := d.pool.Exec(ctx, q, group.Name, group.Description, members, policies)
	if err != nil {
		return iam.Group{}, mapError(err, "failed to update group")
	}
	if tag.RowsAffected() == 0 {
		return iam.Group{}, errs.New(errs.ErrKindNotFound, "group not found")
	}
	return group, nil
}

func (d *Driver) DeleteGroup(ctx context.Context, name string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM iam_groups WHERE name = $1`, name)
	if err != nil {
		return mapError(err, "failed to delete group")
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.ErrKindNotFound, "group not found")
	}
	return nil
}

func (d *Driver) ListPolicies(ctx context.Context) ([]iam.Policy, error) {
	const q = `
		SELECT name, document, checksum, version, labels
		FROM iam_policies
		ORDER BY name`

	rows, err := d.pool.Query(ctx, q)
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
		if err := unmarshalAll(map[*[]byte]interface{}{
			&document: &p.Document, &labels: &p.Labels,
		}); err != nil {
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
		VALUES ($1, $2, $3, $4, $5)`

	document, err := json.Marshal(policy.Document)
	if err != nil {
		return iam.Policy{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode document", err)
	}
	labels, err := json.Marshal(policy.Labels)
	if err != nil {
		return iam.Policy{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode labels", err)
	}
	if _, err := d.pool.Exec(ctx, q, policy.Name, document, policy.Checksum, policy.Version, labels); err != nil {
		return iam.Policy{}, mapError(err, "failed to create policy")
	}
	return policy, nil
}

func (d *Driver) UpdatePolicy(ctx context.Context, name string, doc iam.PolicyDocument) (iam.Policy, error) {
	const q = `
		UPDATE iam_policies
		SET document = $2, checksum = $3
		WHERE name = $1
		RETURNING name, document, checksum, version, labels`

	document, err := json.Marshal(doc)
	if err != nil {
		return iam.Policy{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode document", err)
	}

	var (
		p                 iam.Policy
		rawDoc, rawLabels []byte
	)
	row := d.pool.QueryRow(ctx, q, name, document, iam.DocumentChecksum(doc))
	if err := row.Scan(&p.Name, &rawDoc, &p.Checksum, &p.Version, &rawLabels); err != nil {
		return iam.Policy{}, mapError(err, "failed to update policy")
	}
	if err := unmarshalAll(map[*[]byte]interface{}{
		&rawDoc: &p.Document, &rawLabels: &p.Labels,
	}); err != nil {
		return iam.Policy{}, err
	}
	return p, nil
}

func (d *Driver) DeletePolicy(ctx context.Context, name string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM iam_policies WHERE name = $1`, name)
	if err != nil {
		return mapError(err, "failed to delete policy")
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.ErrKindNotFound, "policy not found")
	}
	return nil
}

func (d *Driver) ListKeys(ctx context.Context) ([]iam.KeyMeta, error) {
	const q = `
		SELECT access_key, created_at, expires_at, status
		FROM iam_keys
		ORDER BY created_at`

	rows, err := d.pool.Query(ctx, q)
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
		VALUES ($1, $2, $3, $4)`

	if _, err := d.pool.Exec(ctx, q, key.AccessKey, key.CreatedAt, key.ExpiresAt, key.Status); err != nil {
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

	rows, err := d.pool.Query(ctx, q)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := d.pool.Exec(ctx, q, profile.Label, profile.Endpoint, profile.Region,
		profile.UseSSL, profile.VerifyTLS, profile.AuthMode,
		profile.IssuerURL, profile.ClientID, profile.ClientSecret); err != nil {
		return iam.Profile{}, mapError(err, "failed to create profile")
	}
	return profile, nil
}

// --- helpers ---

func marshalUser(u iam.User) (groups, policies, keys, metadata []byte, err error) {
	if groups, err = json.Marshal(u.Groups); err == nil {
		if policies, err = json.Marshal(u.Policies); err == nil {
			if keys, err = json.Marshal(u.Keys); err == nil {
				metadata, err = json.Marshal(u.Metadata)
			}
		}
	}
	if err != nil {
		return nil, nil, nil, nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode user", err)
	}
	return groups, policies, keys, metadata, nil
}

// unmarshalAll decodes each raw JSON column into its destination.
// Empty columns are left at the destination's zero value.
func unmarshalAll(cols map[*[]byte]interface{}) error {
	for raw, dest := range cols {
		if len(*raw) == 0 {
			continue
		}
		if err := json.Unmarshal(*raw, dest); err != nil {
			return errs.Wrap(errs.ErrKindStoreFailed, "failed to decode stored JSON", err)
		}
	}
	return nil
}
