// Package memory provides an in-memory implementation of iam.Store.
//
// It is the default repository for development and tests. Unlike a
// plain slice-backed mock, all operations hold a mutex, so concurrent
// request handlers cannot race on the shared state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

// Driver is an in-memory implementation of iam.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	mu       sync.RWMutex
	users    []iam.User
	groups   []iam.Group
	policies []iam.Policy
	keys     []iam.KeyMeta
	profiles []iam.Profile
}

var _ iam.Store = (*Driver)(nil)

// New returns an empty in-memory store.
func New() *Driver {
	return &Driver{}
}

// Seeded returns an in-memory store pre-populated with the development
// fixture data the console ships with.
func Seeded() *Driver {
	d := New()
	d.users = []iam.User{
		{ID: "1", Login: "admin", Status: iam.UserActive, Groups: []string{}, Policies: []string{}, Keys: []iam.KeyMeta{}, Metadata: map[string]interface{}{}},
		{ID: "2", Login: "user1", Status: iam.UserActive, Groups: []string{}, Policies: []string{}, Keys: []iam.KeyMeta{}, Metadata: map[string]interface{}{}},
	}
	d.groups = []iam.Group{
		{Name: "admins", Description: "Admin group", Members: []string{"1"}, Policies: []string{}},
	}

	readOnly := iam.PolicyDocument{
		Version: "2012-10-17",
		Statement: []iam.Statement{
			{Effect: "Allow", Action: []string{"s3:GetObject"}, Resource: []string{"*"}},
		},
	}
	readWrite := iam.PolicyDocument{
		Version: "2012-10-17",
		Statement: []iam.Statement{
			{Effect: "Allow", Action: []string{"s3:GetObject", "s3:PutObject"}, Resource: []string{"*"}},
		},
	}
	d.policies = []iam.Policy{
		{Name: "ReadOnly", Document: readOnly, Checksum: iam.DocumentChecksum(readOnly), Version: "1.0.0", Labels: map[string]string{}},
		{Name: "ReadWrite", Document: readWrite, Checksum: iam.DocumentChecksum(readWrite), Version: "1.0.0", Labels: map[string]string{}},
	}
	d.keys = []iam.KeyMeta{
		{AccessKey: "AKIA1234567890", CreatedAt: time.Now().UTC(), Status: iam.KeyActive},
	}
	d.profiles = []iam.Profile{
		{Label: "Default", Endpoint: "localhost", Region: "us-east-1", AuthMode: iam.AuthModeAccessKey},
	}
	return d
}

// --- iam.Store implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	return nil
}

func (d *Driver) Close() error {
	return nil
}

func (d *Driver) ListUsers(ctx context.Context) ([]iam.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]iam.User, len(d.users))
	copy(out, d.users)
	return out, nil
}

func (d *Driver) CreateUser(ctx context.Context, user iam.User) (iam.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == user.ID {
			return iam.User{}, errs.New(errs.ErrKindAlreadyExists, "user already exists")
		}
	}
	d.users = append(d.users, user)
	return user, nil
}

func (d *Driver) UpdateUser(ctx context.Context, id string, upd iam.UserUpdate) (iam.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.users {
		if u.ID != id {
			continue
		}
		u.Login = upd.Login
		u.Status = upd.Status
		u.Groups = upd.Groups
		u.Policies = upd.Policies
		d.users[i] = u
		return u, nil
	}
	return iam.User{}, errs.New(errs.ErrKindNotFound, "user not found")
}

func (d *Driver) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.users {
		if u.ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return nil
		}
	}
	return errs.New(errs.ErrKindNotFound, "user not found")
}

func (d *Driver) ListGroups(ctx context.Context) ([]iam.Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]iam.Group, len(d.groups))
	copy(out, d.groups)
	return out, nil
}

func (d *Driver) CreateGroup(ctx context.Context, group iam.Group) (iam.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, g := range d.groups {
		if g.Name == group.Name {
			return iam.Group{}, errs.New(errs.ErrKindAlreadyExists, "group already exists")
		}
	}
	d.groups = append(d.groups, group)
	return group, nil
}

func (d *Driver) UpdateGroup(ctx context.Context, group iam.Group) (iam.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, g := range d.groups {
		if g.Name == group.Name {
			d.groups[i] = group
			return group, nil
		}
	}
	return iam.Group{}, errs.New(errs.ErrKindNotFound, "group not found")
}

func (d *Driver) DeleteGroup(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, g := range d.groups {
		if g.Name == name {
			d.groups = append(d.groups[:i], d.groups[i+1:]...)
			return nil
		}
	}
	return errs.New(errs.ErrKindNotFound, "group not found")
}

func (d *Driver) ListPolicies(ctx context.Context) ([]iam.Policy, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]iam.Policy, len(d.policies))
	copy(out, d.policies)
	return out, nil
}

func (d *Driver) CreatePolicy(ctx context.Context, policy iam.Policy) (iam.Policy, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.policies {
		if p.Name == policy.Name {
			return iam.Policy{}, errs.New(errs.ErrKindAlreadyExists, "policy already exists")
		}
	}
	d.policies = append(d.policies, policy)
	return policy, nil
}

func (d *Driver) UpdatePolicy(ctx context.Context, name string, doc iam.PolicyDocument) (iam.Policy, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.policies {
		if p.Name != name {
			continue
		}
		p.Document = doc
		p.Checksum = iam.DocumentChecksum(doc)
		d.policies[i] = p
		return p, nil
	}
	return iam.Policy{}, errs.New(errs.ErrKindNotFound, "policy not found")
}

func (d *Driver) DeletePolicy(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.policies {
		if p.Name == name {
			d.policies = append(d.policies[:i], d.policies[i+1:]...)
			return nil
		}
	}
	return errs.New(errs.ErrKindNotFound, "policy not found")
}

func (d *Driver) ListKeys(ctx context.Context) ([]iam.KeyMeta, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]iam.KeyMeta, len(d.keys))
	copy(out, d.keys)
	return out, nil
}

func (d *Driver) CreateKey(ctx context.Context, key iam.KeyMeta) (iam.KeyMeta, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range d.keys {
		if k.AccessKey == key.AccessKey {
			return iam.KeyMeta{}, errs.New(errs.ErrKindAlreadyExists, "access key already exists")
		}
	}
	d.keys = append(d.keys, key)
	return key, nil
}

func (d *Driver) ListProfiles(ctx context.Context) ([]iam.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]iam.Profile, len(d.profiles))
	copy(out, d.profiles)
	return out, nil
}

func (d *Driver) CreateProfile(ctx context.Context, profile iam.Profile) (iam.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles = append(d.profiles, profile)
	return profile, nil
}
