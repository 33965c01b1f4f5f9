package iam

import "context"

// Store is the central contract for IAM persistence. All layers above
// this package talk only to this interface — they never import the
// memory, postgres, or mysql packages directly.
//
// Create operations return errs.ErrKindAlreadyExists on duplicate names;
// update and delete operations return errs.ErrKindNotFound when the
// target is absent. Implementations must be safe for concurrent use.
type Store interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error

	// --- Users ---

	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id string) error

	// --- Groups ---

	ListGroups(ctx context.Context) ([]Group, error)
	CreateGroup(ctx context.Context, group Group) (Group, error)
	UpdateGroup(ctx context.Context, group Group) (Group, error)
	DeleteGroup(ctx context.Context, name string) error

	// --- Policies ---

	ListPolicies(ctx context.Context) ([]Policy, error)
	CreatePolicy(ctx context.Context, policy Policy) (Policy, error)
	UpdatePolicy(ctx context.Context, name string, doc PolicyDocument) (Policy, error)
	DeletePolicy(ctx context.Context, name string) error

	// --- Access keys ---

	ListKeys(ctx context.Context) ([]KeyMeta, error)
	CreateKey(ctx context.Context, key KeyMeta) (KeyMeta, error)

	// --- Connection profiles ---

	ListProfiles(ctx context.Context) ([]Profile, error)
	CreateProfile(ctx context.Context, profile Profile) (Profile, error)
}
