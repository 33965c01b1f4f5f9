package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

func TestSeeded(t *testing.T) {
	d := Seeded()
	ctx := context.Background()

	users, err := d.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Login)

	groups, err := d.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	policies, err := d.ListPolicies(ctx)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, iam.DocumentChecksum(policies[0].Document), policies[0].Checksum)

	keys, err := d.ListKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	profiles, err := d.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestUserCRUD(t *testing.T) {
	d := New()
	ctx := context.Background()

	created, err := d.CreateUser(ctx, iam.User{ID: "42", Login: "alice", Status: iam.UserActive})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Login)

	_, err = d.CreateUser(ctx, iam.User{ID: "42", Login: "alice2"})
	assert.True(t, errs.IsAlreadyExists(err))

	updated, err := d.UpdateUser(ctx, "42", iam.UserUpdate{
		Login:    "alice",
		Status:   iam.UserBlocked,
		Groups:   []string{"admins"},
		Policies: []string{"ReadOnly"},
	})
	require.NoError(t, err)
	assert.Equal(t, iam.UserBlocked, updated.Status)
	assert.Equal(t, []string{"admins"}, updated.Groups)

	_, err = d.UpdateUser(ctx, "missing", iam.UserUpdate{})
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, d.DeleteUser(ctx, "42"))
	assert.True(t, errs.IsNotFound(d.DeleteUser(ctx, "42")))

	users, err := d.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGroupCRUD(t *testing.T) {
	d := New()
	ctx := context.Background()

	g := iam.Group{Name: "devs", Description: "Developers", Members: []string{"1"}}
	_, err := d.CreateGroup(ctx, g)
	require.NoError(t, err)

	_, err = d.CreateGroup(ctx, g)
	assert.True(t, errs.IsAlreadyExists(err))

	g.Description = "Developer group"
	updated, err := d.UpdateGroup(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, "Developer group", updated.Description)

	_, err = d.UpdateGroup(ctx, iam.Group{Name: "missing"})
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, d.DeleteGroup(ctx, "devs"))
	assert.True(t, errs.IsNotFound(d.DeleteGroup(ctx, "devs")))
}

func TestPolicyCRUD(t *testing.T) {
	d := New()
	ctx := context.Background()

	doc := iam.PolicyDocument{
		Version: "2012-10-17",
		Statement: []iam.Statement{
			{Effect: "Allow", Action: []string{"s3:ListBucket"}, Resource: []string{"*"}},
		},
	}
	p := iam.Policy{Name: "Lister", Document: doc, Checksum: iam.DocumentChecksum(doc), Version: "1.0.0"}

	_, err := d.CreatePolicy(ctx, p)
	require.NoError(t, err)

	_, err = d.CreatePolicy(ctx, p)
	assert.True(t, errs.IsAlreadyExists(err))

	doc.Statement[0].Action = []string{"s3:ListBucket", "s3:GetObject"}
	updated, err := d.UpdatePolicy(ctx, "Lister", doc)
	require.NoError(t, err)
	assert.NotEqual(t, p.Checksum, updated.Checksum, "checksum must change with the document")

	_, err = d.UpdatePolicy(ctx, "missing", doc)
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, d.DeletePolicy(ctx, "Lister"))
	assert.True(t, errs.IsNotFound(d.DeletePolicy(ctx, "Lister")))
}

func TestConcurrentWriters(t *testing.T) {
	d := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = d.CreateProfile(ctx, iam.Profile{Label: "p", Endpoint: "http://localhost:9000"})
		}(i)
	}
	wg.Wait()

	profiles, err := d.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 50)
}
