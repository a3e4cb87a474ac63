package repositories

import (
	"context"
	"testing"

	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerUserRepository_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.role(t, models.RoleAdmin)
	member := f.role(t, models.RoleUser)
	me := f.user(t, "root", admin)
	f.user(t, "alice", member)
	f.user(t, "bob", member)

	page, err := f.users.Search(ctx, defaultQuery(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Meta.TotalItems)
	for _, row := range page.Data {
		assert.NotEqual(t, me.ID, row.ID)
		require.NotNil(t, row.Role)
		assert.Equal(t, models.RoleUser, row.Role.Name)
	}

	q := defaultQuery()
	q.Q = "admin"
	page, err = f.users.Search(ctx, q, me.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Data, "requester is excluded even when it matches")

	q.Q = "alice@"
	page, err = f.users.Search(ctx, q, me.ID)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alice", page.Data[0].Username)
}

func TestBadgerUserRepository_SearchDropsUsersWithoutRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	temp := f.role(t, "temp")
	f.user(t, "ghost", temp)
	f.user(t, "alice", f.role(t, models.RoleUser))
	require.NoError(t, f.roles.Delete(ctx, temp.ID))

	page, err := f.users.Search(ctx, defaultQuery(), models.Actor{}.ID)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alice", page.Data[0].Username)
}

func TestBadgerUserRepository_Unique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role := f.role(t, models.RoleUser)
	f.user(t, "alice", role)

	dup := &models.User{Username: "alice", Email: "other@example.com", RoleID: role.ID}
	dup.BeforeCreate()
	var de *DuplicateError
	require.ErrorAs(t, f.users.Create(ctx, dup), &de)
	assert.Equal(t, "username", de.Field)

	dup = &models.User{Username: "alice2", Email: "alice@example.com", RoleID: role.ID}
	dup.BeforeCreate()
	require.ErrorAs(t, f.users.Create(ctx, dup), &de)
	assert.Equal(t, "email", de.Field)

	// A failed create claims nothing
	ok := &models.User{Username: "alice2", Email: "alice2@example.com", RoleID: role.ID}
	ok.BeforeCreate()
	assert.NoError(t, f.users.Create(ctx, ok))
}

func TestBadgerUserRepository_DetailUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role := f.role(t, models.RoleUser)
	user := f.user(t, "alice", role)

	detail, err := f.users.GetDetail(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Role)
	assert.Equal(t, models.RoleUser, detail.Role.Name)

	user.Username = "alicia"
	require.NoError(t, f.users.Update(ctx, user))
	got, err := f.users.GetByUsername(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	_, err = f.users.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := f.users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", deleted.Username)
	_, err = f.users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
