package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerRoleRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.role(t, "admin")
	f.role(t, "user")
	f.role(t, "editor")

	got, err := f.roles.GetByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	roles, err := f.roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	q := defaultQuery()
	q.Q = "DIT"
	page, err := f.roles.Search(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "editor", page.Data[0].Name)

	admin.Name = "superuser"
	require.NoError(t, f.roles.Update(ctx, admin))
	_, err = f.roles.GetByName(ctx, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.roles.Delete(ctx, admin.ID))
	_, err = f.roles.GetByID(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
