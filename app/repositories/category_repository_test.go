package repositories

import (
	"context"
	"testing"

	"inkwell/app/apperrors"
	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCategoryRepository_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.categories15(t)

	page, err := f.categories.Search(ctx, defaultQuery())
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 15, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Equal(t, 10, page.Meta.PageSize)
	assert.Equal(t, 1, page.Meta.CurrentPage)

	q := defaultQuery()
	q.Q = "test10"
	page, err = f.categories.Search(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "test10", page.Data[0].Name)
	assert.Equal(t, 1, page.Meta.TotalPages)

	q.Q = "test1"
	page, err = f.categories.Search(ctx, q)
	require.NoError(t, err)
	// test1 and test10..test15
	assert.Equal(t, 7, page.Meta.TotalItems)
}

func TestBadgerCategoryRepository_TotalPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", f.role(t, models.RoleUser))
	busy := f.category(t, "Busy")
	f.category(t, "Quiet")
	f.post(t, "One", alice, busy)
	f.post(t, "Two", alice, busy)

	q := defaultQuery()
	q.SortBy = "totalPosts"
	q.SortOrder = "desc"
	page, err := f.categories.Search(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Busy", page.Data[0].Name)
	assert.Equal(t, 2, page.Data[0].TotalPosts)
	assert.Equal(t, 0, page.Data[1].TotalPosts)
}

func TestBadgerCategoryRepository_UniqueName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.category(t, "Go")
	other := f.category(t, "Rust")

	dup := &models.Category{Name: "Go"}
	dup.BeforeCreate()
	err := f.categories.Create(ctx, dup)
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "name", de.Field)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	other.Name = "Go"
	assert.ErrorIs(t, f.categories.Update(ctx, other), apperrors.ErrDuplicate)

	// Renaming frees the old name
	other.Name = "Zig"
	require.NoError(t, f.categories.Update(ctx, other))
	again := &models.Category{Name: "Rust"}
	again.BeforeCreate()
	assert.NoError(t, f.categories.Create(ctx, again))
}

func TestBadgerCategoryRepository_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.category(t, "Beta")
	f.category(t, "Alpha")

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)

	require.NoError(t, f.categories.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.categories.Delete(ctx, b.ID), ErrNotFound)

	n, err := f.categories.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The name can be reused after deletion
	f.category(t, "Beta")
}
