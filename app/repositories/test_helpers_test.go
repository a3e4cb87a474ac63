package repositories

import (
	"context"
	"fmt"
	"testing"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger("", true)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func defaultQuery() search.Query {
	return search.Query{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "asc"}
}

type fixture struct {
	db         *badger.DB
	roles      *BadgerRoleRepository
	users      *BadgerUserRepository
	categories *BadgerCategoryRepository
	posts      *BadgerPostRepository
	comments   *BadgerCommentRepository
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	return &fixture{
		db:         db,
		roles:      NewBadgerRoleRepository(db),
		users:      NewBadgerUserRepository(db),
		categories: NewBadgerCategoryRepository(db),
		posts:      NewBadgerPostRepository(db, WithLikeRetries(64)),
		comments:   NewBadgerCommentRepository(db),
	}
}

func (f *fixture) role(t *testing.T, name string) *models.Role {
	role := &models.Role{Name: name}
	role.BeforeCreate()
	require.NoError(t, f.roles.Create(context.Background(), role))
	return role
}

func (f *fixture) user(t *testing.T, name string, role *models.Role) *models.User {
	user := &models.User{Username: name, Email: name + "@example.com", Password: "hash", RoleID: role.ID}
	user.BeforeCreate()
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	category := &models.Category{Name: name}
	category.BeforeCreate()
	require.NoError(t, f.categories.Create(context.Background(), category))
	return category
}

func (f *fixture) post(t *testing.T, title string, author *models.User, category *models.Category) *models.Post {
	post := &models.Post{Title: title, Content: "<p>" + title + " body</p>", UserID: author.ID, CategoryID: category.ID}
	post.BeforeCreate()
	require.NoError(t, f.posts.Create(context.Background(), post))
	return post
}

func (f *fixture) comment(t *testing.T, text string, author *models.User, post *models.Post, parent *models.Comment) *models.Comment {
	comment := &models.Comment{Text: text, UserID: author.ID, PostID: post.ID}
	if parent != nil {
		id := parent.ID
		comment.ParentCommentID = &id
	}
	comment.BeforeCreate()
	require.NoError(t, f.comments.Create(context.Background(), comment))
	return comment
}

func (f *fixture) categories15(t *testing.T) {
	for i := 1; i <= 15; i++ {
		f.category(t, fmt.Sprintf("test%d", i))
	}
}
