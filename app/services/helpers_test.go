package services

import (
	"context"
	"testing"

	"inkwell/app/apperrors"
	"inkwell/app/assets"
	"inkwell/app/cache"
	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const defaultAvatar = "https://img.example.com/default.png"

type env struct {
	assets     *assets.Recorder
	posts      *PostService
	comments   *CommentService
	categories *CategoryService
	users      *UserService
	roles      *RoleService
	dashboard  *DashboardService

	roleRepo repositories.RoleRepository
	admin    models.Actor
	member   models.Actor
}

func newEnv(t *testing.T) *env {
	db, err := repositories.OpenBadger("", true)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop().Sugar()
	roleRepo := repositories.NewBadgerRoleRepository(db)
	userRepo := repositories.NewBadgerUserRepository(db)
	categoryRepo := repositories.NewBadgerCategoryRepository(db)
	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	recorder := &assets.Recorder{}

	e := &env{
		assets:     recorder,
		posts:      NewPostService(postRepo, categoryRepo, recorder, nil, logger),
		comments:   NewCommentService(commentRepo, postRepo, logger),
		categories: NewCategoryService(categoryRepo, cache.NewMemory(), 0, nil, logger),
		users:      NewUserService(userRepo, roleRepo, recorder, defaultAvatar, logger),
		roles:      NewRoleService(roleRepo, logger),
		dashboard:  NewDashboardService(postRepo, commentRepo, categoryRepo, userRepo),
		roleRepo:   roleRepo,
	}

	ctx := context.Background()
	require.NoError(t, Seed(ctx, roleRepo, e.users, defaultUsersConfig(), logger))
	e.admin = e.actor(t, "alice", models.RoleAdmin)
	e.member = e.actor(t, "bob", models.RoleUser)
	return e
}

func (e *env) actor(t *testing.T, username, role string) models.Actor {
	r, err := e.roleRepo.GetByName(context.Background(), role)
	require.NoError(t, err)
	u, err := e.users.CreateUser(context.Background(), models.UserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		Role:     r.ID.Hex(),
	})
	require.NoError(t, err)
	return models.Actor{ID: u.ID, Role: role}
}

func (e *env) category(t *testing.T, name string) *models.Category {
	c, err := e.categories.CreateCategory(context.Background(), models.CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *env) post(t *testing.T, title string, category *models.Category) *models.Post {
	p, err := e.posts.CreatePost(context.Background(), e.admin, models.PostInput{
		Title:    title,
		Content:  "<p>" + title + "</p>",
		Category: category.ID.Hex(),
	})
	require.NoError(t, err)
	return p
}

// requireStatus asserts err renders with the given HTTP status.
func requireStatus(t *testing.T, err error, status int) *apperrors.ResponseError {
	t.Helper()
	require.Error(t, err)
	re := apperrors.As(err)
	require.Equal(t, status, re.Status, re.Error())
	return re
}

func strPtr(s string) *string { return &s }

func defaultUsersConfig() config.UsersConfig {
	return config.UsersConfig{DefaultAvatar: defaultAvatar}
}
