package services

import (
	"context"
	"testing"

	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService_Stats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tech := e.category(t, "Tech")
	post := e.post(t, "Counted", tech)
	e.post(t, "Also counted", tech)
	_, err := e.comments.CreateComment(ctx, e.member, post.ID, models.CommentInput{Text: "hi"})
	require.NoError(t, err)
	_, err = e.posts.ToggleLike(ctx, e.member, post.ID)
	require.NoError(t, err)

	stats, err := e.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{
		TotalPosts:      2,
		TotalComments:   1,
		TotalCategories: 1,
		TotalUsers:      2,
		TotalLikes:      1,
	}, *stats)
}

func TestSeed_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cfg := defaultUsersConfig()
	cfg.AdminUsername = "root"
	cfg.AdminEmail = "root@example.com"
	cfg.AdminPassword = "changeme"

	require.NoError(t, Seed(ctx, e.roleRepo, e.users, cfg, zap.NewNop().Sugar()))
	require.NoError(t, Seed(ctx, e.roleRepo, e.users, cfg, zap.NewNop().Sugar()))

	roles, err := e.roles.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	root, err := e.users.userRepo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, root.IsVerified)
	adminRole, err := e.roleRepo.GetByName(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, adminRole.ID, root.RoleID)
}
