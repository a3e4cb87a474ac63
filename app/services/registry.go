package services

import (
	"inkwell/app/assets"
	"inkwell/app/cache"
	"inkwell/app/config"
	"inkwell/app/metrics"
	"inkwell/app/store"

	"go.uber.org/zap"
)

// Registry holds every service the HTTP layer dispatches to.
type Registry struct {
	Posts      *PostService
	Comments   *CommentService
	Categories *CategoryService
	Users      *UserService
	Roles      *RoleService
	Dashboard  *DashboardService
}

// NewRegistry wires the services over the repositories of st.
func NewRegistry(st *store.Store, c cache.Cache, a assets.Store, cfg *config.Config, m *metrics.Metrics, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		Posts:      NewPostService(st.Posts, st.Categories, a, m, logger),
		Comments:   NewCommentService(st.Comments, st.Posts, logger),
		Categories: NewCategoryService(st.Categories, c, cfg.Cache.TTL, m, logger),
		Users:      NewUserService(st.Users, st.Roles, a, cfg.Users.DefaultAvatar, logger),
		Roles:      NewRoleService(st.Roles, logger),
		Dashboard:  NewDashboardService(st.Posts, st.Comments, st.Categories, st.Users),
	}
}
