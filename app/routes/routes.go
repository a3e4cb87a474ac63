package routes

import (
	"net/http"

	"inkwell/app/apperrors"
	"inkwell/app/config"
	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options carries what the router needs besides the services.
type Options struct {
	Config         *config.Config
	Middleware     *middleware.Middleware
	MetricsHandler http.Handler
	Logger         *zap.SugaredLogger
}

// SetupRoutes defines the application's routes and returns the handler
// with the global middleware applied.
func SetupRoutes(reg *services.Registry, opts Options) http.Handler {
	router := mux.NewRouter()
	router.Use(opts.Middleware.RouteTemplate)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, apperrors.New(http.StatusNotFound, "Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, apperrors.New(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	if opts.MetricsHandler != nil {
		router.Handle("/metrics", opts.MetricsHandler).Methods(http.MethodGet)
	}

	mw := opts.Middleware
	authenticate := mw.Authenticate(opts.Config.Security.JWTSecret)
	protect := func(h http.HandlerFunc, roles ...string) http.Handler {
		return authenticate(mw.Authorize(roles...)(h))
	}
	admin := []string{models.RoleAdmin}
	members := []string{models.RoleAdmin, models.RoleUser}

	postController := controllers.NewPostController(reg.Posts, opts.Logger)
	commentController := controllers.NewCommentController(reg.Comments, opts.Logger)
	categoryController := controllers.NewCategoryController(reg.Categories, opts.Logger)
	userController := controllers.NewUserController(reg.Users, opts.Logger)
	roleController := controllers.NewRoleController(reg.Roles, opts.Logger)
	dashboardController := controllers.NewDashboardController(reg.Dashboard, opts.Logger)

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Posts API endpoints. /search is registered before /{postId}.
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/search", postController.Search).Methods(http.MethodGet)
	posts.Handle("", protect(postController.Create, admin...)).Methods(http.MethodPost)
	posts.HandleFunc("/{postId}", postController.Show).Methods(http.MethodGet)
	posts.Handle("/{postId}", protect(postController.Update, admin...)).Methods(http.MethodPut)
	posts.Handle("/{postId}", protect(postController.Delete, admin...)).Methods(http.MethodDelete)
	posts.Handle("/{postId}/like", protect(postController.ToggleLike, members...)).Methods(http.MethodPut)

	// Comments API endpoints
	posts.HandleFunc("/{postId}/comments", commentController.Index).Methods(http.MethodGet)
	posts.Handle("/{postId}/comments", protect(commentController.Create, members...)).Methods(http.MethodPost)
	posts.Handle("/{postId}/comments/{commentId}", protect(commentController.Show, admin...)).Methods(http.MethodGet)
	posts.Handle("/{postId}/comments/{commentId}", protect(commentController.Update, admin...)).Methods(http.MethodPut)
	posts.Handle("/{postId}/comments/{commentId}", protect(commentController.Delete, members...)).Methods(http.MethodDelete)
	api.Handle("/comments/search", protect(commentController.Search, admin...)).Methods(http.MethodGet)

	// Categories API endpoints
	categories := api.PathPrefix("/categories").Subrouter()
	categories.HandleFunc("", categoryController.Index).Methods(http.MethodGet)
	categories.Handle("", protect(categoryController.Create, admin...)).Methods(http.MethodPost)
	categories.Handle("/search", protect(categoryController.Search, admin...)).Methods(http.MethodGet)
	categories.Handle("/{categoryId}", protect(categoryController.Show, admin...)).Methods(http.MethodGet)
	categories.Handle("/{categoryId}", protect(categoryController.Update, admin...)).Methods(http.MethodPut)
	categories.Handle("/{categoryId}", protect(categoryController.Delete, admin...)).Methods(http.MethodDelete)

	// Roles API endpoints
	roles := api.PathPrefix("/roles").Subrouter()
	roles.Handle("", protect(roleController.Index, admin...)).Methods(http.MethodGet)
	roles.Handle("", protect(roleController.Create, admin...)).Methods(http.MethodPost)
	roles.Handle("/search", protect(roleController.Search, admin...)).Methods(http.MethodGet)
	roles.Handle("/{roleId}", protect(roleController.Show, admin...)).Methods(http.MethodGet)
	roles.Handle("/{roleId}", protect(roleController.Update, admin...)).Methods(http.MethodPut)
	roles.Handle("/{roleId}", protect(roleController.Delete, admin...)).Methods(http.MethodDelete)

	// Users API endpoints
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("", protect(userController.Create, admin...)).Methods(http.MethodPost)
	users.Handle("/search", protect(userController.Search, admin...)).Methods(http.MethodGet)
	users.Handle("/{userId}", protect(userController.Show, members...)).Methods(http.MethodGet)
	users.Handle("/{userId}", protect(userController.Update, admin...)).Methods(http.MethodPut)
	users.Handle("/{userId}/profile", protect(userController.UpdateProfile, members...)).Methods(http.MethodPut)
	users.Handle("/{userId}", protect(userController.Delete, members...)).Methods(http.MethodDelete)

	api.Handle("/dashboard", protect(dashboardController.Show, admin...)).Methods(http.MethodGet)

	return chain(router, opts)
}

// chain applies the global middleware, outermost first.
func chain(h http.Handler, opts Options) http.Handler {
	mw := opts.Middleware
	security := opts.Config.Security

	h = middleware.ContentTypeJSON(h)
	h = mw.Timeout(opts.Config.RequestTimeout)(h)
	h = mw.RateLimit(security.RateLimitRPM)(h)
	h = mw.CORS(security.CORSAllowedOrigins)(h)
	h = mw.Recoverer(h)
	h = mw.RequestLogger(h)
	h = mw.RequestID(h)
	return h
}
