package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkwell/app/assets"
	"inkwell/app/cache"
	"inkwell/app/config"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/app/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "routes-test-secret"

type testServer struct {
	handler http.Handler
	reg     *services.Registry
	store   *store.Store

	adminToken  string
	memberToken string
	admin       models.Actor
	member      models.Actor
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    *struct {
		PageSize    int `json:"pageSize"`
		TotalItems  int `json:"totalItems"`
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	} `json:"meta"`
	Errors map[string]string `json:"errors"`
}

func setupTestServer(t *testing.T) *testServer {
	db, err := repositories.OpenBadger("", true)
	require.NoError(t, err)
	st := store.NewBadger(db, 10)
	t.Cleanup(func() { st.Close(context.Background()) })

	logger := zap.NewNop().Sugar()
	cfg := &config.Config{
		Env:            "test",
		RequestTimeout: 5 * time.Second,
		Cache:          config.CacheConfig{Backend: config.CacheMemory, TTL: time.Minute},
		Security:       config.SecurityConfig{JWTSecret: testSecret, CORSAllowedOrigins: []string{"http://localhost:3000"}},
	}
	reg := services.NewRegistry(st, cache.NewMemory(), assets.NewLogStore(logger), cfg, nil, logger)
	require.NoError(t, services.Seed(context.Background(), st.Roles, reg.Users, cfg.Users, logger))

	s := &testServer{
		handler: SetupRoutes(reg, Options{
			Config:         cfg,
			Middleware:     middleware.NewMiddleware(logger, nil),
			MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "# metrics") }),
			Logger:         logger,
		}),
		reg:   reg,
		store: st,
	}
	s.admin, s.adminToken = s.account(t, "alice", models.RoleAdmin)
	s.member, s.memberToken = s.account(t, "bob", models.RoleUser)
	return s
}

func (s *testServer) account(t *testing.T, username, role string) (models.Actor, string) {
	ctx := context.Background()
	r, err := s.store.Roles.GetByName(ctx, role)
	require.NoError(t, err)
	u, err := s.reg.Users.CreateUser(ctx, models.UserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		Role:     r.ID.Hex(),
	})
	require.NoError(t, err)
	actor := models.Actor{ID: u.ID, Role: role}
	return actor, mintToken(t, actor)
}

func mintToken(t *testing.T, actor models.Actor) string {
	claims := middleware.Claims{
		UserID: actor.ID.Hex(),
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(path, "/api") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) createCategory(t *testing.T, name string) string {
	w, env := s.do(t, http.MethodPost, "/api/categories", s.adminToken, `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c models.Category
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c.ID.Hex()
}

func (s *testServer) createPost(t *testing.T, title, categoryID string) string {
	body := fmt.Sprintf(`{"title":%q,"content":"<p>%s</p>","category":%q}`, title, title, categoryID)
	w, env := s.do(t, http.MethodPost, "/api/posts", s.adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p models.Post
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p.ID.Hex()
}

func TestCategorySearchPagination(t *testing.T) {
	s := setupTestServer(t)
	for i := 1; i <= 15; i++ {
		s.createCategory(t, fmt.Sprintf("test%d", i))
	}

	w, env := s.do(t, http.MethodGet, "/api/categories/search", s.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "Categories retrieved successfully", env.Message)
	var rows []models.CategoryRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 10)
	assert.Equal(t, 15, env.Meta.TotalItems)
	assert.Equal(t, 1, env.Meta.CurrentPage)
	assert.Equal(t, 2, env.Meta.TotalPages)
	assert.Equal(t, 10, env.Meta.PageSize)

	_, env = s.do(t, http.MethodGet, "/api/categories/search?page=2", s.adminToken, "")
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 5)

	_, env = s.do(t, http.MethodGet, "/api/categories/search?q=test10", s.adminToken, "")
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "test10", rows[0].Name)
	assert.Equal(t, 1, env.Meta.TotalItems)

	_, env = s.do(t, http.MethodGet, "/api/categories/search?q=TEST1&sortBy=name&sortOrder=desc&limit=100", s.adminToken, "")
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 7) // test1, test10..test15
	assert.Equal(t, "test15", rows[0].Name)
}

func TestSearchValidation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		query string
		field string
	}{
		{"page=0", "page"},
		{"limit=101", "limit"},
		{"limit=abc", "limit"},
		{"sortOrder=sideways", "sortOrder"},
		{"sortBy=password", "sortBy"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w, env := s.do(t, http.MethodGet, "/api/posts/search?"+tt.query, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Validation errors", env.Message)
			assert.Contains(t, env.Errors, tt.field)
		})
	}
}

func TestPostSearch(t *testing.T) {
	s := setupTestServer(t)
	tech := s.createCategory(t, "Tech")
	empty := s.createCategory(t, "Empty")
	s.createPost(t, "Regex (a+)+ is literal", tech)
	s.createPost(t, "Plain", tech)

	w, env := s.do(t, http.MethodGet, "/api/posts/search?category="+empty, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No posts found", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, 0, env.Meta.TotalItems)
	assert.Equal(t, 0, env.Meta.TotalPages)

	_, env = s.do(t, http.MethodGet, "/api/posts/search?q="+"%28a%2B%29%2B", "", "")
	assert.Equal(t, 1, env.Meta.TotalItems)

	_, env = s.do(t, http.MethodGet, "/api/posts/search?q=&category=not-an-id", "", "")
	assert.Equal(t, 2, env.Meta.TotalItems)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	for _, row := range rows {
		assert.NotContains(t, row, "likes")
		user := row["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
		assert.NotContains(t, user, "password")
	}
}

func TestToggleLike(t *testing.T) {
	s := setupTestServer(t)
	postID := s.createPost(t, "Likeable", s.createCategory(t, "Tech"))
	path := "/api/posts/" + postID + "/like"

	w, env := s.do(t, http.MethodPut, path, s.memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post liked successfully", env.Message)
	assert.JSONEq(t, `{"liked":true,"totalLikes":1}`, string(env.Data))

	w, env = s.do(t, http.MethodPut, path, s.memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post unliked successfully", env.Message)
	assert.JSONEq(t, `{"liked":false,"totalLikes":0}`, string(env.Data))

	w, env = s.do(t, http.MethodPut, "/api/posts/123/like", s.memberToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid post id", env.Message)

	w, env = s.do(t, http.MethodPut, "/api/posts/"+primitive.NewObjectID().Hex()+"/like", s.memberToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", env.Message)

	w, _ = s.do(t, http.MethodPut, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorization(t *testing.T) {
	s := setupTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/comments/search", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.Code)

	w, _ = s.do(t, http.MethodGet, "/api/comments/search", s.memberToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/comments/search", s.adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/categories", s.memberToken, `{"name":"x"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Cookie fallback.
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: s.adminToken})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserSearchExcludesRequester(t *testing.T) {
	s := setupTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/users/search", s.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.UserRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].Username)
	assert.Equal(t, models.RoleUser, rows[0].Role.Name)
	assert.NotContains(t, string(env.Data), "password")
}

func TestCommentFlow(t *testing.T) {
	s := setupTestServer(t)
	postID := s.createPost(t, "Discussed", s.createCategory(t, "Tech"))
	base := "/api/posts/" + postID + "/comments"

	w, env := s.do(t, http.MethodPost, base, s.memberToken, `{"text":"first"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var top models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &top))

	w, env = s.do(t, http.MethodPost, base, s.adminToken, `{"text":"reply","parentCommentId":"`+top.ID.Hex()+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reply models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &reply))

	w, env = s.do(t, http.MethodPost, base, s.memberToken, `{"text":"nested","parentCommentId":"`+reply.ID.Hex()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "parentCommentId")

	w, env = s.do(t, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.CommentRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2)

	_, env = s.do(t, http.MethodGet, "/api/comments/search?q=Discussed", s.adminToken, "")
	assert.Equal(t, 2, env.Meta.TotalItems)

	w, env = s.do(t, http.MethodDelete, base+"/"+top.ID.Hex(), s.memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":2}`, string(env.Data))

	_, env = s.do(t, http.MethodGet, base, "", "")
	assert.Equal(t, "No comments found", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestDashboardAndPostLifecycle(t *testing.T) {
	s := setupTestServer(t)
	category := s.createCategory(t, "Tech")
	postID := s.createPost(t, "Lifecycle", category)

	w, env := s.do(t, http.MethodPut, "/api/posts/"+postID, s.adminToken, `{"title":"Lifecycle Two"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Post
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "lifecycle-two", p.Slug)

	_, env = s.do(t, http.MethodGet, "/api/dashboard", s.adminToken, "")
	var stats models.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, models.Stats{TotalPosts: 1, TotalCategories: 1, TotalUsers: 2}, stats)

	w, _ = s.do(t, http.MethodDelete, "/api/posts/"+postID, s.adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/posts/"+postID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", env.Message)
}

func TestOperationalEndpoints(t *testing.T) {
	s := setupTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
