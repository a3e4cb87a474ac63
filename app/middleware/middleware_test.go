package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/app/models"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "test-secret"

func newTestMiddleware() *Middleware {
	return NewMiddleware(zap.NewNop().Sugar(), nil)
}

func sign(t *testing.T, key string, claims Claims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(id primitive.ObjectID, role string) Claims {
	return Claims{
		UserID: id.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	m := newTestMiddleware()
	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRecoverer(t *testing.T) {
	m := newTestMiddleware()
	h := m.RequestLogger(m.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
}

func TestRequestLoggerLabelsRouteTemplate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMiddleware(zap.New(core).Sugar(), nil)

	router := mux.NewRouter()
	router.Use(m.RouteTemplate)
	noContent := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	router.HandleFunc("/api/posts/{postId}", noContent)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/comments/{commentId}", noContent)
	h := m.RequestLogger(router)

	for _, path := range []string{"/api/posts/aaa", "/api/posts/bbb", "/api/comments/ccc", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var routes []string
	for _, entry := range logs.FilterMessage("HTTP request").All() {
		routes = append(routes, entry.ContextMap()["route"].(string))
	}
	assert.Equal(t, []string{"/api/posts/{postId}", "/api/posts/{postId}", "/api/comments/{commentId}", UnmatchedRoute}, routes)
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddleware()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := m.RateLimit(6)(ok)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	unlimited := m.RateLimit(0)(ok)
	for i := 0; i < 5; i++ {
		w = httptest.NewRecorder()
		unlimited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestAuthenticate(t *testing.T) {
	m := newTestMiddleware()
	id := primitive.NewObjectID()

	var got models.Actor
	h := m.Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ActorFrom(r.Context())
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, secret, validClaims(id, models.RoleUser), jwt.SigningMethodHS256))
		}, http.StatusOK},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: sign(t, secret, validClaims(id, models.RoleUser), jwt.SigningMethodHS256)})
		}, http.StatusOK},
		{"wrong secret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, "other", validClaims(id, models.RoleUser), jwt.SigningMethodHS256))
		}, http.StatusUnauthorized},
		{"wrong algorithm", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sign(t, secret, validClaims(id, models.RoleUser), jwt.SigningMethodHS512))
		}, http.StatusUnauthorized},
		{"expired", func(r *http.Request) {
			c := validClaims(id, models.RoleUser)
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			r.Header.Set("Authorization", "Bearer "+sign(t, secret, c, jwt.SigningMethodHS256))
		}, http.StatusUnauthorized},
		{"bad user id", func(r *http.Request) {
			c := validClaims(id, models.RoleUser)
			c.UserID = "42"
			r.Header.Set("Authorization", "Bearer "+sign(t, secret, c, jwt.SigningMethodHS256))
		}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = models.Actor{}
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, models.Actor{ID: id, Role: models.RoleUser}, got)
			} else {
				assert.EqualValues(t, tt.status, decode(t, w)["code"])
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	m := newTestMiddleware()
	h := m.Authorize(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
