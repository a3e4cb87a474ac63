package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/app/cache"
	"inkwell/app/models"
	"inkwell/app/repositories/mock"
	"inkwell/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryController(t *testing.T) {
	logger := zap.NewNop().Sugar()
	repo := mock.NewCategoryRepository()
	cc := NewCategoryController(services.NewCategoryService(repo, cache.NewMemory(), 0, nil, logger), logger)

	w, env := serve(cc.Index, httptest.NewRequest(http.MethodGet, "/api/categories", nil), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No categories found", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = serve(cc.Create, httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Tech"}`)), nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Category created successfully", env.Message)

	w, env = serve(cc.Create, httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Tech"}`)), nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation errors", env.Message)
	assert.Equal(t, "Name already in use", env.Errors["name"])

	w, env = serve(cc.Create, httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"  "}`)), nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "name")

	w, env = serve(cc.Index, httptest.NewRequest(http.MethodGet, "/api/categories", nil), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var options []models.CategoryOption
	require.NoError(t, json.Unmarshal(env.Data, &options))
	require.Len(t, options, 1)
	assert.Equal(t, "Tech", options[0].Name)

	w, env = serve(cc.Show, httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"categoryId": "zzz"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category id", env.Message)
}
