package controllers

import (
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"

	"go.uber.org/zap"
)

// CategoryController handles HTTP requests for categories
type CategoryController struct {
	base
	categoryService *services.CategoryService
}

func NewCategoryController(categoryService *services.CategoryService, logger *zap.SugaredLogger) *CategoryController {
	return &CategoryController{base: base{logger: logger}, categoryService: categoryService}
}

// Index lists every category as {id, name}
func (cc *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	options, err := cc.categoryService.ListCategories(r.Context())
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	message := "Categories retrieved successfully"
	if len(options) == 0 {
		message = "No categories found"
	}
	cc.sendJSON(w, http.StatusOK, message, options)
}

func (cc *CategoryController) Search(w http.ResponseWriter, r *http.Request) {
	page, err := cc.categoryService.SearchCategories(r.Context(), r.URL.Query())
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	sendPage(cc.base, w, page, "Categories")
}

func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}
	category, err := cc.categoryService.CreateCategory(r.Context(), in)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusCreated, "Category created successfully", category)
}

func (cc *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId", "Category")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	category, err := cc.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Category retrieved successfully", category)
}

func (cc *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId", "Category")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	var in models.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}
	category, err := cc.categoryService.UpdateCategory(r.Context(), id, in)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Category updated successfully", category)
}

func (cc *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId", "Category")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	if err := cc.categoryService.DeleteCategory(r.Context(), id); err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Category deleted successfully", nil)
}
