package controllers

import (
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"

	"go.uber.org/zap"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger *zap.SugaredLogger) *PostController {
	return &PostController{base: base{logger: logger}, postService: postService}
}

// Search handles GET /posts/search
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pc.postService.SearchPosts(r.Context(), r.URL.Query())
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	sendPage(pc.base, w, page, "Posts")
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId", "Post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, "Post retrieved successfully", post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	var in models.PostInput
	if err := decodeBody(r, &in); err != nil {
		pc.sendError(w, r, err)
		return
	}
	post, err := pc.postService.CreatePost(r.Context(), actor, in)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, "Post created successfully", post)
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId", "Post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	var in models.PostUpdate
	if err := decodeBody(r, &in); err != nil {
		pc.sendError(w, r, err)
		return
	}
	post, err := pc.postService.UpdatePost(r.Context(), id, in)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, "Post updated successfully", post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId", "Post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	if err := pc.postService.DeletePost(r.Context(), id); err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, "Post deleted successfully", nil)
}

// ToggleLike handles PUT /posts/{postId}/like
func (pc *PostController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId", "Post")
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	res, err := pc.postService.ToggleLike(r.Context(), actor, id)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	message := "Post unliked successfully"
	if res.Liked {
		message = "Post liked successfully"
	}
	pc.sendJSON(w, http.StatusOK, message, res)
}
