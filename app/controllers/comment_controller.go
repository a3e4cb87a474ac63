package controllers

import (
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, logger *zap.SugaredLogger) *CommentController {
	return &CommentController{base: base{logger: logger}, commentService: commentService}
}

// Index lists the comments of a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "Post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	message := "Comments retrieved successfully"
	if len(comments) == 0 {
		message = "No comments found"
	}
	cc.sendJSON(w, http.StatusOK, message, comments)
}

// Search handles GET /comments/search
func (cc *CommentController) Search(w http.ResponseWriter, r *http.Request) {
	page, err := cc.commentService.SearchComments(r.Context(), r.URL.Query())
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	sendPage(cc.base, w, page, "Comments")
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId", "Post")
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	var in models.CommentInput
	if err := decodeBody(r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}
	comment, err := cc.commentService.CreateComment(r.Context(), actor, postID, in)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusCreated, "Comment created successfully", comment)
}

// Show handles retrieving a single comment
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	comment, err := cc.commentService.GetComment(r.Context(), postID, id)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Comment retrieved successfully", comment)
}

// Update handles editing a comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	var in models.CommentUpdate
	if err := decodeBody(r, &in); err != nil {
		cc.sendError(w, r, err)
		return
	}
	comment, err := cc.commentService.UpdateComment(r.Context(), actor, postID, id, in)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Comment updated successfully", comment)
}

// Delete handles deleting a comment and its replies
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	postID, id, err := commentIDs(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	removed, err := cc.commentService.DeleteComment(r.Context(), actor, postID, id)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, "Comment deleted successfully", map[string]int{"deletedCount": removed})
}

func commentIDs(r *http.Request) (postID, commentID primitive.ObjectID, err error) {
	if postID, err = pathID(r, "postId", "Post"); err != nil {
		return
	}
	commentID, err = pathID(r, "commentId", "Comment")
	return
}
