package services

import (
	"context"
	"errors"
	"net/url"

	"inkwell/app/apperrors"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	logger      *zap.SugaredLogger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, logger *zap.SugaredLogger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		logger:      logger,
	}
}

// CreateComment adds a comment, or a reply to a top level comment, to a post
func (s *CommentService) CreateComment(ctx context.Context, actor models.Actor, postID primitive.ObjectID, in models.CommentInput) (*models.Comment, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, "Post")
	}

	comment := &models.Comment{
		Text:   in.Text,
		PostID: postID,
		UserID: actor.ID,
	}
	if in.ParentCommentID != nil && *in.ParentCommentID != "" {
		parentID := mustParse(*in.ParentCommentID)
		if err := s.checkParent(ctx, postID, parentID); err != nil {
			return nil, err
		}
		comment.ParentCommentID = &parentID
	}

	comment.BeforeCreate()
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, notFound(err, "Post")
	}
	s.logger.Infow("comment created", "commentId", comment.ID.Hex(), "postId", postID.Hex())
	return comment, nil
}

// checkParent enforces one level of replies within the same post.
func (s *CommentService) checkParent(ctx context.Context, postID, parentID primitive.ObjectID) error {
	parent, err := s.commentRepo.GetByID(ctx, parentID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.Field("parentCommentId", "Parent comment not found")
	case err != nil:
		return err
	case parent.PostID != postID:
		return apperrors.Field("parentCommentId", "Parent comment belongs to another post")
	case parent.IsReply():
		return apperrors.Field("parentCommentId", "Replies cannot be replied to")
	}
	return nil
}

// GetComment retrieves a comment of a post
func (s *CommentService) GetComment(ctx context.Context, postID, id primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Comment")
	}
	if comment.PostID != postID {
		return nil, apperrors.NotFound("Comment")
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post
func (s *CommentService) ListPostComments(ctx context.Context, postID primitive.ObjectID) ([]models.CommentRow, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, "Post")
	}
	rows, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.CommentRow{}
	}
	return rows, nil
}

// UpdateComment changes the text of a comment
func (s *CommentService) UpdateComment(ctx context.Context, actor models.Actor, postID, id primitive.ObjectID, in models.CommentUpdate) (*models.Comment, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	comment, err := s.GetComment(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(comment.UserID) {
		return nil, apperrors.Forbidden("You can only edit your own comments")
	}

	if in.Text != nil {
		comment.Text = *in.Text
	}
	comment.BeforeUpdate()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, notFound(err, "Comment")
	}
	return comment, nil
}

// DeleteComment deletes a comment with its replies and reports how many
// comments were removed
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, postID, id primitive.ObjectID) (int, error) {
	comment, err := s.GetComment(ctx, postID, id)
	if err != nil {
		return 0, err
	}
	if !actor.CanModify(comment.UserID) {
		return 0, apperrors.Forbidden("You can only delete your own comments")
	}

	removed, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return 0, notFound(err, "Comment")
	}
	s.logger.Infow("comment deleted", "commentId", id.Hex(), "removed", removed)
	return removed, nil
}

// SearchComments runs a comment search from query string parameters
func (s *CommentService) SearchComments(ctx context.Context, values url.Values) (*search.Page[models.CommentRow], error) {
	q, err := search.ParseQuery(values, models.CommentSortFields)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.Search(ctx, q)
}
