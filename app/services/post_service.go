package services

import (
	"context"
	"errors"
	"net/url"

	"inkwell/app/apperrors"
	"inkwell/app/assets"
	"inkwell/app/metrics"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	assets       assets.Store
	metrics      *metrics.Metrics
	logger       *zap.SugaredLogger
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository, assets assets.Store, m *metrics.Metrics, logger *zap.SugaredLogger) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		assets:       assets,
		metrics:      m,
		logger:       logger,
	}
}

// CreatePost validates the input and stores a new post written by actor
func (s *PostService) CreatePost(ctx context.Context, actor models.Actor, in models.PostInput) (*models.Post, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	categoryID := mustParse(in.Category)
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Image:      in.Image,
		UserID:     actor.ID,
		CategoryID: categoryID,
	}
	post.BeforeCreate()
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Infow("post created", "postId", post.ID.Hex(), "userId", actor.ID.Hex())
	return post, nil
}

// GetPost retrieves a post with its author and category
func (s *PostService) GetPost(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error) {
	post, err := s.postRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "Post")
	}
	return post, nil
}

// UpdatePost applies the provided fields to an existing post
func (s *PostService) UpdatePost(ctx context.Context, id primitive.ObjectID, in models.PostUpdate) (*models.Post, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Post")
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Category != nil {
		categoryID := mustParse(*in.Category)
		if err := s.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		post.CategoryID = categoryID
	}
	var replaced string
	if in.Image != nil && *in.Image != post.Image {
		replaced = post.Image
		post.Image = *in.Image
	}

	post.BeforeUpdate()
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, notFound(err, "Post")
	}
	s.removeAsset(ctx, replaced)
	s.logger.Infow("post updated", "postId", post.ID.Hex())
	return post, nil
}

// DeletePost deletes a post, its comments and its image
func (s *PostService) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	post, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return notFound(err, "Post")
	}
	s.removeAsset(ctx, post.Image)
	s.logger.Infow("post deleted", "postId", id.Hex())
	return nil
}

// SearchPosts runs a post search from query string parameters
func (s *PostService) SearchPosts(ctx context.Context, values url.Values) (*search.Page[models.PostRow], error) {
	q, err := search.ParseQuery(values, models.PostSortFields)
	if err != nil {
		return nil, err
	}
	var category *primitive.ObjectID
	if f := search.ParsePostFilter(values); f.Category != "" {
		if id, err := primitive.ObjectIDFromHex(f.Category); err == nil {
			category = &id
		}
	}
	return s.postRepo.Search(ctx, q, category)
}

// ToggleLike likes the post for actor, or removes the like if it exists
func (s *PostService) ToggleLike(ctx context.Context, actor models.Actor, postID primitive.ObjectID) (models.LikeResult, error) {
	res, err := s.postRepo.ToggleLike(ctx, postID, actor.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return res, apperrors.NotFound("Post")
	case errors.Is(err, repositories.ErrConflict):
		s.logger.Warnw("like toggle gave up", "postId", postID.Hex(), "error", err)
		return res, apperrors.Conflict("Too many concurrent updates, please retry", err)
	case err != nil:
		return res, err
	}

	s.metrics.RecordLikeToggle(ctx, res.Liked)
	if res.Liked {
		s.logger.Infow("post liked successfully", "postId", postID.Hex(), "userId", actor.ID.Hex())
	} else {
		s.logger.Infow("post unliked successfully", "postId", postID.Hex(), "userId", actor.ID.Hex())
	}
	return res, nil
}

func (s *PostService) checkCategory(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Field("category", "Invalid category id")
		}
		return err
	}
	return nil
}

// removeAsset releases an image. Failures are logged, the post change has
// already been stored.
func (s *PostService) removeAsset(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.assets.Remove(ctx, url); err != nil {
		s.logger.Warnw("failed to remove image", "url", url, "error", err)
	}
}
