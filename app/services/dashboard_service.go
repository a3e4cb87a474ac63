package services

import (
	"context"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// DashboardService summarises the store for administrators
type DashboardService struct {
	postRepo     repositories.PostRepository
	commentRepo  repositories.CommentRepository
	categoryRepo repositories.CategoryRepository
	userRepo     repositories.UserRepository
}

func NewDashboardService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, categoryRepo repositories.CategoryRepository, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// Stats counts every collection and the likes across all posts
func (s *DashboardService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	var err error
	if stats.TotalPosts, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalComments, err = s.commentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = s.postRepo.TotalLikes(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
