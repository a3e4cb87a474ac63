package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sync/atomic"
	"time"

	"inkwell/app/cache"
	"inkwell/app/metrics"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const categoriesCacheKey = "categories"

// CategoryService handles business logic for categories. The public list is
// cached and dropped on every write.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	cache        cache.Cache
	ttl          time.Duration
	metrics      *metrics.Metrics
	logger       *zap.SugaredLogger

	// generation is bumped by every write so a list read that overlaps a
	// write never stays cached.
	generation atomic.Uint64
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, c cache.Cache, ttl time.Duration, m *metrics.Metrics, logger *zap.SugaredLogger) *CategoryService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        c,
		ttl:          ttl,
		metrics:      m,
		logger:       logger,
	}
}

// ListCategories returns every category as {id, name}, ordered by name
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.CategoryOption, error) {
	if data, ok, err := s.cache.Get(ctx, categoriesCacheKey); err != nil {
		s.logger.Warnw("category cache read failed", "error", err)
	} else if ok {
		var options []models.CategoryOption
		if err := json.Unmarshal(data, &options); err == nil {
			s.metrics.RecordCacheHit(ctx, categoriesCacheKey)
			return options, nil
		}
	}
	s.metrics.RecordCacheMiss(ctx, categoriesCacheKey)

	gen := s.generation.Load()
	options, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []models.CategoryOption{}
	}
	if data, err := json.Marshal(options); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, data, s.ttl); err != nil {
			s.logger.Warnw("category cache write failed", "error", err)
		}
		if s.generation.Load() != gen {
			s.dropCached(ctx)
		}
	}
	return options, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name}
	category.BeforeCreate()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, duplicate(err)
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category")
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, in models.CategoryInput) (*models.Category, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = in.Name
	category.BeforeUpdate()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, duplicate(notFound(err, "Category"))
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes a category. Posts that referenced it drop out of
// post search.
func (s *CategoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Category")
	}
	s.invalidate(ctx)
	s.logger.Infow("category deleted", "categoryId", id.Hex())
	return nil
}

func (s *CategoryService) SearchCategories(ctx context.Context, values url.Values) (*search.Page[models.CategoryRow], error) {
	q, err := search.ParseQuery(values, models.CategorySortFields)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Search(ctx, q)
}

func (s *CategoryService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.dropCached(ctx)
}

func (s *CategoryService) dropCached(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		s.logger.Warnw("category cache invalidation failed", "error", err)
	}
}
