package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const categoryEntity = "category"

// BadgerCategoryRepository implements CategoryRepository using BadgerDB
type BadgerCategoryRepository struct {
	db *badger.DB
}

// NewBadgerCategoryRepository creates a new BadgerCategoryRepository
func NewBadgerCategoryRepository(db *badger.DB) *BadgerCategoryRepository {
	return &BadgerCategoryRepository{db: db}
}

// Create stores a new category
func (r *BadgerCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := claimUnique(txn, categoryEntity, "name", category.Name, category.ID); err != nil {
			return err
		}
		return putEntity(txn, entityKey(CategoryKeyPrefix, category.ID), category)
	})
}

// GetByID retrieves a category by ID
func (r *BadgerCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CategoryKeyPrefix, id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update replaces an existing category
func (r *BadgerCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CategoryKeyPrefix, category.ID)
		var existing models.Category
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		if err := reclaimUnique(txn, categoryEntity, "name", existing.Name, category.Name, category.ID); err != nil {
			return err
		}
		return putEntity(txn, key, category)
	})
}

// Delete removes a category. Posts filed under it stay and drop out of
// search results until they are moved to another category.
func (r *BadgerCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CategoryKeyPrefix, id)
		var category models.Category
		if err := getEntity(txn, key, &category); err != nil {
			return err
		}
		if err := releaseUnique(txn, categoryEntity, "name", category.Name); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// List returns the id and name of every category ordered by name
func (r *BadgerCategoryRepository) List(ctx context.Context) ([]models.CategoryOption, error) {
	options := []models.CategoryOption{}
	err := r.db.View(func(txn *badger.Txn) error {
		categories, err := scanEntities[models.Category](txn, CategoryKeyPrefix)
		if err != nil {
			return err
		}
		for _, c := range categories {
			options = append(options, models.CategoryOption{ID: c.ID, Name: c.Name})
		}
		return nil
	})
	slices.SortFunc(options, func(a, b models.CategoryOption) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return options, err
}

// Search pages through categories matching q, each with its post count
func (r *BadgerCategoryRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.CategoryRow], error) {
	var page *search.Page[models.CategoryRow]
	err := r.db.View(func(txn *badger.Txn) error {
		categories, err := scanEntities[models.Category](txn, CategoryKeyPrefix)
		if err != nil {
			return err
		}
		posts, err := scanEntities[models.Post](txn, PostKeyPrefix)
		if err != nil {
			return err
		}
		counts := make(map[primitive.ObjectID]int)
		for _, p := range posts {
			counts[p.CategoryID]++
		}

		rows := make([]models.CategoryRow, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, models.CategoryRow{
				ID:         c.ID,
				Name:       c.Name,
				TotalPosts: counts[c.ID],
				CreatedAt:  c.CreatedAt,
				UpdatedAt:  c.UpdatedAt,
			})
		}
		page, err = search.Run(rows, CategorySchema, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	return page, nil
}

// Count returns the number of categories
func (r *BadgerCategoryRepository) Count(ctx context.Context) (int, error) {
	return countKeys(r.db, CategoryKeyPrefix)
}
