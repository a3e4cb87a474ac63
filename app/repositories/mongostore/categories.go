package mongostore

import (
	"context"

	"inkwell/app/models"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository implements repositories.CategoryRepository on MongoDB.
type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{coll: s.db.Collection(CategoriesCollection)}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	_, err := r.coll.InsertOne(ctx, category)
	return translate(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: category.ID}}, category)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.CategoryOption, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "name", Value: 1}}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.CategoryOption{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.CategoryRow], error) {
	return runSearch[models.CategoryRow](ctx, r.coll, q, CategorySearchPipeline(q))
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}
