package mongostore

import (
	"context"

	"inkwell/app/models"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoleRepository implements repositories.RoleRepository on MongoDB.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(s *Store) *RoleRepository {
	return &RoleRepository{coll: s.db.Collection(RolesCollection)}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	_, err := r.coll.InsertOne(ctx, role)
	return translate(err)
}

func (r *RoleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var role models.Role
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&role); err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&role); err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: role.ID}}, role)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var roles []*models.Role
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.Role], error) {
	return runSearch[models.Role](ctx, r.coll, q, RoleSearchPipeline(q))
}
