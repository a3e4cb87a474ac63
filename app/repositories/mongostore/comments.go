package mongostore

import (
	"context"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepository implements repositories.CommentRepository on MongoDB.
type CommentRepository struct {
	coll  *mongo.Collection
	posts *mongo.Collection
}

func NewCommentRepository(s *Store) *CommentRepository {
	return &CommentRepository{
		coll:  s.db.Collection(CommentsCollection),
		posts: s.db.Collection(PostsCollection),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	n, err := r.posts.CountDocuments(ctx, bson.D{{Key: "_id", Value: comment.PostID}})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %s: %w", comment.PostID.Hex(), repositories.ErrNotFound)
	}
	_, err = r.coll.InsertOne(ctx, comment)
	return translate(err)
}

func (r *CommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: comment.ID}}, comment)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete removes the comment first so a concurrent reply to it fails its
// parent check, then its direct replies.
func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) (int, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, repositories.ErrNotFound
	}
	replies, err := r.coll.DeleteMany(ctx, bson.D{{Key: "parentCommentId", Value: id}})
	if err != nil {
		return 1, fmt.Errorf("delete replies of comment %s: %w", id.Hex(), err)
	}
	return 1 + int(replies.DeletedCount), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.CommentRow, error) {
	cur, err := r.coll.Aggregate(ctx, CommentsByPostPipeline(postID))
	if err != nil {
		return nil, err
	}
	rows := []models.CommentRow{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CommentRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.CommentRow], error) {
	return runSearch[models.CommentRow](ctx, r.coll, q, CommentSearchPipeline(q))
}

func (r *CommentRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}
