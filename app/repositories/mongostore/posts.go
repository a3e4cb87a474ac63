package mongostore

import (
	"context"
	"errors"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository implements repositories.PostRepository on MongoDB.
type PostRepository struct {
	coll     *mongo.Collection
	comments *mongo.Collection
	retries  int
}

func NewPostRepository(s *Store, likeRetries int) *PostRepository {
	if likeRetries <= 0 {
		likeRetries = repositories.DefaultLikeRetries
	}
	return &PostRepository{
		coll:     s.db.Collection(PostsCollection),
		comments: s.db.Collection(CommentsCollection),
		retries:  likeRetries,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	_, err := r.coll.InsertOne(ctx, post)
	return translate(err)
}

func (r *PostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error) {
	detail, err := aggregateOne[models.PostDetail](ctx, r.coll, PostDetailPipeline(id))
	if err != nil {
		return nil, translate(err)
	}
	if detail.Likes == nil {
		detail.Likes = []primitive.ObjectID{}
	}
	return detail, nil
}

// Update writes every field except the like set, which only ToggleLike
// changes.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	set := bson.D{
		{Key: "title", Value: post.Title},
		{Key: "slug", Value: post.Slug},
		{Key: "content", Value: post.Content},
		{Key: "image", Value: post.Image},
		{Key: "user", Value: post.UserID},
		{Key: "category", Value: post.CategoryID},
		{Key: "updatedAt", Value: post.UpdatedAt},
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: post.ID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.D{{Key: "post", Value: id}}); err != nil {
		return &post, fmt.Errorf("delete comments of post %s: %w", id.Hex(), err)
	}
	return &post, nil
}

func (r *PostRepository) Search(ctx context.Context, q search.Query, category *primitive.ObjectID) (*search.Page[models.PostRow], error) {
	return runSearch[models.PostRow](ctx, r.coll, q, PostSearchPipeline(q, category))
}

// ToggleLike issues conditional single-document updates: add the like if
// absent, otherwise remove it if present. Each update changes the set and
// the counter together, so the two never disagree. When neither condition
// holds another writer got in between and the toggle is retried.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (models.LikeResult, error) {
	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "totalLikes", Value: 1}})

	for attempt := 0; attempt < r.retries; attempt++ {
		var post models.Post

		err := r.coll.FindOneAndUpdate(ctx, LikeFilter(postID, userID, false), LikeUpdate(userID, true), after).Decode(&post)
		if err == nil {
			return models.LikeResult{Liked: true, TotalLikes: post.TotalLikes}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.LikeResult{}, err
		}

		err = r.coll.FindOneAndUpdate(ctx, LikeFilter(postID, userID, true), LikeUpdate(userID, false), after).Decode(&post)
		if err == nil {
			return models.LikeResult{Liked: false, TotalLikes: post.TotalLikes}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.LikeResult{}, err
		}

		n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: postID}})
		if err != nil {
			return models.LikeResult{}, err
		}
		if n == 0 {
			return models.LikeResult{}, repositories.ErrNotFound
		}
	}
	return models.LikeResult{}, fmt.Errorf("toggle like on post %s: %w", postID.Hex(), repositories.ErrConflict)
}

// LikeFilter selects the post when userID's like is present (liked) or
// absent (!liked).
func LikeFilter(postID, userID primitive.ObjectID, liked bool) bson.D {
	cond := any(userID)
	if !liked {
		cond = bson.D{{Key: "$ne", Value: userID}}
	}
	return bson.D{{Key: "_id", Value: postID}, {Key: "likes", Value: cond}}
}

// LikeUpdate adds or removes userID and moves the counter by one.
func LikeUpdate(userID primitive.ObjectID, like bool) bson.D {
	if like {
		return bson.D{
			{Key: "$push", Value: bson.D{{Key: "likes", Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: "totalLikes", Value: 1}}},
		}
	}
	return bson.D{
		{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}},
		{Key: "$inc", Value: bson.D{{Key: "totalLikes", Value: -1}}},
	}
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}

func (r *PostRepository) TotalLikes(ctx context.Context) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalLikes"}}},
		}}},
	}
	sum, err := aggregateOne[struct {
		Total int `bson:"total"`
	}](ctx, r.coll, pipeline)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return sum.Total, nil
}
