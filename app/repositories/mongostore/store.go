package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds the client and database every repository shares.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the server.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying database.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely
// on. It is safe to run repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plain := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		RolesCollection:      {unique("name")},
		UsersCollection:      {unique("username"), unique("email"), plain("role")},
		CategoriesCollection: {unique("name")},
		PostsCollection:      {plain("category"), plain("user"), plain("createdAt")},
		CommentsCollection:   {plain("post"), plain("parentCommentId"), plain("user")},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// facetResult is the single document a search pipeline produces.
type facetResult[T any] struct {
	Data  []T `bson:"data"`
	Total int `bson:"total"`
}

// runSearch executes a search pipeline and wraps the result into a page.
func runSearch[T any](ctx context.Context, coll *mongo.Collection, q search.Query, pipeline mongo.Pipeline) (*search.Page[T], error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", coll.Name(), err)
	}
	var results []facetResult[T]
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s search: %w", coll.Name(), err)
	}
	if len(results) == 0 {
		return search.NewPage[T](q, nil, 0), nil
	}
	return search.NewPage(q, results[0].Data, results[0].Total), nil
}

// aggregateOne runs a pipeline expected to yield at most one document.
func aggregateOne[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (*T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &out[0], nil
}

// translate maps driver errors onto the repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &repositories.DuplicateError{Field: duplicateField(err.Error())}
	}
	return err
}

// duplicateField extracts the field of the violated unique index from the
// server message, e.g. "... index: email_1 dup key: ...".
func duplicateField(msg string) string {
	for _, field := range []string{"username", "email", "name"} {
		if strings.Contains(msg, "index: "+field+"_1") {
			return field
		}
	}
	return "unknown"
}
