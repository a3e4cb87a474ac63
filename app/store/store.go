package store

import (
	"context"
	"fmt"

	"inkwell/app/config"
	"inkwell/app/repositories"
	"inkwell/app/repositories/mongostore"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Roles      repositories.RoleRepository
	Users      repositories.UserRepository
	Categories repositories.CategoryRepository
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository

	// Badger is set when the embedded backend is in use.
	Badger *badger.DB
	// Mongo is set when the MongoDB backend is in use.
	Mongo *mongostore.Store

	close func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig, logger *zap.SugaredLogger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		db, err := repositories.OpenBadger(cfg.BadgerPath, cfg.BadgerInMemory)
		if err != nil {
			return nil, err
		}
		logger.Infow("badger store opened", "path", cfg.BadgerPath, "inMemory", cfg.BadgerInMemory)
		return NewBadger(db, cfg.LikeRetries), nil

	case config.DriverMongoDB:
		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Infow("mongodb store connected", "database", cfg.MongoDatabase)
		return NewMongo(ms, cfg.LikeRetries), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// NewBadger builds a Store over an open Badger database.
func NewBadger(db *badger.DB, likeRetries int) *Store {
	var opts []repositories.PostOption
	if likeRetries > 0 {
		opts = append(opts, repositories.WithLikeRetries(likeRetries))
	}
	return &Store{
		Roles:      repositories.NewBadgerRoleRepository(db),
		Users:      repositories.NewBadgerUserRepository(db),
		Categories: repositories.NewBadgerCategoryRepository(db),
		Posts:      repositories.NewBadgerPostRepository(db, opts...),
		Comments:   repositories.NewBadgerCommentRepository(db),
		Badger:     db,
		close:      func(context.Context) error { return db.Close() },
	}
}

// NewMongo builds a Store over a connected MongoDB database.
func NewMongo(ms *mongostore.Store, likeRetries int) *Store {
	return &Store{
		Roles:      mongostore.NewRoleRepository(ms),
		Users:      mongostore.NewUserRepository(ms),
		Categories: mongostore.NewCategoryRepository(ms),
		Posts:      mongostore.NewPostRepository(ms, likeRetries),
		Comments:   mongostore.NewCommentRepository(ms),
		Mongo:      ms,
		close:      ms.Close,
	}
}

// Migrate creates the unique indexes the MongoDB backend relies on. The
// Badger backend keeps its own index keys and needs nothing.
func (s *Store) Migrate(ctx context.Context) error {
	if s.Mongo == nil {
		return nil
	}
	return s.Mongo.EnsureIndexes(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
