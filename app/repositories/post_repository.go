package repositories

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLikeRetries is how many times a conflicting like toggle is retried.
const DefaultLikeRetries = 10

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db      *badger.DB
	retries int
}

// PostOption configures a BadgerPostRepository
type PostOption func(*BadgerPostRepository)

// WithLikeRetries sets the retry budget for conflicting like toggles
func WithLikeRetries(n int) PostOption {
	return func(r *BadgerPostRepository) {
		if n > 0 {
			r.retries = n
		}
	}
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB, opts ...PostOption) *BadgerPostRepository {
	r := &BadgerPostRepository{db: db, retries: DefaultLikeRetries}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return putEntity(txn, entityKey(PostKeyPrefix, post.ID), post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetDetail retrieves a post with its author and category resolved. A
// reference that no longer resolves is left nil.
func (r *BadgerPostRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error) {
	var detail models.PostDetail
	err := r.db.View(func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, entityKey(PostKeyPrefix, id), &post); err != nil {
			return err
		}

		var user models.User
		var userRef *models.UserRef
		switch err := getEntity(txn, entityKey(UserKeyPrefix, post.UserID), &user); {
		case err == nil:
			userRef = user.Ref(true)
		case !errors.Is(err, ErrNotFound):
			return err
		}

		var category models.Category
		var categoryRef *models.CategoryRef
		switch err := getEntity(txn, entityKey(CategoryKeyPrefix, post.CategoryID), &category); {
		case err == nil:
			categoryRef = category.Ref()
		case !errors.Is(err, ErrNotFound):
			return err
		}

		detail = models.PostDetail{PostRow: post.Row(userRef, categoryRef), Likes: post.Likes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if detail.Likes == nil {
		detail.Likes = []primitive.ObjectID{}
	}
	return &detail, nil
}

// Update replaces an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, post.ID)

		// Keep the like set as stored so a concurrent toggle is never undone
		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		post.Likes = existing.Likes
		post.TotalLikes = existing.TotalLikes

		return putEntity(txn, key, post)
	})
}

// Delete removes a post and its comments
func (r *BadgerPostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}

		comments, err := scanEntities[models.Comment](txn, CommentKeyPrefix)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if c.PostID != id {
				continue
			}
			if err := txn.Delete(entityKey(CommentKeyPrefix, c.ID)); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Search runs the post search pipeline against one read snapshot
func (r *BadgerPostRepository) Search(ctx context.Context, q search.Query, category *primitive.ObjectID) (*search.Page[models.PostRow], error) {
	var page *search.Page[models.PostRow]
	err := r.db.View(func(txn *badger.Txn) error {
		users, err := indexEntities(txn, UserKeyPrefix, func(u *models.User) primitive.ObjectID { return u.ID })
		if err != nil {
			return err
		}
		categories, err := indexEntities(txn, CategoryKeyPrefix, func(c *models.Category) primitive.ObjectID { return c.ID })
		if err != nil {
			return err
		}
		posts, err := scanEntities[models.Post](txn, PostKeyPrefix)
		if err != nil {
			return err
		}

		rows := search.Unwind(posts, func(p *models.Post) (models.PostRow, bool) {
			user, ok := users[p.UserID]
			if !ok {
				return models.PostRow{}, false
			}
			cat, ok := categories[p.CategoryID]
			if !ok {
				return models.PostRow{}, false
			}
			return p.Row(user.Ref(true), cat.Ref()), true
		})

		var filters []func(models.PostRow) bool
		if category != nil {
			want := *category
			filters = append(filters, func(row models.PostRow) bool { return row.Category.ID == want })
		}
		page, err = search.Run(rows, PostSchema, q, filters...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return page, nil
}

// ToggleLike flips userID's membership in the post's like set. The read and
// the write happen in one transaction; a transaction that loses a race with
// another writer is retried from scratch.
func (r *BadgerPostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (models.LikeResult, error) {
	var result models.LikeResult
	key := entityKey(PostKeyPrefix, postID)

	for attempt := 0; attempt < r.retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff(attempt)); err != nil {
				return result, err
			}
		}

		err := r.db.Update(func(txn *badger.Txn) error {
			var post models.Post
			if err := getEntity(txn, key, &post); err != nil {
				return err
			}
			result.Liked = post.ToggleLike(userID)
			result.TotalLikes = post.TotalLikes
			return putEntity(txn, key, &post)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return result, err
		}
	}
	return models.LikeResult{}, fmt.Errorf("toggle like on post %s: %w", postID.Hex(), ErrConflict)
}

// Count returns the number of posts
func (r *BadgerPostRepository) Count(ctx context.Context) (int, error) {
	return countKeys(r.db, PostKeyPrefix)
}

// TotalLikes sums the like counters of all posts
func (r *BadgerPostRepository) TotalLikes(ctx context.Context) (int, error) {
	total := 0
	err := r.db.View(func(txn *badger.Txn) error {
		posts, err := scanEntities[models.Post](txn, PostKeyPrefix)
		for _, p := range posts {
			total += p.TotalLikes
		}
		return err
	})
	return total, err
}

// backoff grows linearly with the attempt and adds jitter so racing
// writers spread out.
func backoff(attempt int) time.Duration {
	return time.Duration(attempt)*2*time.Millisecond + rand.N(3*time.Millisecond)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
