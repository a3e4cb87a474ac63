package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create stores a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		// The post must still exist when the comment lands
		if err := mustExist(txn, entityKey(PostKeyPrefix, comment.PostID)); err != nil {
			return fmt.Errorf("post %s: %w", comment.PostID.Hex(), err)
		}
		return putEntity(txn, entityKey(CommentKeyPrefix, comment.ID), comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CommentKeyPrefix, id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update replaces an existing comment
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, comment.ID)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		return putEntity(txn, key, comment)
	})
}

// Delete removes a comment and its direct replies in one transaction
func (r *BadgerCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) (int, error) {
	removed := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, id)
		if err := mustExist(txn, key); err != nil {
			return err
		}

		comments, err := scanEntities[models.Comment](txn, CommentKeyPrefix)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if c.ParentCommentID == nil || *c.ParentCommentID != id {
				continue
			}
			if err := txn.Delete(entityKey(CommentKeyPrefix, c.ID)); err != nil {
				return err
			}
			removed++
		}

		removed++
		return txn.Delete(key)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListByPost returns the comments of a post, oldest first, with their
// authors resolved
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.CommentRow, error) {
	var rows []models.CommentRow
	err := r.db.View(func(txn *badger.Txn) error {
		users, err := indexEntities(txn, UserKeyPrefix, func(u *models.User) primitive.ObjectID { return u.ID })
		if err != nil {
			return err
		}
		comments, err := scanEntities[models.Comment](txn, CommentKeyPrefix)
		if err != nil {
			return err
		}

		comments = slices.DeleteFunc(comments, func(c *models.Comment) bool { return c.PostID != postID })

		rows = search.Unwind(comments, func(c *models.Comment) (models.CommentRow, bool) {
			user, ok := users[c.UserID]
			if !ok {
				return models.CommentRow{}, false
			}
			return c.Row(user.Ref(true), nil), true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b models.CommentRow) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return rows, nil
}

// Search pages through comments matching q, joined with author and post
func (r *BadgerCommentRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.CommentRow], error) {
	var page *search.Page[models.CommentRow]
	err := r.db.View(func(txn *badger.Txn) error {
		users, err := indexEntities(txn, UserKeyPrefix, func(u *models.User) primitive.ObjectID { return u.ID })
		if err != nil {
			return err
		}
		posts, err := indexEntities(txn, PostKeyPrefix, func(p *models.Post) primitive.ObjectID { return p.ID })
		if err != nil {
			return err
		}
		comments, err := scanEntities[models.Comment](txn, CommentKeyPrefix)
		if err != nil {
			return err
		}

		rows := search.Unwind(comments, func(c *models.Comment) (models.CommentRow, bool) {
			user, ok := users[c.UserID]
			if !ok {
				return models.CommentRow{}, false
			}
			post, ok := posts[c.PostID]
			if !ok {
				return models.CommentRow{}, false
			}
			return c.Row(user.Ref(false), &models.PostRef{ID: post.ID, Title: post.Title}), true
		})
		page, err = search.Run(rows, CommentSchema, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search comments: %w", err)
	}
	return page, nil
}

// Count returns the number of comments
func (r *BadgerCommentRepository) Count(ctx context.Context) (int, error) {
	return countKeys(r.db, CommentKeyPrefix)
}
