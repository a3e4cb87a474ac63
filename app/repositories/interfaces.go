package repositories

import (
	"context"

	"inkwell/app/models"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]*models.Role, error)
	Search(ctx context.Context, q search.Query) (*search.Page[models.Role], error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*models.UserRow, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// Search never returns the user identified by exclude.
	Search(ctx context.Context, q search.Query, exclude primitive.ObjectID) (*search.Page[models.UserRow], error)
	Count(ctx context.Context) (int, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.CategoryOption, error)
	Search(ctx context.Context, q search.Query) (*search.Page[models.CategoryRow], error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post together with its comments.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// Search filters on category when it is non-nil.
	Search(ctx context.Context, q search.Query, category *primitive.ObjectID) (*search.Page[models.PostRow], error)
	// ToggleLike atomically flips userID's like on the post.
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (models.LikeResult, error)
	Count(ctx context.Context) (int, error)
	TotalLikes(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	// Delete removes the comment and its direct replies and reports how many
	// comments were removed.
	Delete(ctx context.Context, id primitive.ObjectID) (int, error)
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.CommentRow, error)
	Search(ctx context.Context, q search.Query) (*search.Page[models.CommentRow], error)
	Count(ctx context.Context) (int, error)
}
