package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names a permission group. Users reference exactly one role.
type Role struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// User is an account. Password holds the bcrypt hash and is never rendered.
type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Avatar     string             `bson:"avatar" json:"avatar"`
	RoleID     primitive.ObjectID `bson:"role" json:"role"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Category groups posts.
type Category struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Post is a blog article. TotalLikes always equals len(Likes).
type Post struct {
	ID         primitive.ObjectID   `bson:"_id" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Slug       string               `bson:"slug" json:"slug"`
	Content    string               `bson:"content" json:"content"`
	Image      string               `bson:"image" json:"image"`
	UserID     primitive.ObjectID   `bson:"user" json:"user"`
	CategoryID primitive.ObjectID   `bson:"category" json:"category"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	TotalLikes int                  `bson:"totalLikes" json:"totalLikes"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Comment belongs to a post. A reply points at a top level comment of the
// same post through ParentCommentID.
type Comment struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	Text            string              `bson:"text" json:"text"`
	PostID          primitive.ObjectID  `bson:"post" json:"post"`
	UserID          primitive.ObjectID  `bson:"user" json:"user"`
	ParentCommentID *primitive.ObjectID `bson:"parentCommentId" json:"parentCommentId"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalPosts      int `json:"totalPosts"`
	TotalComments   int `json:"totalComments"`
	TotalCategories int `json:"totalCategories"`
	TotalUsers      int `json:"totalUsers"`
	TotalLikes      int `json:"totalLikes"`
}

// LikeResult is the outcome of toggling a like.
type LikeResult struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"totalLikes"`
}
