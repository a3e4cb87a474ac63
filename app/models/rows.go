package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef is the projection of a user embedded in other documents.
type UserRef struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// CategoryRef is the projection of a category embedded in a post.
type CategoryRef struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PostRef is the projection of a post embedded in a comment.
type PostRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

// RoleRef is the projection of a role embedded in a user.
type RoleRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// PostRow is a post with its author and category resolved. The like set is
// never part of a row.
type PostRow struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Content    string             `bson:"content" json:"content"`
	Image      string             `bson:"image" json:"image"`
	TotalLikes int                `bson:"totalLikes" json:"totalLikes"`
	User       *UserRef           `bson:"user" json:"user"`
	Category   *CategoryRef       `bson:"category" json:"category"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PostDetail is a single post as shown on its own page.
type PostDetail struct {
	PostRow `bson:",inline"`
	Likes   []primitive.ObjectID `bson:"likes" json:"likes"`
}

// CommentRow is a comment with its author and, in search results, its post.
type CommentRow struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	Text            string              `bson:"text" json:"text"`
	ParentCommentID *primitive.ObjectID `bson:"parentCommentId" json:"parentCommentId"`
	User            *UserRef            `bson:"user" json:"user"`
	Post            *PostRef            `bson:"post,omitempty" json:"post,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CategoryRow is a category with the number of posts filed under it.
type CategoryRow struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	TotalPosts int                `bson:"totalPosts" json:"totalPosts"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryOption is an entry of the public category list.
type CategoryOption struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// UserRow is a user with the role resolved. The password hash is never part
// of a row.
type UserRow struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Avatar     string             `bson:"avatar" json:"avatar"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	Role       *RoleRef           `bson:"role" json:"role"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Row builds the search row of a post from its resolved references.
func (p *Post) Row(user *UserRef, category *CategoryRef) PostRow {
	return PostRow{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		Image:      p.Image,
		TotalLikes: p.TotalLikes,
		User:       user,
		Category:   category,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// Ref projects the user for embedding. Email and avatar are included only
// when full is set.
func (u *User) Ref(full bool) *UserRef {
	ref := &UserRef{ID: u.ID, Username: u.Username}
	if full {
		ref.Email = u.Email
		ref.Avatar = u.Avatar
	}
	return ref
}

// Row builds the search row of a user.
func (u *User) Row(role *RoleRef) UserRow {
	return UserRow{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
		Role:       role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Ref projects the category for embedding in a post.
func (c *Category) Ref() *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// Row builds the search row of a comment.
func (c *Comment) Row(user *UserRef, post *PostRef) CommentRow {
	return CommentRow{
		ID:              c.ID,
		Text:            c.Text,
		ParentCommentID: c.ParentCommentID,
		User:            user,
		Post:            post,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
