package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// now returns the current time at the precision documents are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// BeforeCreate assigns an id and timestamps.
func (r *Role) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
}

// BeforeUpdate refreshes the modification time.
func (r *Role) BeforeUpdate() { r.UpdatedAt = now() }

// BeforeCreate assigns an id and timestamps.
func (u *User) BeforeCreate() {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
}

// BeforeUpdate refreshes the modification time.
func (u *User) BeforeUpdate() { u.UpdatedAt = now() }

// BeforeCreate assigns an id and timestamps.
func (c *Category) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
}

// BeforeUpdate refreshes the modification time.
func (c *Category) BeforeUpdate() { c.UpdatedAt = now() }

// BeforeCreate assigns an id, timestamps, the slug and an empty like set.
func (p *Post) BeforeCreate() {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	p.TotalLikes = len(p.Likes)
	p.Slug = Slugify(p.Title)
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
}

// BeforeUpdate refreshes the slug and the modification time.
func (p *Post) BeforeUpdate() {
	p.Slug = Slugify(p.Title)
	p.UpdatedAt = now()
}

// LikedBy reports whether userID is in the like set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips userID's membership in the like set and keeps TotalLikes
// in step. It returns true when the post is now liked by userID.
func (p *Post) ToggleLike(userID primitive.ObjectID) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			p.TotalLikes = len(p.Likes)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	p.TotalLikes = len(p.Likes)
	return true
}

// BeforeCreate assigns an id and timestamps.
func (c *Comment) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
}

// BeforeUpdate refreshes the modification time.
func (c *Comment) BeforeUpdate() { c.UpdatedAt = now() }

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil && !c.ParentCommentID.IsZero()
}
