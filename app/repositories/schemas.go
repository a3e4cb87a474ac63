package repositories

import (
	"inkwell/app/models"
	"inkwell/app/search"
)

// PostSchema drives in-process post search.
var PostSchema = search.Schema[models.PostRow]{
	Text: func(r models.PostRow) []string {
		return []string{r.Title, r.Content, r.User.Username, r.User.Email, r.Category.Name}
	},
	Fields: map[string]func(models.PostRow) any{
		"createdAt":     func(r models.PostRow) any { return r.CreatedAt },
		"updatedAt":     func(r models.PostRow) any { return r.UpdatedAt },
		"title":         func(r models.PostRow) any { return r.Title },
		"slug":          func(r models.PostRow) any { return r.Slug },
		"totalLikes":    func(r models.PostRow) any { return r.TotalLikes },
		"user.username": func(r models.PostRow) any { return r.User.Username },
		"category.name": func(r models.PostRow) any { return r.Category.Name },
	},
	ID: func(r models.PostRow) string { return r.ID.Hex() },
}

// CommentSchema drives in-process comment search.
var CommentSchema = search.Schema[models.CommentRow]{
	Text: func(r models.CommentRow) []string {
		return []string{r.Text, r.User.Username, r.Post.Title}
	},
	Fields: map[string]func(models.CommentRow) any{
		"createdAt":     func(r models.CommentRow) any { return r.CreatedAt },
		"updatedAt":     func(r models.CommentRow) any { return r.UpdatedAt },
		"text":          func(r models.CommentRow) any { return r.Text },
		"user.username": func(r models.CommentRow) any { return r.User.Username },
		"post.title":    func(r models.CommentRow) any { return r.Post.Title },
	},
	ID: func(r models.CommentRow) string { return r.ID.Hex() },
}

// CategorySchema drives in-process category search.
var CategorySchema = search.Schema[models.CategoryRow]{
	Text: func(r models.CategoryRow) []string { return []string{r.Name} },
	Fields: map[string]func(models.CategoryRow) any{
		"createdAt":  func(r models.CategoryRow) any { return r.CreatedAt },
		"updatedAt":  func(r models.CategoryRow) any { return r.UpdatedAt },
		"name":       func(r models.CategoryRow) any { return r.Name },
		"totalPosts": func(r models.CategoryRow) any { return r.TotalPosts },
	},
	ID: func(r models.CategoryRow) string { return r.ID.Hex() },
}

// UserSchema drives in-process user search.
var UserSchema = search.Schema[models.UserRow]{
	Text: func(r models.UserRow) []string {
		return []string{r.Username, r.Email, r.Role.Name}
	},
	Fields: map[string]func(models.UserRow) any{
		"createdAt": func(r models.UserRow) any { return r.CreatedAt },
		"updatedAt": func(r models.UserRow) any { return r.UpdatedAt },
		"username":  func(r models.UserRow) any { return r.Username },
		"email":     func(r models.UserRow) any { return r.Email },
		"role.name": func(r models.UserRow) any { return r.Role.Name },
	},
	ID: func(r models.UserRow) string { return r.ID.Hex() },
}

// RoleSchema drives in-process role search.
var RoleSchema = search.Schema[models.Role]{
	Text: func(r models.Role) []string { return []string{r.Name} },
	Fields: map[string]func(models.Role) any{
		"createdAt": func(r models.Role) any { return r.CreatedAt },
		"updatedAt": func(r models.Role) any { return r.UpdatedAt },
		"name":      func(r models.Role) any { return r.Name },
	},
	ID: func(r models.Role) string { return r.ID.Hex() },
}
