package models

// Role names seeded on first start.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PostInput is the body of a post creation request.
type PostInput struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Content  string `json:"content" validate:"required,richtext"`
	Category string `json:"category" validate:"required,objectid"`
	Image    string `json:"image" validate:"omitempty,url"`
}

// PostUpdate is the body of a partial post update. Nil fields are left as
// they are.
type PostUpdate struct {
	Title    *string `json:"title" validate:"omitempty,notblank,max=200"`
	Content  *string `json:"content" validate:"omitempty,richtext"`
	Category *string `json:"category" validate:"omitempty,objectid"`
	Image    *string `json:"image" validate:"omitempty,url"`
}

// CommentInput is the body of a comment creation request.
type CommentInput struct {
	Text            string  `json:"text" validate:"required,notblank,max=2000"`
	ParentCommentID *string `json:"parentCommentId" validate:"omitempty,objectid"`
}

// CommentUpdate is the body of a comment update.
type CommentUpdate struct {
	Text *string `json:"text" validate:"omitempty,notblank,max=2000"`
}

// CategoryInput is the body of a category create or update.
type CategoryInput struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// RoleInput is the body of a role create or update.
type RoleInput struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

// UserInput is the body of an admin user creation request.
type UserInput struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,objectid"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// UserUpdate is the body of an admin user update.
type UserUpdate struct {
	Username   *string `json:"username" validate:"omitempty,notblank,min=3,max=50"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	Role       *string `json:"role" validate:"omitempty,objectid"`
	Avatar     *string `json:"avatar" validate:"omitempty,url"`
	IsVerified *bool   `json:"isVerified"`
}

// ProfileUpdate is what users may change about themselves.
type ProfileUpdate struct {
	Username *string `json:"username" validate:"omitempty,notblank,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}
