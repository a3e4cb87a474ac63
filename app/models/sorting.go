package models

// Fields each search may be ordered by. Dotted names refer to joined
// documents.
var (
	PostSortFields     = []string{"createdAt", "updatedAt", "title", "slug", "totalLikes", "user.username", "category.name"}
	CommentSortFields  = []string{"createdAt", "updatedAt", "text", "user.username", "post.title"}
	CategorySortFields = []string{"createdAt", "updatedAt", "name", "totalPosts"}
	UserSortFields     = []string{"createdAt", "updatedAt", "username", "email", "role.name"}
	RoleSortFields     = []string{"createdAt", "updatedAt", "name"}
)
