package mongostore

import "inkwell/app/repositories"

var (
	_ repositories.RoleRepository     = (*RoleRepository)(nil)
	_ repositories.UserRepository     = (*UserRepository)(nil)
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
	_ repositories.PostRepository     = (*PostRepository)(nil)
	_ repositories.CommentRepository  = (*CommentRepository)(nil)
)
