package services

import (
	"context"
	"errors"

	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"go.uber.org/zap"
)

// Seed makes sure the admin and user roles exist and, when credentials are
// configured, that a bootstrap admin account exists. It is safe to run
// repeatedly.
func Seed(ctx context.Context, roleRepo repositories.RoleRepository, users *UserService, admin config.UsersConfig, logger *zap.SugaredLogger) error {
	var adminRole *models.Role
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		role, err := ensureRole(ctx, roleRepo, name)
		if err != nil {
			return err
		}
		if name == models.RoleAdmin {
			adminRole = role
		}
	}

	if admin.AdminUsername == "" || admin.AdminPassword == "" {
		return nil
	}
	if _, err := users.userRepo.GetByUsername(ctx, admin.AdminUsername); err == nil {
		logger.Infow("admin account already present", "username", admin.AdminUsername)
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	user, err := users.CreateUser(ctx, models.UserInput{
		Username: admin.AdminUsername,
		Email:    admin.AdminEmail,
		Password: admin.AdminPassword,
		Role:     adminRole.ID.Hex(),
	})
	if err != nil {
		return err
	}
	user.IsVerified = true
	if err := users.userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Infow("admin account created", "username", user.Username)
	return nil
}

func ensureRole(ctx context.Context, roleRepo repositories.RoleRepository, name string) (*models.Role, error) {
	role, err := roleRepo.GetByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	role = &models.Role{Name: name}
	role.BeforeCreate()
	if err := roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}
