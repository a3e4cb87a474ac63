package services

import (
	"context"
	"errors"
	"net/url"

	"inkwell/app/apperrors"
	"inkwell/app/assets"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// UserService handles business logic for user accounts
type UserService struct {
	userRepo      repositories.UserRepository
	roleRepo      repositories.RoleRepository
	assets        assets.Store
	defaultAvatar string
	logger        *zap.SugaredLogger
}

func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository, assets assets.Store, defaultAvatar string, logger *zap.SugaredLogger) *UserService {
	return &UserService{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		assets:        assets,
		defaultAvatar: defaultAvatar,
		logger:        logger,
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser registers an account with the given role
func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	roleID := mustParse(in.Role)
	if err := s.checkRole(ctx, roleID); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Avatar:   in.Avatar,
		RoleID:   roleID,
	}
	if user.Avatar == "" {
		user.Avatar = s.defaultAvatar
	}
	user.BeforeCreate()
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicate(err)
	}
	s.logger.Infow("user created", "userId", user.ID.Hex(), "username", user.Username)
	return user, nil
}

// GetUser returns a user with its role. Only admins may look at other users.
func (s *UserService) GetUser(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.UserRow, error) {
	if !actor.CanModify(id) {
		return nil, apperrors.Forbidden("You can only view your own account")
	}
	user, err := s.userRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// UpdateUser applies an admin edit to any account
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, in models.UserUpdate) (*models.User, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}

	if in.Role != nil {
		roleID := mustParse(*in.Role)
		if err := s.checkRole(ctx, roleID); err != nil {
			return nil, err
		}
		user.RoleID = roleID
	}
	if in.IsVerified != nil {
		user.IsVerified = *in.IsVerified
	}
	return s.save(ctx, user, models.ProfileUpdate{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Avatar:   in.Avatar,
	})
}

// UpdateProfile lets a user edit their own account. The role never changes
// here.
func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, id primitive.ObjectID, in models.ProfileUpdate) (*models.User, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	if !actor.CanModify(id) {
		return nil, apperrors.Forbidden("You can only update your own profile")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return s.save(ctx, user, in)
}

func (s *UserService) save(ctx context.Context, user *models.User, in models.ProfileUpdate) (*models.User, error) {
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	var replaced string
	if in.Avatar != nil && *in.Avatar != user.Avatar {
		replaced = user.Avatar
		user.Avatar = *in.Avatar
	}

	user.BeforeUpdate()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, duplicate(notFound(err, "User"))
	}
	s.removeAvatar(ctx, replaced)
	return user, nil
}

// DeleteUser removes an account. Users may only delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !actor.CanModify(id) {
		return apperrors.Forbidden("You can only delete your own account")
	}
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return notFound(err, "User")
	}
	s.removeAvatar(ctx, user.Avatar)
	s.logger.Infow("user deleted", "userId", id.Hex())
	return nil
}

// SearchUsers runs a user search that never includes actor
func (s *UserService) SearchUsers(ctx context.Context, actor models.Actor, values url.Values) (*search.Page[models.UserRow], error) {
	q, err := search.ParseQuery(values, models.UserSortFields)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Search(ctx, q, actor.ID)
}

func (s *UserService) checkRole(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.roleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Field("role", "Invalid role id")
		}
		return err
	}
	return nil
}

// removeAvatar releases an uploaded avatar. The shared default is kept.
func (s *UserService) removeAvatar(ctx context.Context, url string) {
	if url == "" || url == s.defaultAvatar {
		return
	}
	if err := s.assets.Remove(ctx, url); err != nil {
		s.logger.Warnw("failed to remove avatar", "url", url, "error", err)
	}
}
