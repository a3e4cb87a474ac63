package services

import (
	"context"
	"net/url"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RoleService handles business logic for roles
type RoleService struct {
	roleRepo repositories.RoleRepository
	logger   *zap.SugaredLogger
}

func NewRoleService(roleRepo repositories.RoleRepository, logger *zap.SugaredLogger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

func (s *RoleService) CreateRole(ctx context.Context, in models.RoleInput) (*models.Role, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	role := &models.Role{Name: in.Name}
	role.BeforeCreate()
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, duplicate(err)
	}
	s.logger.Infow("role created", "roleId", role.ID.Hex(), "name", role.Name)
	return role, nil
}

func (s *RoleService) GetRole(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Role")
	}
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []*models.Role{}
	}
	return roles, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id primitive.ObjectID, in models.RoleInput) (*models.Role, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = in.Name
	role.BeforeUpdate()
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, duplicate(notFound(err, "Role"))
	}
	return role, nil
}

// DeleteRole removes a role. Users holding it drop out of user search.
func (s *RoleService) DeleteRole(ctx context.Context, id primitive.ObjectID) error {
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Role")
	}
	s.logger.Infow("role deleted", "roleId", id.Hex())
	return nil
}

func (s *RoleService) SearchRoles(ctx context.Context, values url.Values) (*search.Page[models.Role], error) {
	q, err := search.ParseQuery(values, models.RoleSortFields)
	if err != nil {
		return nil, err
	}
	return s.roleRepo.Search(ctx, q)
}
