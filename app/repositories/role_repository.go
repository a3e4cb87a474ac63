package repositories

import (
	"context"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const roleEntity = "role"

// BadgerRoleRepository implements RoleRepository using BadgerDB
type BadgerRoleRepository struct {
	db *badger.DB
}

// NewBadgerRoleRepository creates a new BadgerRoleRepository
func NewBadgerRoleRepository(db *badger.DB) *BadgerRoleRepository {
	return &BadgerRoleRepository{db: db}
}

// Create stores a new role
func (r *BadgerRoleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := claimUnique(txn, roleEntity, "name", role.Name, role.ID); err != nil {
			return err
		}
		return putEntity(txn, entityKey(RoleKeyPrefix, role.ID), role)
	})
}

// GetByID retrieves a role by ID
func (r *BadgerRoleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var role models.Role
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(RoleKeyPrefix, id), &role)
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName retrieves a role by its unique name
func (r *BadgerRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupUnique(txn, roleEntity, "name", name)
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(RoleKeyPrefix, id), &role)
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Update replaces an existing role
func (r *BadgerRoleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(RoleKeyPrefix, role.ID)
		var existing models.Role
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		if err := reclaimUnique(txn, roleEntity, "name", existing.Name, role.Name, role.ID); err != nil {
			return err
		}
		return putEntity(txn, key, role)
	})
}

// Delete removes a role by ID
func (r *BadgerRoleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(RoleKeyPrefix, id)
		var role models.Role
		if err := getEntity(txn, key, &role); err != nil {
			return err
		}
		if err := releaseUnique(txn, roleEntity, "name", role.Name); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// List returns every role
func (r *BadgerRoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		roles, err = scanEntities[models.Role](txn, RoleKeyPrefix)
		return err
	})
	return roles, err
}

// Search pages through roles matching q
func (r *BadgerRoleRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.Role], error) {
	var page *search.Page[models.Role]
	err := r.db.View(func(txn *badger.Txn) error {
		roles, err := scanEntities[models.Role](txn, RoleKeyPrefix)
		if err != nil {
			return err
		}
		rows := make([]models.Role, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, *role)
		}
		page, err = search.Run(rows, RoleSchema, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search roles: %w", err)
	}
	return page, nil
}
