package repositories

import (
	"context"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/search"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userEntity = "user"

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user, claiming its username and email
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := claimUnique(txn, userEntity, "username", user.Username, user.ID); err != nil {
			return err
		}
		if err := claimUnique(txn, userEntity, "email", user.Email, user.ID); err != nil {
			return err
		}
		return putEntity(txn, entityKey(UserKeyPrefix, user.ID), user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *BadgerUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupUnique(txn, userEntity, "username", username)
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetDetail retrieves a user with its role resolved
func (r *BadgerUserRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.UserRow, error) {
	var row models.UserRow
	err := r.db.View(func(txn *badger.Txn) error {
		var user models.User
		if err := getEntity(txn, entityKey(UserKeyPrefix, id), &user); err != nil {
			return err
		}
		var role *models.RoleRef
		var stored models.Role
		switch err := getEntity(txn, entityKey(RoleKeyPrefix, user.RoleID), &stored); err {
		case nil:
			role = &models.RoleRef{ID: stored.ID, Name: stored.Name}
		case ErrNotFound:
		default:
			return err
		}
		row = user.Row(role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Update replaces an existing user, moving unique claims when they change
func (r *BadgerUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(UserKeyPrefix, user.ID)
		var existing models.User
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		if err := reclaimUnique(txn, userEntity, "username", existing.Username, user.Username, user.ID); err != nil {
			return err
		}
		if err := reclaimUnique(txn, userEntity, "email", existing.Email, user.Email, user.ID); err != nil {
			return err
		}
		return putEntity(txn, key, user)
	})
}

// Delete removes a user and returns what was stored
func (r *BadgerUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(UserKeyPrefix, id)
		if err := getEntity(txn, key, &user); err != nil {
			return err
		}
		if err := releaseUnique(txn, userEntity, "username", user.Username); err != nil {
			return err
		}
		if err := releaseUnique(txn, userEntity, "email", user.Email); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Search pages through users matching q, joined with their role
func (r *BadgerUserRepository) Search(ctx context.Context, q search.Query, exclude primitive.ObjectID) (*search.Page[models.UserRow], error) {
	var page *search.Page[models.UserRow]
	err := r.db.View(func(txn *badger.Txn) error {
		roles, err := indexEntities(txn, RoleKeyPrefix, func(r *models.Role) primitive.ObjectID { return r.ID })
		if err != nil {
			return err
		}
		users, err := scanEntities[models.User](txn, UserKeyPrefix)
		if err != nil {
			return err
		}

		rows := search.Unwind(users, func(u *models.User) (models.UserRow, bool) {
			role, ok := roles[u.RoleID]
			if !ok {
				return models.UserRow{}, false
			}
			return u.Row(&models.RoleRef{ID: role.ID, Name: role.Name}), true
		})
		page, err = search.Run(rows, UserSchema, q, func(row models.UserRow) bool {
			return row.ID != exclude
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return page, nil
}

// Count returns the number of users
func (r *BadgerUserRepository) Count(ctx context.Context) (int, error) {
	return countKeys(r.db, UserKeyPrefix)
}
