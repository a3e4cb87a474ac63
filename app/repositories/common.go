package repositories

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Key prefixes for different entity types
	RoleKeyPrefix     = "role:"
	UserKeyPrefix     = "user:"
	CategoryKeyPrefix = "category:"
	PostKeyPrefix     = "post:"
	CommentKeyPrefix  = "comment:"

	// UniqueKeyPrefix namespaces the unique value index.
	UniqueKeyPrefix = "uniq:"
)

// entityKey builds the key a document is stored under.
func entityKey(prefix string, id primitive.ObjectID) []byte {
	return []byte(prefix + id.Hex())
}

// uniqueKey builds the index key claiming value for one field of an entity.
func uniqueKey(entity, field, value string) []byte {
	return []byte(UniqueKeyPrefix + entity + ":" + field + ":" + value)
}

// marshalEntity encodes an entity as a BSON document
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := bson.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity decodes a BSON document into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := bson.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the document stored at key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// putEntity stores entity at key.
func putEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// mustExist returns ErrNotFound when key is absent.
func mustExist(txn *badger.Txn, key []byte) error {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// scanEntities decodes every document under prefix.
func scanEntities[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Rewind(); it.Valid(); it.Next() {
		entity := new(T)
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, entity)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// indexEntities decodes every document under prefix keyed by its id.
func indexEntities[T any](txn *badger.Txn, prefix string, id func(*T) primitive.ObjectID) (map[primitive.ObjectID]*T, error) {
	all, err := scanEntities[T](txn, prefix)
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]*T, len(all))
	for _, e := range all {
		index[id(e)] = e
	}
	return index, nil
}

// countKeys counts the keys under prefix without reading values.
func countKeys(db *badger.DB, prefix string) (int, error) {
	n := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// claimUnique records that id owns value for field. Claiming a value owned
// by another id fails with a DuplicateError.
func claimUnique(txn *badger.Txn, entity, field, value string, id primitive.ObjectID) error {
	key := uniqueKey(entity, field, value)
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return txn.Set(key, id[:])
	case err != nil:
		return err
	}
	owner, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if primitive.ObjectID(owner) != id {
		return &DuplicateError{Field: field}
	}
	return nil
}

// releaseUnique drops the claim on value.
func releaseUnique(txn *badger.Txn, entity, field, value string) error {
	return txn.Delete(uniqueKey(entity, field, value))
}

// reclaimUnique moves the claim of id from old to value.
func reclaimUnique(txn *badger.Txn, entity, field, old, value string, id primitive.ObjectID) error {
	if old == value {
		return nil
	}
	if err := claimUnique(txn, entity, field, value, id); err != nil {
		return err
	}
	return releaseUnique(txn, entity, field, old)
}

// lookupUnique returns the id owning value.
func lookupUnique(txn *badger.Txn, entity, field, value string) (primitive.ObjectID, error) {
	item, err := txn.Get(uniqueKey(entity, field, value))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return primitive.NilObjectID, ErrNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	var id primitive.ObjectID
	err = item.Value(func(val []byte) error {
		copy(id[:], val)
		return nil
	})
	return id, err
}
