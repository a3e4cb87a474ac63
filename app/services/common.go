package services

import (
	"errors"
	"strings"

	"inkwell/app/apperrors"
	"inkwell/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a path parameter into an ObjectID, failing with
// "Invalid <entity> id".
func ParseID(hex, entity string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID(entity)
	}
	return id, nil
}

// mustParse converts a body field that already passed the objectid
// validator.
func mustParse(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}

// notFound turns a missing record into "<entity> not found".
func notFound(err error, entity string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(entity)
	}
	return err
}

// duplicate turns a unique constraint violation into a validation error on
// the offending field.
func duplicate(err error) error {
	var dup *repositories.DuplicateError
	if errors.As(err, &dup) {
		return apperrors.Field(dup.Field, strings.ToUpper(dup.Field[:1])+dup.Field[1:]+" already in use")
	}
	return err
}
