package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the authenticated identity a request is made under.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify reports whether the actor may act on something owned by owner.
func (a Actor) CanModify(owner primitive.ObjectID) bool {
	return a.IsAdmin() || a.ID == owner
}
