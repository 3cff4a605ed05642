package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names the collection an account lives in. Admins and users share the
// credential shape but never a collection.
type Kind string

const (
	KindAdmin Kind = "admin"
	KindUser  Kind = "user"
)

type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name" validate:"required,max=200"`
	Email        string             `bson:"email" json:"email" validate:"required,accountemail"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AccountUpdate is a partial update; nil fields are left untouched.
type AccountUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AccountChanges is what a repository writes: already validated and hashed.
type AccountChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (c AccountChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}

// Principal is the identity resolved for a request.
type Principal struct {
	Kind    Kind
	Account Account
}

func (p Principal) IsAdmin() bool { return p.Kind == KindAdmin }
func (p Principal) IsUser() bool  { return p.Kind == KindUser }
