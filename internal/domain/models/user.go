// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. The role is decided once at registration: the
// first registrant under a company name becomes admin, everyone after
// becomes member. No operation elevates or demotes a role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents a company admin or member.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"` // lowercase; unique
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // admin | member
	CompanyID    primitive.ObjectID `bson:"company_id" json:"company_id"`
	IsActive     bool               `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
