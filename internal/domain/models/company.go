// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is the tenant root. Every other entity carries a CompanyID and is
// never visible across company boundaries.
//
// A company is created implicitly when the first user registers under a new
// company name; that user becomes the company admin and CreatedBy.
type Company struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped; unique
	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
