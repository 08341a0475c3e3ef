// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses.
const (
	ProjectActive    = "Active"
	ProjectCompleted = "Completed"
	ProjectArchived  = "Archived"
)

// Project visibility values.
const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// Project is a company-scoped container for teams, sprints, and tasks.
// Key is stored uppercase and is unique within the company.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	CompanyID   primitive.ObjectID   `bson:"company_id" json:"company_id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Key         string               `bson:"key" json:"key"`
	Visibility  string               `bson:"visibility" json:"visibility"`
	Status      string               `bson:"status" json:"status"`
	StartDate   time.Time            `bson:"start_date" json:"start_date"`
	EndDate     time.Time            `bson:"end_date" json:"end_date"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is in the project's member set.
func (p *Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
