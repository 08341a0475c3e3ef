// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team statuses.
const (
	TeamActive   = "Active"
	TeamArchived = "Archived"
)

// Team is a group of project members inside a single project. Key is stored
// uppercase and is unique within the project. Every team member must be a
// member of the parent project at the time of assignment.
type Team struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	CompanyID   primitive.ObjectID   `bson:"company_id" json:"company_id"`
	ProjectID   primitive.ObjectID   `bson:"project_id" json:"project_id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Key         string               `bson:"key" json:"key"`
	Status      string               `bson:"status" json:"status"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is in the team's member set.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}
