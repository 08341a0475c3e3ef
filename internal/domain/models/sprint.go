// internal/domain/models/sprint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sprint statuses. Completed is terminal.
const (
	SprintPlanned   = "Planned"
	SprintActive    = "Active"
	SprintCompleted = "Completed"
)

// Sprint is a timeboxed iteration inside a project. At most one sprint per
// project may be Active at any time; the sprints collection carries a
// partial unique index on (project_id, status: Active) so concurrent
// activations resolve deterministically at the storage layer.
type Sprint struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CompanyID primitive.ObjectID `bson:"company_id" json:"company_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Name      string             `bson:"name" json:"name"`
	Goal      string             `bson:"goal" json:"goal"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   time.Time          `bson:"end_date" json:"end_date"`
	Status    string             `bson:"status" json:"status"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
