// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. Completed is terminal; legal transitions are enforced by
// the workflow package.
const (
	TaskTodo       = "Todo"
	TaskInProgress = "In_Progress"
	TaskBlocked    = "Blocked"
	TaskCompleted  = "Completed"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is a unit of work assigned to a single user. The assignee must be a
// member of both the task's project and its team, and belong to the same
// company. SprintID is optional; a task may exist outside any sprint.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	CompanyID   primitive.ObjectID  `bson:"company_id" json:"company_id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	TeamID      primitive.ObjectID  `bson:"team_id" json:"team_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"`
	AssignedTo  primitive.ObjectID  `bson:"assigned_to" json:"assigned_to"`
	SprintID    *primitive.ObjectID `bson:"sprint_id,omitempty" json:"sprint_id,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
