// internal/domain/models/auditevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records an admin mutation (create/update/delete/complete) for a
// company. EventID is a UUID so events can be referenced outside Mongo.
type AuditEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID   string             `bson:"event_id" json:"event_id"`
	CompanyID primitive.ObjectID `bson:"company_id" json:"company_id"`
	ActorID   primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Action    string             `bson:"action" json:"action"` // create | update | delete | complete | status
	Entity    string             `bson:"entity" json:"entity"` // project | team | sprint | task | company
	EntityID  primitive.ObjectID `bson:"entity_id" json:"entity_id"`
	Detail    string             `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
