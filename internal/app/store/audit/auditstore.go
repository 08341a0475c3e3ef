// internal/app/store/audit/auditstore.go
package auditstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Insert records an audit event, assigning it a UUID and timestamp.
func (s *Store) Insert(ctx context.Context, ev models.AuditEvent) error {
	ev.ID = primitive.NewObjectID()
	ev.EventID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// ListByCompany returns a company's audit events, newest first, capped at
// limit.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID, limit int64) ([]models.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AuditEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
