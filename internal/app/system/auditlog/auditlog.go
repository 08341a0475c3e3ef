// internal/app/system/auditlog/auditlog.go
//
// Best-effort audit trail of admin mutations. A failed audit write never
// fails the request that caused it; it is logged and dropped.
package auditlog

import (
	"context"
	"time"

	auditstore "github.com/sprinthub/sprinthub/internal/app/store/audit"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Logger struct {
	store *auditstore.Store
	log   *zap.Logger
}

func New(store *auditstore.Store, log *zap.Logger) *Logger {
	return &Logger{store: store, log: log}
}

// Record writes one audit event. It uses a detached short context so the
// write survives the request context being canceled right after a response.
func (l *Logger) Record(companyID, actorID primitive.ObjectID, action, entity string, entityID primitive.ObjectID, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := l.store.Insert(ctx, models.AuditEvent{
		CompanyID: companyID,
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
	})
	if err != nil {
		l.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.String("entity_id", entityID.Hex()),
			zap.Error(err))
	}
}
