// internal/app/features/projects/handler.go
package projects

import (
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Projects.
type Handler struct {
	Projects *projectstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Projects handler bound to a DB, audit trail and
// logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projectstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}
