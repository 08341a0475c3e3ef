// internal/app/features/sprints/handler.go
package sprints

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Sprints.
type Handler struct {
	Sprints  *sprintstore.Store
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Sprints handler bound to a DB, audit trail and
// logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Sprints:  sprintstore.New(db),
		Projects: projectstore.New(db),
		Tasks:    taskstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid sprint id")
	}
	return id, nil
}
