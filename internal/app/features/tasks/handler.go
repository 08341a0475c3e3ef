// internal/app/features/tasks/handler.go
package tasks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	teamstore "github.com/sprinthub/sprinthub/internal/app/store/teams"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Tasks. It carries every
// store the membership validator needs so assignment checks always run
// against current data.
type Handler struct {
	Tasks    *taskstore.Store
	Projects *projectstore.Store
	Teams    *teamstore.Store
	Sprints  *sprintstore.Store
	Users    *userstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Tasks handler bound to a DB, audit trail and
// logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:    taskstore.New(db),
		Projects: projectstore.New(db),
		Teams:    teamstore.New(db),
		Sprints:  sprintstore.New(db),
		Users:    userstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid task id")
	}
	return id, nil
}
