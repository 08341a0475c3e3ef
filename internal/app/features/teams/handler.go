// internal/app/features/teams/handler.go
package teams

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	teamstore "github.com/sprinthub/sprinthub/internal/app/store/teams"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Teams.
type Handler struct {
	Teams    *teamstore.Store
	Projects *projectstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Teams handler bound to a DB, audit trail and
// logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Teams:    teamstore.New(db),
		Projects: projectstore.New(db),
		Audit:    audit,
		Log:      logger,
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid team id")
	}
	return id, nil
}
