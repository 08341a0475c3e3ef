// internal/app/features/sprints/create.go
package sprints

import (
	"context"
	"net/http"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	ProjectID string     `json:"projectId"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// HandleCreate creates a sprint in Planned state. Admin only; the project
// is resolved company-scoped first.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Name = htmlsanitize.PlainText(normalize.Name(req.Name))
	req.Goal = htmlsanitize.PlainText(normalize.Name(req.Goal))

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil || req.Name == "" || req.StartDate == nil || req.EndDate == nil {
		httpjson.Error(w, h.Log, apperr.Validation("projectId, name, startDate and endDate are required"))
		return
	}
	if !inputval.LengthBetween(req.Name, 3, 100) {
		httpjson.Error(w, h.Log, apperr.Validation("sprint name must be 3 to 100 characters"))
		return
	}
	if !inputval.LengthBetween(req.Goal, 0, 500) {
		httpjson.Error(w, h.Log, apperr.Validation("goal must be at most 500 characters"))
		return
	}
	if !req.EndDate.After(*req.StartDate) {
		httpjson.Error(w, h.Log, apperr.Validation("endDate must be after startDate"))
		return
	}

	project, err := h.Projects.GetScoped(ctx, projectID, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	sprint, err := h.Sprints.Create(ctx, models.Sprint{
		CompanyID: caller.CompanyID,
		ProjectID: project.ID,
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
		CreatedBy: caller.UserID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("sprint created",
		zap.String("sprint_id", sprint.ID.Hex()),
		zap.String("project_id", project.ID.Hex()))
	h.Audit.Record(caller.CompanyID, caller.UserID, "create", "sprint", sprint.ID, sprint.Name)

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "sprint created successfully",
		"sprint":  sprint,
	})
}
