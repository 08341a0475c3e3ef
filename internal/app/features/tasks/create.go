// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/memberpolicy"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/app/system/workflow"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	ProjectID   string `json:"projectId"`
	TeamID      string `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
	Sprint      string `json:"sprint"`
}

// HandleCreate creates a task in Todo state. Admin only. The whole
// assignment chain is validated in order: project in the caller's company,
// team inside that project, assignee in the company and a member of both.
// Any failure rejects the create; there are no partial writes.
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

	req.Title = htmlsanitize.PlainText(normalize.Name(req.Title))
	req.Description = htmlsanitize.PlainText(req.Description)

	projectID, perr := primitive.ObjectIDFromHex(req.ProjectID)
	teamID, terr := primitive.ObjectIDFromHex(req.TeamID)
	assigneeID, aerr := primitive.ObjectIDFromHex(req.AssignedTo)
	if perr != nil || terr != nil || aerr != nil || req.Title == "" {
		httpjson.Error(w, h.Log, apperr.Validation("projectId, teamId, title and assignedTo are required"))
		return
	}
	if !inputval.LengthBetween(req.Title, 3, 200) {
		httpjson.Error(w, h.Log, apperr.Validation("title must be 3 to 200 characters"))
		return
	}
	if !inputval.LengthBetween(req.Description, 0, 2000) {
		httpjson.Error(w, h.Log, apperr.Validation("description must be at most 2000 characters"))
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !workflow.IsValidTaskPriority(req.Priority) {
		httpjson.Error(w, h.Log, apperr.Validation("priority must be Low, Medium or High"))
		return
	}

	project, err := h.Projects.GetScoped(ctx, projectID, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	team, err := h.Teams.GetScoped(ctx, teamID, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if team.ProjectID != project.ID {
		httpjson.Error(w, h.Log, apperr.Validation("team does not belong to this project"))
		return
	}

	assignee, err := h.Users.GetByID(ctx, assigneeID)
	if err != nil && !apperr.IsNotFound(err) {
		httpjson.Error(w, h.Log, err)
		return
	}
	var assigneePtr *models.User
	if err == nil {
		assigneePtr = &assignee
	}
	if err := memberpolicy.ValidateAssignee(assigneePtr, caller.CompanyID, &project, &team); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var sprintID *primitive.ObjectID
	if req.Sprint != "" {
		sid, err := primitive.ObjectIDFromHex(req.Sprint)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validation("invalid sprint id"))
			return
		}
		sprint, err := h.Sprints.GetScoped(ctx, sid, caller.CompanyID)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if sprint.ProjectID != project.ID {
			httpjson.Error(w, h.Log, apperr.Validation("sprint does not belong to this project"))
			return
		}
		sprintID = &sprint.ID
	}

	task, err := h.Tasks.Create(ctx, models.Task{
		CompanyID:   caller.CompanyID,
		ProjectID:   project.ID,
		TeamID:      team.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  assignee.ID,
		SprintID:    sprintID,
		CreatedBy:   caller.UserID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("project_id", project.ID.Hex()),
		zap.String("assigned_to", assignee.ID.Hex()))
	h.Audit.Record(caller.CompanyID, caller.UserID, "create", "task", task.ID, task.Title)

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "task created successfully",
		"task":    task,
	})
}
