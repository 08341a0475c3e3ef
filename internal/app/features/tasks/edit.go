// internal/app/features/tasks/edit.go
package tasks

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/memberpolicy"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
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
)

// editRequest carries the allow-listed task fields for the creator admin.
// Status is deliberately not here: transitions belong to the assignee and
// go through the status endpoint.
type editRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
	Sprint      *string `json:"sprint"` // empty string clears the linkage
}

// HandleEdit updates a task. Only the creating admin may edit, and a
// reassignment re-runs the full membership validation against the task's
// current project and team. If validation fails nothing changes, including
// the assignee.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	task, err := h.Tasks.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if task.CreatedBy != caller.UserID {
		httpjson.Error(w, h.Log, apperr.Forbidden("only the creator admin can update this task"))
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var u taskstore.Update
	if req.Title != nil {
		title := htmlsanitize.PlainText(normalize.Name(*req.Title))
		if !inputval.LengthBetween(title, 3, 200) {
			httpjson.Error(w, h.Log, apperr.Validation("title must be 3 to 200 characters"))
			return
		}
		u.Title = &title
	}
	if req.Description != nil {
		desc := htmlsanitize.PlainText(*req.Description)
		if !inputval.LengthBetween(desc, 0, 2000) {
			httpjson.Error(w, h.Log, apperr.Validation("description must be at most 2000 characters"))
			return
		}
		u.Description = &desc
	}
	if req.Priority != nil {
		if !workflow.IsValidTaskPriority(*req.Priority) {
			httpjson.Error(w, h.Log, apperr.Validation("priority must be Low, Medium or High"))
			return
		}
		u.Priority = req.Priority
	}

	if req.AssignedTo != nil {
		assigneeID, err := primitive.ObjectIDFromHex(*req.AssignedTo)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validation("invalid assignee id"))
			return
		}
		if err := h.validateAssignee(ctx, caller, task, assigneeID); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		u.AssignedTo = &assigneeID
	}

	if req.Sprint != nil {
		if *req.Sprint == "" {
			var cleared *primitive.ObjectID
			u.SprintID = &cleared
		} else {
			sid, err := primitive.ObjectIDFromHex(*req.Sprint)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.Validation("invalid sprint id"))
				return
			}
			sprint, err := h.Sprints.GetScoped(ctx, sid, caller.CompanyID)
			if err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
			if sprint.ProjectID != task.ProjectID {
				httpjson.Error(w, h.Log, apperr.Validation("sprint does not belong to this project"))
				return
			}
			sp := &sprint.ID
			u.SprintID = &sp
		}
	}

	updated, err := h.Tasks.Apply(ctx, id, caller.CompanyID, u)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "update", "task", updated.ID, updated.Title)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "task updated successfully",
		"task":    updated,
	})
}

// validateAssignee runs the membership chain for a reassignment: company,
// then the task's current project and team, all read fresh.
func (h *Handler) validateAssignee(ctx context.Context, caller authz.Caller, task models.Task, assigneeID primitive.ObjectID) error {
	project, err := h.Projects.GetScoped(ctx, task.ProjectID, caller.CompanyID)
	if err != nil {
		return err
	}
	team, err := h.Teams.GetScoped(ctx, task.TeamID, caller.CompanyID)
	if err != nil {
		return err
	}

	assignee, err := h.Users.GetByID(ctx, assigneeID)
	if err != nil && !apperr.IsNotFound(err) {
		return err
	}
	var assigneePtr *models.User
	if err == nil {
		assigneePtr = &assignee
	}
	return memberpolicy.ValidateAssignee(assigneePtr, caller.CompanyID, &project, &team)
}
