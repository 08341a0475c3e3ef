// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/app/system/workflow"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList lists tasks, paged. Admins see company tasks with optional
// project, team and status filters; members only ever see their own
// assignments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := bson.M{"company_id": caller.CompanyID}

	if caller.IsAdmin() {
		if raw := q.Get("project"); raw != "" {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.Validation("invalid project filter"))
				return
			}
			filter["project_id"] = id
		}
		if raw := q.Get("team"); raw != "" {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.Validation("invalid team filter"))
				return
			}
			filter["team_id"] = id
		}
	} else {
		filter["assigned_to"] = caller.UserID
	}
	if status := q.Get("status"); status != "" {
		if !workflow.IsValidTaskStatus(status) {
			httpjson.Error(w, h.Log, apperr.Validation("invalid status filter"))
			return
		}
		filter["status"] = status
	}

	pg := paging.Parse(r)
	tasks, err := h.Tasks.List(ctx, filter, pg)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	next, more := paging.Trim(pg, &tasks, func(t models.Task) primitive.ObjectID { return t.ID })

	resp := map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	}
	if more {
		resp["nextCursor"] = next
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// ServeView returns one task, company-scoped. Members can only see tasks
// assigned to them.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if caller.IsMember() && task.AssignedTo != caller.UserID {
		httpjson.Error(w, h.Log, apperr.Forbidden("access denied"))
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"task": task})
}
