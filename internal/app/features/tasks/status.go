// internal/app/features/tasks/status.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/app/system/workflow"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status string `json:"status"`
}

// HandleStatus moves a task along the workflow. Member role only, and only
// the assignee; the write pins the status the transition was validated
// against, so a concurrent move makes this request fail instead of
// double-applying. No other field is touched.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
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

	var req statusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !workflow.IsValidTaskStatus(req.Status) {
		httpjson.Error(w, h.Log, apperr.Validation("status must be Todo, In_Progress, Blocked or Completed"))
		return
	}

	task, err := h.Tasks.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if task.AssignedTo != caller.UserID {
		httpjson.Error(w, h.Log, apperr.Forbidden("not your task"))
		return
	}
	if err := workflow.TransitionTask(task.Status, req.Status); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Tasks.UpdateStatus(ctx, id, caller.CompanyID, task.Status, req.Status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, h.Log, apperr.Conflict("task was modified concurrently, retry"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("task status updated",
		zap.String("task_id", updated.ID.Hex()),
		zap.String("from", task.Status),
		zap.String("to", updated.Status))

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "task status updated successfully",
		"task":    updated,
	})
}
