// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
)

// HandleDelete removes a task. Only the creating admin may delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
		httpjson.Error(w, h.Log, apperr.Forbidden("only the creator admin can delete this task"))
		return
	}

	if err := h.Tasks.Delete(ctx, id, caller.CompanyID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "delete", "task", id, task.Title)
	httpjson.Message(w, http.StatusOK, "task deleted successfully")
}
