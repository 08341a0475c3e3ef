// internal/app/features/sprints/delete.go
package sprints

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
)

// HandleDelete removes a sprint. Creator only, and refused while any task
// still references it.
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

	sprint, err := h.Sprints.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := scopepolicy.RequireCreator(sprint.CreatedBy, caller.UserID, "sprint"); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	count, err := h.Tasks.CountBySprint(ctx, caller.CompanyID, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if count > 0 {
		httpjson.Error(w, h.Log, apperr.Conflict("sprint cannot be deleted as tasks are assigned"))
		return
	}

	if err := h.Sprints.Delete(ctx, id, caller.CompanyID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "delete", "sprint", id, sprint.Name)
	httpjson.Message(w, http.StatusOK, "sprint deleted successfully")
}
