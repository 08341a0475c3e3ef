// internal/app/features/sprints/complete.go
package sprints

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleComplete moves an Active sprint to Completed. Creator only;
// Completed is terminal so there is no way back from here.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
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
	if sprint.Status != models.SprintActive {
		httpjson.Error(w, h.Log, apperr.InvalidTransition(sprint.Status, models.SprintCompleted))
		return
	}

	updated, err := h.Sprints.Complete(ctx, id, caller.CompanyID, sprintstore.Update{})
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, h.Log, apperr.Conflict("sprint was modified concurrently, retry"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "complete", "sprint", updated.ID, updated.Name)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "sprint completed successfully",
		"sprint":  updated,
	})
}
