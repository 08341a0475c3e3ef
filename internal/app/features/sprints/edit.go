// internal/app/features/sprints/edit.go
package sprints

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/app/system/workflow"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type editRequest struct {
	Name      *string    `json:"name"`
	Goal      *string    `json:"goal"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    *string    `json:"status"`
}

// HandleEdit updates a sprint. Creator only; a Completed sprint is frozen.
// A status change goes through the lifecycle rules and shares a single
// write with the field edits, so a rejected transition leaves every field
// untouched. The activation pre-check names the sprint currently holding
// the Active slot, and the partial unique index settles concurrent
// activations.
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

	sprint, err := h.Sprints.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := scopepolicy.RequireCreator(sprint.CreatedBy, caller.UserID, "sprint"); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if sprint.Status == models.SprintCompleted {
		httpjson.Error(w, h.Log, apperr.Validation("completed sprint cannot be updated"))
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var u sprintstore.Update
	if req.Name != nil {
		name := htmlsanitize.PlainText(normalize.Name(*req.Name))
		if !inputval.LengthBetween(name, 3, 100) {
			httpjson.Error(w, h.Log, apperr.Validation("sprint name must be 3 to 100 characters"))
			return
		}
		u.Name = &name
	}
	if req.Goal != nil {
		goal := htmlsanitize.PlainText(normalize.Name(*req.Goal))
		if !inputval.LengthBetween(goal, 0, 500) {
			httpjson.Error(w, h.Log, apperr.Validation("goal must be at most 500 characters"))
			return
		}
		u.Goal = &goal
	}

	start, end := sprint.StartDate, sprint.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
		u.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
		u.EndDate = req.EndDate
	}
	if !end.After(start) {
		httpjson.Error(w, h.Log, apperr.Validation("endDate must be after startDate"))
		return
	}

	var updated models.Sprint
	if req.Status != nil && *req.Status != sprint.Status {
		updated, err = h.transition(ctx, caller, sprint, *req.Status, u)
	} else {
		updated, err = h.Sprints.Apply(ctx, id, caller.CompanyID, u)
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "update", "sprint", updated.ID, updated.Name)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "sprint updated successfully",
		"sprint":  updated,
	})
}

// transition applies a lifecycle move requested through the update body.
// Field edits in u are written by the same store update as the status, so
// nothing is persisted when the move is refused.
func (h *Handler) transition(ctx context.Context, caller authz.Caller, sprint models.Sprint, target string, u sprintstore.Update) (models.Sprint, error) {
	if err := workflow.TransitionSprint(sprint.Status, target); err != nil {
		return models.Sprint{}, err
	}

	switch target {
	case models.SprintActive:
		if active, found, err := h.Sprints.FindActive(ctx, caller.CompanyID, sprint.ProjectID); err != nil {
			return models.Sprint{}, err
		} else if found && active.ID != sprint.ID {
			return models.Sprint{}, apperr.Conflict("complete the existing active sprint first: %s", active.Name)
		}
		updated, err := h.Sprints.Activate(ctx, sprint.ID, caller.CompanyID, u)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Sprint{}, apperr.Conflict("sprint was modified concurrently, retry")
		}
		if err != nil {
			return models.Sprint{}, err
		}
		h.Audit.Record(caller.CompanyID, caller.UserID, "status", "sprint", updated.ID, "Planned -> Active")
		return updated, nil

	case models.SprintCompleted:
		updated, err := h.Sprints.Complete(ctx, sprint.ID, caller.CompanyID, u)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Sprint{}, apperr.Conflict("sprint was modified concurrently, retry")
		}
		if err != nil {
			return models.Sprint{}, err
		}
		h.Audit.Record(caller.CompanyID, caller.UserID, "complete", "sprint", updated.ID, updated.Name)
		return updated, nil
	}
	return models.Sprint{}, apperr.InvalidTransition(sprint.Status, target)
}
