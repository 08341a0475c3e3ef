// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// editRequest carries the allow-listed project fields. Anything else in the
// body is decoded into nothing and ignored.
type editRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Key         *string    `json:"key"`
	Visibility  *string    `json:"visibility"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Members     *[]string  `json:"members"`
}

// HandleEdit updates a project. Creator only; fields outside the allow-list
// never change.
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

	project, err := h.Projects.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := scopepolicy.RequireCreator(project.CreatedBy, caller.UserID, "project"); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	update, err := buildUpdate(&project, req)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Projects.Apply(ctx, id, caller.CompanyID, update)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "update", "project", updated.ID, updated.Name)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "project updated",
		"project": updated,
	})
}

// buildUpdate validates each provided field against current state. Date
// ordering is checked against the effective pair (new value where provided,
// stored value otherwise).
func buildUpdate(current *models.Project, req editRequest) (projectstore.Update, error) {
	var u projectstore.Update

	if req.Name != nil {
		name := htmlsanitize.PlainText(normalize.Name(*req.Name))
		if !inputval.LengthBetween(name, 3, 0) {
			return u, apperr.Validation("project name must be at least 3 characters")
		}
		u.Name = &name
	}
	if req.Description != nil {
		desc := htmlsanitize.PlainText(*req.Description)
		if !inputval.LengthBetween(desc, 10, 0) {
			return u, apperr.Validation("description must be at least 10 characters")
		}
		u.Description = &desc
	}
	if req.Key != nil {
		key := normalize.Key(*req.Key)
		if key != "" && !inputval.IsValidKey(key) {
			return u, apperr.Validation("project key must be 1-20 uppercase letters, digits or dashes, starting with a letter")
		}
		u.Key = &key
	}
	if req.Visibility != nil {
		if *req.Visibility != models.VisibilityPublic && *req.Visibility != models.VisibilityPrivate {
			return u, apperr.Validation("visibility must be Public or Private")
		}
		u.Visibility = req.Visibility
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ProjectActive, models.ProjectCompleted, models.ProjectArchived:
		default:
			return u, apperr.Validation("status must be Active, Completed or Archived")
		}
		u.Status = req.Status
	}

	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
		u.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
		u.EndDate = req.EndDate
	}
	if !end.After(start) {
		return u, apperr.Validation("end date must be after start date")
	}

	if req.Members != nil {
		members, err := parseMembers(*req.Members)
		if err != nil {
			return u, err
		}
		members = ensureMember(members, current.CreatedBy)
		u.Members = &members
	}

	return u, nil
}
