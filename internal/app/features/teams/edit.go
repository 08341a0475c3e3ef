// internal/app/features/teams/edit.go
package teams

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/memberpolicy"
	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	teamstore "github.com/sprinthub/sprinthub/internal/app/store/teams"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// editRequest carries the allow-listed team fields. The project reference
// is not in the list; a team never moves between projects.
type editRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Members     *[]string `json:"members"`
}

// HandleEdit updates a team. Creator only. A member change is re-validated
// against the project's member set as it is now, not as it was when the
// team was created.
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

	team, err := h.Teams.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := scopepolicy.RequireCreator(team.CreatedBy, caller.UserID, "team"); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var u teamstore.Update
	if req.Name != nil {
		name := htmlsanitize.PlainText(normalize.Name(*req.Name))
		if !inputval.LengthBetween(name, 3, 0) {
			httpjson.Error(w, h.Log, apperr.Validation("team name must be at least 3 characters"))
			return
		}
		u.Name = &name
	}
	if req.Description != nil {
		desc := htmlsanitize.PlainText(*req.Description)
		if !inputval.LengthBetween(desc, 10, 0) {
			httpjson.Error(w, h.Log, apperr.Validation("description must be at least 10 characters"))
			return
		}
		u.Description = &desc
	}
	if req.Status != nil {
		if *req.Status != models.TeamActive && *req.Status != models.TeamArchived {
			httpjson.Error(w, h.Log, apperr.Validation("status must be Active or Archived"))
			return
		}
		u.Status = req.Status
	}
	if req.Members != nil {
		members, err := parseMembers(*req.Members)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		project, err := h.Projects.GetScoped(ctx, team.ProjectID, caller.CompanyID)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if err := memberpolicy.ValidateTeamMembers(members, &project); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		u.Members = &members
	}

	updated, err := h.Teams.Apply(ctx, id, caller.CompanyID, u)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "update", "team", updated.ID, updated.Name)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "team updated successfully",
		"team":    updated,
	})
}
