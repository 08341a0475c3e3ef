// internal/app/features/teams/create.go
package teams

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
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	ProjectID   string   `json:"projectId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Key         string   `json:"key"`
	Members     []string `json:"members"`
}

// HandleCreate creates a team inside a project. Admin only. The project is
// resolved company-scoped before anything else, and every initial member
// must already be a member of that project.
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

	req.Name = htmlsanitize.PlainText(normalize.Name(req.Name))
	req.Description = htmlsanitize.PlainText(req.Description)
	req.Key = normalize.Key(req.Key)

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("projectId, name and key are required"))
		return
	}
	if !inputval.LengthBetween(req.Name, 3, 0) {
		httpjson.Error(w, h.Log, apperr.Validation("team name must be at least 3 characters"))
		return
	}
	if !inputval.LengthBetween(req.Description, 10, 0) {
		httpjson.Error(w, h.Log, apperr.Validation("description must be at least 10 characters"))
		return
	}
	if !inputval.IsValidKey(req.Key) {
		httpjson.Error(w, h.Log, apperr.Validation("team key must be 1-20 uppercase letters, digits or dashes, starting with a letter"))
		return
	}

	project, err := h.Projects.GetScoped(ctx, projectID, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	members, err := parseMembers(req.Members)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := memberpolicy.ValidateTeamMembers(members, &project); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	team, err := h.Teams.Create(ctx, models.Team{
		CompanyID:   caller.CompanyID,
		ProjectID:   project.ID,
		Name:        req.Name,
		Description: req.Description,
		Key:         req.Key,
		Members:     members,
		CreatedBy:   caller.UserID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("team created",
		zap.String("team_id", team.ID.Hex()),
		zap.String("project_id", project.ID.Hex()))
	h.Audit.Record(caller.CompanyID, caller.UserID, "create", "team", team.ID, team.Name)

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "team created successfully",
		"team":    team,
	})
}

// parseMembers converts hex IDs from the request into ObjectIDs.
func parseMembers(raw []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.Validation("invalid member id %q", s)
		}
		out = append(out, id)
	}
	return out, nil
}
