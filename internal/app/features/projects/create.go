// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"time"

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
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Key         string     `json:"key"`
	Visibility  string     `json:"visibility"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Members     []string   `json:"members"`
}

// HandleCreate creates a project. Admin only; the creator is recorded and
// becomes a member by default.
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

	if !inputval.LengthBetween(req.Name, 3, 0) {
		httpjson.Error(w, h.Log, apperr.Validation("project name must be at least 3 characters"))
		return
	}
	if !inputval.LengthBetween(req.Description, 10, 0) {
		httpjson.Error(w, h.Log, apperr.Validation("description must be at least 10 characters"))
		return
	}
	if req.StartDate == nil || req.EndDate == nil {
		httpjson.Error(w, h.Log, apperr.Validation("start and end date are required"))
		return
	}
	if !req.EndDate.After(*req.StartDate) {
		httpjson.Error(w, h.Log, apperr.Validation("end date must be after start date"))
		return
	}
	if req.Key != "" && !inputval.IsValidKey(req.Key) {
		httpjson.Error(w, h.Log, apperr.Validation("project key must be 1-20 uppercase letters, digits or dashes, starting with a letter"))
		return
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPublic
	}
	if req.Visibility != models.VisibilityPublic && req.Visibility != models.VisibilityPrivate {
		httpjson.Error(w, h.Log, apperr.Validation("visibility must be Public or Private"))
		return
	}

	members, err := parseMembers(req.Members)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	members = ensureMember(members, caller.UserID)

	project, err := h.Projects.Create(ctx, models.Project{
		CompanyID:   caller.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Key:         req.Key,
		Visibility:  req.Visibility,
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		Members:     members,
		CreatedBy:   caller.UserID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("company_id", caller.CompanyID.Hex()))
	h.Audit.Record(caller.CompanyID, caller.UserID, "create", "project", project.ID, project.Name)

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "project created successfully",
		"project": project,
	})
}

// parseMembers converts hex IDs from the request into ObjectIDs, rejecting
// malformed values.
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

// ensureMember adds id to members if absent.
func ensureMember(members []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, m := range members {
		if m == id {
			return members
		}
	}
	return append(members, id)
}
