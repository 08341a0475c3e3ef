// internal/app/features/auth/register.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/store/companies"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/htmlsanitize"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/inputval"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

// HandleRegister creates a user, resolving the company by case-insensitive
// name. A new company makes the registrant its admin and founder; an
// existing one makes them a member. This is the only place a role is ever
// assigned.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Name = htmlsanitize.PlainText(normalize.Name(req.Name))
	req.Email = normalize.Email(req.Email)
	req.CompanyName = htmlsanitize.PlainText(normalize.Name(req.CompanyName))

	if req.Name == "" || req.Email == "" || req.Password == "" || req.CompanyName == "" {
		httpjson.Error(w, h.Log, apperr.Validation("all fields are required"))
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		httpjson.Error(w, h.Log, apperr.Validation("invalid email address"))
		return
	}
	if !inputval.LengthBetween(req.Password, 8, 72) {
		httpjson.Error(w, h.Log, apperr.Validation("password must be 8 to 72 characters"))
		return
	}
	if !inputval.LengthBetween(req.CompanyName, 2, 100) {
		httpjson.Error(w, h.Log, apperr.Validation("company name must be 2 to 100 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	company, role, created, err := h.resolveCompany(ctx, req.CompanyName)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CompanyID:    company.ID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if created {
		if err := h.Companies.SetCreatedBy(ctx, company.ID, user.ID); err != nil {
			h.Log.Warn("failed to record company founder",
				zap.String("company_id", company.ID.Hex()),
				zap.Error(err))
		}
	}

	h.Log.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("company_id", company.ID.Hex()),
		zap.String("role", role))

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"user": userPayload{
			ID:      user.ID.Hex(),
			Name:    user.Name,
			Email:   user.Email,
			Role:    user.Role,
			Company: company.Name,
		},
	})
}

// resolveCompany finds or creates the company. Two registrants racing to
// create the same company are resolved by the unique name_ci index; the
// loser re-reads the winner's document and joins as a member.
func (h *Handler) resolveCompany(ctx context.Context, name string) (models.Company, string, bool, error) {
	company, found, err := h.Companies.GetByName(ctx, name)
	if err != nil {
		return models.Company{}, "", false, err
	}
	if found {
		return company, models.RoleMember, false, nil
	}

	company, err = h.Companies.Create(ctx, name)
	if err == nil {
		return company, models.RoleAdmin, true, nil
	}
	if !errors.Is(err, companystore.ErrDuplicateName) {
		return models.Company{}, "", false, err
	}

	// Lost the race; join the company that won.
	company, found, err = h.Companies.GetByName(ctx, name)
	if err != nil {
		return models.Company{}, "", false, err
	}
	if !found {
		return models.Company{}, "", false, apperr.Conflict("company registration conflict, retry")
	}
	return company, models.RoleMember, false, nil
}
