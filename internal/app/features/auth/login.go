// internal/app/features/auth/login.go
package auth

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, sets the session cookie and returns a
// bearer token. Wrong email and wrong password produce the same error so
// the endpoint does not confirm which addresses have accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, h.Log, apperr.Validation("email and password are required"))
		return
	}

	user, found, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !found {
		httpjson.Error(w, h.Log, apperr.Validation("invalid email or password"))
		return
	}
	if !user.IsActive {
		httpjson.Error(w, h.Log, apperr.Forbidden("user account is disabled"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, h.Log, apperr.Validation("invalid email or password"))
		return
	}

	if err := h.SM.SignIn(w, r, user.ID.Hex()); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	token, err := h.SM.IssueToken(user.ID.Hex())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	company, err := h.Companies.GetByID(ctx, user.CompanyID)
	companyName := ""
	if err == nil {
		companyName = company.Name
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user": userPayload{
			ID:      user.ID.Hex(),
			Name:    user.Name,
			Email:   user.Email,
			Role:    user.Role,
			Company: companyName,
		},
	})
}
