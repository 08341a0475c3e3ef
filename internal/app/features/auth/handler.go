// internal/app/features/auth/handler.go
package auth

import (
	companystore "github.com/sprinthub/sprinthub/internal/app/store/companies"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for registration, login and
// logout.
type Handler struct {
	Users     *userstore.Store
	Companies *companystore.Store
	SM        *auth.SessionManager
	Log       *zap.Logger
}

// NewHandler constructs an auth handler bound to a DB, session manager and
// logger.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     userstore.New(db),
		Companies: companystore.New(db),
		SM:        sm,
		Log:       logger,
	}
}

// userPayload is the user shape returned by register and login.
type userPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Company string `json:"company"`
}
