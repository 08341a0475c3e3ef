// internal/app/features/auth/logout.go
package auth

import (
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
)

// HandleLogout clears the session. Bearer tokens are not revoked; they
// simply expire.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SM.SignOut(w, r); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Message(w, http.StatusOK, "logged out successfully")
}
