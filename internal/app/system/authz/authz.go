// internal/app/system/authz/authz.go

// Package authz turns the request identity (system/auth) into the typed
// caller context the policies and handlers consume: role, user ID, and the
// caller's company ID. Every accessor fails closed on malformed IDs.
package authz

import (
	"net/http"
	"strings"

	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the resolved identity for one request. The tenant scope guard
// filters every entity lookup by Caller.CompanyID before any other check.
type Caller struct {
	UserID    primitive.ObjectID
	CompanyID primitive.ObjectID
	Role      string // "admin" | "member", lowercased
	Name      string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == "admin" }

// IsMember reports whether the caller holds the member role.
func (c Caller) IsMember() bool { return c.Role == "member" }

// UserCtx resolves the caller from the request context. ok is false when no
// user is present or either ID is malformed, so ok=true guarantees a valid,
// company-scoped caller.
func UserCtx(r *http.Request) (Caller, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return Caller{}, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return Caller{}, false
	}
	companyID, err := primitive.ObjectIDFromHex(user.CompanyID)
	if err != nil {
		return Caller{}, false
	}
	return Caller{
		UserID:    userID,
		CompanyID: companyID,
		Role:      strings.ToLower(user.Role),
		Name:      user.Name,
	}, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	c, ok := UserCtx(r)
	return ok && c.IsAdmin()
}

// IsMember reports whether the current request's user is a member.
func IsMember(r *http.Request) bool {
	c, ok := UserCtx(r)
	return ok && c.IsMember()
}
