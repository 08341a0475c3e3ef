package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false with no user in context")
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	userID := primitive.NewObjectID()
	companyID := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:        userID.Hex(),
		Name:      "Ada",
		Role:      "Admin",
		CompanyID: companyID.Hex(),
		IsActive:  true,
	})

	c, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if c.UserID != userID {
		t.Errorf("UserID = %v, want %v", c.UserID, userID)
	}
	if c.CompanyID != companyID {
		t.Errorf("CompanyID = %v, want %v", c.CompanyID, companyID)
	}
	if c.Role != "admin" {
		t.Errorf("Role = %q, want lowercased %q", c.Role, "admin")
	}
	if !c.IsAdmin() || c.IsMember() {
		t.Error("expected admin caller")
	}
}

func TestUserCtx_MalformedIDsFailClosed(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		companyID string
	}{
		{"bad user id", "not-an-oid", primitive.NewObjectID().Hex()},
		{"bad company id", primitive.NewObjectID().Hex(), "not-an-oid"},
		{"missing company id", primitive.NewObjectID().Hex(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
				ID:        tt.id,
				Role:      "member",
				CompanyID: tt.companyID,
			})
			if _, ok := authz.UserCtx(req); ok {
				t.Error("expected ok=false for malformed identity")
			}
		})
	}
}

func TestIsAdminIsMember(t *testing.T) {
	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:        primitive.NewObjectID().Hex(),
		Role:      "admin",
		CompanyID: primitive.NewObjectID().Hex(),
	})
	member := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:        primitive.NewObjectID().Hex(),
		Role:      "member",
		CompanyID: primitive.NewObjectID().Hex(),
	})

	if !authz.IsAdmin(admin) || authz.IsMember(admin) {
		t.Error("admin request misclassified")
	}
	if !authz.IsMember(member) || authz.IsAdmin(member) {
		t.Error("member request misclassified")
	}
}
