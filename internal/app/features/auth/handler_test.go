package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authfeature "github.com/sprinthub/sprinthub/internal/app/features/auth"
	sysauth "github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*authfeature.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := sysauth.NewSessionManager("test-session-key-for-testing-only-0123456789", "test-session", "", false, "test-jwt-secret", logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return authfeature.NewHandler(db, sm, logger), db
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type registeredUser struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

func register(t *testing.T, h *authfeature.Handler, name, email, password, company string) (*testutil.ResponseRecorder, registeredUser) {
	t.Helper()
	req := jsonRequest(t, "POST", "/auth/register", map[string]string{
		"name": name, "email": email, "password": password, "companyName": company,
	})
	rec := testutil.NewRecorder()
	h.HandleRegister(rec, req)

	var resp struct {
		User registeredUser `json:"user"`
	}
	if rec.Code == http.StatusCreated {
		rec.DecodeJSON(t, &resp)
	}
	return rec, resp.User
}

func TestRegister_FirstRegistrantFoundsCompany(t *testing.T) {
	h, db := newTestHandler(t)

	rec, user := register(t, h, "Jo Founder", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)
	if user.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleAdmin)
	}
	if user.Company != "Acme Corp" {
		t.Errorf("company: got %q, want Acme Corp", user.Company)
	}

	// The founder is recorded on the company document.
	var company models.Company
	err := db.Collection("companies").FindOne(context.Background(), bson.M{"name_ci": "acme corp"}).Decode(&company)
	if err != nil {
		t.Fatalf("load company: %v", err)
	}
	userID, _ := primitive.ObjectIDFromHex(user.ID)
	if company.CreatedBy != userID {
		t.Errorf("company created_by not set to founder")
	}
}

func TestRegister_SecondRegistrantJoinsAsMember(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := register(t, h, "Jo Founder", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)

	// Case-insensitive company match; no second company is created.
	rec, user := register(t, h, "Sam Joiner", "sam@example.com", "sw0rdf1sh!", "ACME corp")
	rec.AssertStatus(t, http.StatusCreated)
	if user.Role != models.RoleMember {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleMember)
	}
	if user.Company != "Acme Corp" {
		t.Errorf("company: got %q, want the original casing", user.Company)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := register(t, h, "Jo", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)

	rec, _ = register(t, h, "Jo Again", "JO@example.com", "sw0rdf1sh!", "Globex")
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertBodyContains(t, "a user with this email already exists")
}

func TestRegister_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing fields", map[string]string{"name": "Jo"}, "all fields are required"},
		{"bad email", map[string]string{"name": "Jo", "email": "not-an-email", "password": "sw0rdf1sh!", "companyName": "Acme"}, "invalid email address"},
		{"short password", map[string]string{"name": "Jo", "email": "jo@example.com", "password": "short", "companyName": "Acme"}, "password must be 8 to 72 characters"},
		{"short company", map[string]string{"name": "Jo", "email": "jo@example.com", "password": "sw0rdf1sh!", "companyName": "A"}, "company name must be 2 to 100 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleRegister(rec, jsonRequest(t, "POST", "/auth/register", tc.body))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertBodyContains(t, tc.want)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := register(t, h, "Jo", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	h.HandleLogin(rec, jsonRequest(t, "POST", "/auth/login", map[string]string{
		"email": "Jo@Example.com", "password": "sw0rdf1sh!",
	}))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Company string `json:"company"`
		} `json:"user"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Token == "" {
		t.Errorf("login response missing token")
	}
	if resp.User.Company != "Acme Corp" {
		t.Errorf("company: got %q, want Acme Corp", resp.User.Company)
	}
}

func TestLogin_WrongCredentialsAreIndistinguishable(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := register(t, h, "Jo", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)

	// Wrong password and unknown email produce the same response.
	for _, body := range []map[string]string{
		{"email": "jo@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "sw0rdf1sh!"},
	} {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec, jsonRequest(t, "POST", "/auth/login", body))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertBodyContains(t, "invalid email or password")
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	h, db := newTestHandler(t)

	rec, user := register(t, h, "Jo", "jo@example.com", "sw0rdf1sh!", "Acme Corp")
	rec.AssertStatus(t, http.StatusCreated)

	userID, _ := primitive.ObjectIDFromHex(user.ID)
	_, err := db.Collection("users").UpdateByID(context.Background(), userID,
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		t.Fatalf("disable user: %v", err)
	}

	rec = testutil.NewRecorder()
	h.HandleLogin(rec, jsonRequest(t, "POST", "/auth/login", map[string]string{
		"email": "jo@example.com", "password": "sw0rdf1sh!",
	}))
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertBodyContains(t, "user account is disabled")
}
