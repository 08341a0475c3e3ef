// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateEmail is returned when a user with the same email already
// exists (emails are globally unique, case-insensitive).
var ErrDuplicateEmail = apperr.Conflict("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a user. Role and company are fixed here, at registration,
// and never change afterwards.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.EmailCI = normalize.Email(u.Email)
	u.IsActive = true
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail finds a user by case-insensitive email. Returns ok=false when
// absent so login can distinguish "no user" without error plumbing.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, bool, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

// GetByID loads a user without company scoping. Callers that hand the
// result to another tenant's flow must scope-check it themselves (the
// membership validator does).
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user not found")
		}
		return models.User{}, err
	}
	return u, nil
}

// ListByCompany returns all users of a company.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fetcher adapts the store to auth.UserFetcher so the session middleware
// loads fresh user data (role, is_active) on every request.
type Fetcher struct {
	s *Store
}

func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{s: New(db)}
}

func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	u, err := f.s.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.SessionUser{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID.Hex(),
		IsActive:  u.IsActive,
	}, nil
}
